package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// The node set is closed: every implementation lives in this file, and code
// that walks a tree switches over the concrete types below.

// Node is the interface implemented by all tree nodes.
type Node interface {
	aNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Module is a parsed artifact file.
type Module struct {
	Body []Stmt
}

// ----------------------------------------------------------------------------
// Statements

// ClassDef is `class Name(Bases...):` with a body.
type ClassDef struct {
	Name       string
	Decorators []Expr
	Bases      []Expr
	Keywords   []*Keyword
	Body       []Stmt
}

// FuncDef is `def Name(Args) -> Returns:` with a body.
type FuncDef struct {
	Name       string
	Decorators []Expr
	Args       *Arguments
	Returns    Expr // nil when unannotated
	Body       []Stmt
}

// AnnAssign is `Target: Annotation = Value`. Value may be nil.
type AnnAssign struct {
	Target     Expr
	Annotation Expr
	Value      Expr
}

// Assign is `Target = Value` with a single target.
type Assign struct {
	Target Expr
	Value  Expr
}

// ExprStmt is an expression evaluated for effect, including docstrings.
type ExprStmt struct {
	X Expr
}

// Return is `return Value`. Value may be nil.
type Return struct {
	Value Expr
}

// Pass is `pass`.
type Pass struct{}

// Comment is a full-line comment, including the leading '#'.
type Comment struct {
	Text string
}

// Raw is a statement outside the supported grammar, kept verbatim.
// Text is dedented to column zero; the printer re-indents it.
type Raw struct {
	Text string
}

// ----------------------------------------------------------------------------
// Signatures

// Arguments is a parameter list. Defaults align with the tail of Args;
// KwDefaults is parallel to KwOnly and may hold nil entries.
type Arguments struct {
	Args       []*Arg
	Defaults   []Expr
	Vararg     *Arg
	KwOnly     []*Arg
	KwDefaults []Expr
	Kwarg      *Arg
}

// Arg is one parameter. Annotation may be nil.
type Arg struct {
	Name       string
	Annotation Expr
}

// Keyword is `Name=Value` in a call. An empty Name means `**Value`.
type Keyword struct {
	Name  string
	Value Expr
}

// DefaultValue carries a bare default into a rewrite, without a name or
// annotation. It never appears in a parsed tree.
type DefaultValue struct {
	Value Expr
}

// ----------------------------------------------------------------------------
// Expressions

// Name is an identifier.
type Name struct {
	ID string
}

// Attribute is `X.Attr`.
type Attribute struct {
	X    Expr
	Attr string
}

// ConstKind classifies a Constant.
type ConstKind int

const (
	ConstStr ConstKind = iota
	ConstInt
	ConstFloat
	ConstBool
	ConstNone
	ConstEllipsis
)

// Constant is a literal. For strings Value is the decoded text and Prefix
// holds any b/f prefix (raw-ness is resolved at scan time). Numbers keep
// their source spelling; booleans are "True" or "False".
type Constant struct {
	Kind   ConstKind
	Value  string
	Prefix string
}

// Subscript is `X[Index]`. A multi-element index is a *Tuple.
type Subscript struct {
	X     Expr
	Index Expr
}

// Call is `Func(Args..., Keywords...)`.
type Call struct {
	Func     Expr
	Args     []Expr
	Keywords []*Keyword
}

// Tuple is `(a, b)`.
type Tuple struct {
	Elts []Expr
}

// List is `[a, b]`.
type List struct {
	Elts []Expr
}

// Dict is `{k: v}`. Keys and Values are parallel.
type Dict struct {
	Keys   []Expr
	Values []Expr
}

// BinOp is `X Op Y`, including boolean and comparison operators.
type BinOp struct {
	X  Expr
	Op string
	Y  Expr
}

// UnaryOp is `Op X`.
type UnaryOp struct {
	Op string
	X  Expr
}

// Starred is `*X` or, with Double, `**X`.
type Starred struct {
	X      Expr
	Double bool
}

// ----------------------------------------------------------------------------
// Marker methods

func (*Module) aNode()       {}
func (*ClassDef) aNode()     {}
func (*FuncDef) aNode()      {}
func (*AnnAssign) aNode()    {}
func (*Assign) aNode()       {}
func (*ExprStmt) aNode()     {}
func (*Return) aNode()       {}
func (*Pass) aNode()         {}
func (*Comment) aNode()      {}
func (*Raw) aNode()          {}
func (*Arguments) aNode()    {}
func (*Arg) aNode()          {}
func (*Keyword) aNode()      {}
func (*DefaultValue) aNode() {}
func (*Name) aNode()         {}
func (*Attribute) aNode()    {}
func (*Constant) aNode()     {}
func (*Subscript) aNode()    {}
func (*Call) aNode()         {}
func (*Tuple) aNode()        {}
func (*List) aNode()         {}
func (*Dict) aNode()         {}
func (*BinOp) aNode()        {}
func (*UnaryOp) aNode()      {}
func (*Starred) aNode()      {}

func (*ClassDef) aStmt()  {}
func (*FuncDef) aStmt()   {}
func (*AnnAssign) aStmt() {}
func (*Assign) aStmt()    {}
func (*ExprStmt) aStmt()  {}
func (*Return) aStmt()    {}
func (*Pass) aStmt()      {}
func (*Comment) aStmt()   {}
func (*Raw) aStmt()       {}

func (*Name) aExpr()      {}
func (*Attribute) aExpr() {}
func (*Constant) aExpr()  {}
func (*Subscript) aExpr() {}
func (*Call) aExpr()      {}
func (*Tuple) aExpr()     {}
func (*List) aExpr()      {}
func (*Dict) aExpr()      {}
func (*BinOp) aExpr()     {}
func (*UnaryOp) aExpr()   {}
func (*Starred) aExpr()   {}

// ----------------------------------------------------------------------------
// Constructors

// Str returns a string constant.
func Str(s string) *Constant { return &Constant{Kind: ConstStr, Value: s} }

// None returns the None constant.
func None() *Constant { return &Constant{Kind: ConstNone, Value: "None"} }

// Bool returns True or False.
func Bool(b bool) *Constant {
	if b {
		return &Constant{Kind: ConstBool, Value: "True"}
	}
	return &Constant{Kind: ConstBool, Value: "False"}
}

// Ident returns a Name node.
func Ident(id string) *Name { return &Name{ID: id} }

// IsStr reports whether e is a plain (unprefixed) string constant.
func IsStr(e Expr) bool {
	c, ok := e.(*Constant)
	return ok && c.Kind == ConstStr && c.Prefix == ""
}

// IsNone reports whether e is the None constant.
func IsNone(e Expr) bool {
	c, ok := e.(*Constant)
	return ok && c.Kind == ConstNone
}
