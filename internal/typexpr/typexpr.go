// Package typexpr models the type expressions that appear in annotations
// and documentation: scalars, Optional, Union, Tuple, Literal, generic
// containers and opaque names.
//
// Decisions that depend on a type (whether a default is a quoted string,
// which zero value a field gets, what argparse type to register) are derived
// from the tree here rather than from flags carried alongside it.
package typexpr

import (
	"strings"

	"github.com/roach88/doctrans/internal/syntax"
)

// Expr is a type expression. The set of implementations is closed.
type Expr interface {
	String() string
	aType()
}

// Scalar is one of the built-in scalar tags: int, float, str, bool.
type Scalar struct{ Name string }

// Named is an unresolved nominal type, possibly dotted.
type Named struct{ Name string }

// Optional is Optional[Elem] or Elem | None.
type Optional struct{ Elem Expr }

// Union is Union[Elems...] or a | b.
type Union struct{ Elems []Expr }

// Tuple is Tuple[Elems...] or a bare tuple of types.
type Tuple struct{ Elems []Expr }

// Literal is Literal[Elems...].
type Literal struct{ Elems []Expr }

// Generic is any other subscripted container, e.g. List[int].
type Generic struct {
	Name string
	Args []Expr
}

// Const is a literal leaf; Value is its source form.
type Const struct {
	Value syntax.Expr
}

// Mapping is the catch-all keyword-arguments type.
type Mapping struct{}

func (Scalar) aType()   {}
func (Named) aType()    {}
func (Optional) aType() {}
func (Union) aType()    {}
func (Tuple) aType()    {}
func (Literal) aType()  {}
func (Generic) aType()  {}
func (Const) aType()    {}
func (Mapping) aType()  {}

func (s Scalar) String() string   { return s.Name }
func (n Named) String() string    { return n.Name }
func (o Optional) String() string { return "Optional[" + o.Elem.String() + "]" }
func (u Union) String() string    { return "Union[" + join(u.Elems) + "]" }
func (t Tuple) String() string    { return "Tuple[" + join(t.Elems) + "]" }
func (l Literal) String() string  { return "Literal[" + join(l.Elems) + "]" }
func (g Generic) String() string {
	if len(g.Args) == 0 {
		return g.Name
	}
	return g.Name + "[" + join(g.Args) + "]"
}
func (c Const) String() string { return syntax.FormatExpr(c.Value) }
func (Mapping) String() string { return "dict" }

func join(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

var scalars = map[string]bool{"int": true, "float": true, "str": true, "bool": true}

var mappingNames = map[string]bool{
	"dict": true, "Dict": true, "Mapping": true, "MutableMapping": true,
}

// Parse parses annotation text. A leading `*` or `**` (as documentation
// writes catch-all parameters) yields Mapping. Empty text yields nil.
func Parse(text string) (Expr, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if strings.HasPrefix(text, "*") {
		return Mapping{}, nil
	}
	e, err := syntax.ParseExpr(text)
	if err != nil {
		return nil, err
	}
	return FromSyntax(e), nil
}

// MustParse is Parse for text known to be well formed; unparsable text is
// treated as an opaque name.
func MustParse(text string) Expr {
	e, err := Parse(text)
	if err != nil {
		return Named{Name: strings.TrimSpace(text)}
	}
	return e
}

// FromSyntax converts an annotation tree.
func FromSyntax(e syntax.Expr) Expr {
	switch e := e.(type) {
	case *syntax.Name:
		if scalars[e.ID] {
			return Scalar{Name: e.ID}
		}
		if mappingNames[e.ID] {
			return Generic{Name: e.ID}
		}
		return Named{Name: e.ID}
	case *syntax.Attribute:
		return Named{Name: syntax.FormatExpr(e)}
	case *syntax.Constant:
		return Const{Value: e}
	case *syntax.Tuple:
		return Tuple{Elems: fromList(e.Elts)}
	case *syntax.BinOp:
		if e.Op == "|" {
			return unionOf(append(flattenOr(e.X), flattenOr(e.Y)...))
		}
	case *syntax.Subscript:
		var args []syntax.Expr
		if t, ok := e.Index.(*syntax.Tuple); ok {
			args = t.Elts
		} else {
			args = []syntax.Expr{e.Index}
		}
		name := syntax.FormatExpr(e.X)
		switch strings.TrimPrefix(name, "typing.") {
		case "Optional":
			if len(args) == 1 {
				return Optional{Elem: FromSyntax(args[0])}
			}
		case "Union":
			return unionOf(fromList(args))
		case "Tuple", "tuple":
			return Tuple{Elems: fromList(args)}
		case "Literal":
			return Literal{Elems: fromList(args)}
		}
		return Generic{Name: name, Args: fromList(args)}
	}
	return Named{Name: syntax.FormatExpr(e)}
}

func fromList(es []syntax.Expr) []Expr {
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = FromSyntax(e)
	}
	return out
}

func flattenOr(e syntax.Expr) []Expr {
	if b, ok := e.(*syntax.BinOp); ok && b.Op == "|" {
		return append(flattenOr(b.X), flattenOr(b.Y)...)
	}
	return []Expr{FromSyntax(e)}
}

// unionOf folds a None branch into Optional.
func unionOf(elems []Expr) Expr {
	var rest []Expr
	hasNone := false
	for _, e := range elems {
		if isNoneType(e) {
			hasNone = true
			continue
		}
		rest = append(rest, e)
	}
	var u Expr
	switch len(rest) {
	case 0:
		return Const{Value: syntax.None()}
	case 1:
		u = rest[0]
	default:
		u = Union{Elems: rest}
	}
	if hasNone {
		return Optional{Elem: u}
	}
	return u
}

func isNoneType(e Expr) bool {
	c, ok := e.(Const)
	return ok && syntax.IsNone(c.Value)
}
