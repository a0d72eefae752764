package syntax

import (
	"fmt"
	"strings"
)

// LineWidth is the column limit canonical printing explodes long
// signatures and calls at.
const LineWidth = 88

const indentUnit = "    "

// PrintOptions controls rendering.
//
// Compact drops blank lines and separator spaces; the result parses back to
// the same tree as canonical output. LegacyLiterals renders strings with
// single quotes.
type PrintOptions struct {
	Compact        bool
	LegacyLiterals bool
}

// Print renders a module as source text.
func Print(mod *Module, opts PrintOptions) string {
	if mod == nil || len(mod.Body) == 0 {
		return ""
	}
	p := &printer{opts: opts}
	p.stmts(mod.Body, 0)
	return p.buf.String()
}

// PrintStmt renders a single statement at the given nesting level.
func PrintStmt(s Stmt, level int, opts PrintOptions) string {
	p := &printer{opts: opts}
	p.stmt(s, level)
	return p.buf.String()
}

// FormatExpr renders an expression in canonical form. Type strings held in
// the IR are produced by this function.
func FormatExpr(e Expr) string {
	if e == nil {
		return ""
	}
	p := &printer{}
	return p.exprList(e)
}

// FormatValue renders a value canonically. Unlike FormatExpr it keeps the
// parentheses of a top-level tuple; IR code defaults use this form.
func FormatValue(e Expr) string {
	if e == nil {
		return ""
	}
	p := &printer{}
	return p.expr(e, 0)
}

// FormatExprWith renders an expression with the given options.
func FormatExprWith(e Expr, opts PrintOptions) string {
	if e == nil {
		return ""
	}
	p := &printer{opts: opts}
	return p.exprList(e)
}

type printer struct {
	buf  strings.Builder
	opts PrintOptions
}

func (p *printer) sep() string {
	if p.opts.Compact {
		return ","
	}
	return ", "
}

func (p *printer) assignOp() string {
	if p.opts.Compact {
		return "="
	}
	return " = "
}

func (p *printer) annSep() string {
	if p.opts.Compact {
		return ":"
	}
	return ": "
}

func (p *printer) line(level int, text string) {
	p.buf.WriteString(strings.Repeat(indentUnit, level))
	p.buf.WriteString(text)
	p.buf.WriteByte('\n')
}

// ----------------------------------------------------------------------------
// Statements

func (p *printer) stmts(body []Stmt, level int) {
	if len(body) == 0 {
		p.line(level, "pass")
		return
	}
	for i, s := range body {
		if i > 0 && !p.opts.Compact {
			for n := blankLines(body, i, level); n > 0; n-- {
				p.buf.WriteByte('\n')
			}
		}
		p.stmt(s, level)
	}
}

// blankLines is the canonical number of blank lines before body[i].
// Comments stick to the statement that follows them.
func blankLines(body []Stmt, i, level int) int {
	if _, ok := body[i-1].(*Comment); ok {
		return 0
	}
	cur := body[i]
	for j := i; j < len(body); j++ {
		if _, ok := body[j].(*Comment); !ok {
			cur = body[j]
			break
		}
	}
	if !isDef(body[i-1]) && !isDef(cur) {
		return 0
	}
	if level == 0 {
		return 2
	}
	return 1
}

func isDef(s Stmt) bool {
	switch s.(type) {
	case *ClassDef, *FuncDef:
		return true
	}
	return false
}

func (p *printer) stmt(s Stmt, level int) {
	switch s := s.(type) {
	case *ClassDef:
		for _, d := range s.Decorators {
			p.line(level, "@"+p.expr(d, 0))
		}
		head := "class " + s.Name
		if len(s.Bases) > 0 || len(s.Keywords) > 0 {
			head += "(" + strings.Join(p.callParts(s.Bases, s.Keywords), p.sep()) + ")"
		}
		p.line(level, head+":")
		p.stmts(s.Body, level+1)
	case *FuncDef:
		for _, d := range s.Decorators {
			p.line(level, "@"+p.expr(d, 0))
		}
		params := p.params(s.Args)
		tail := ")"
		if s.Returns != nil {
			if p.opts.Compact {
				tail += "->" + p.expr(s.Returns, 0)
			} else {
				tail += " -> " + p.expr(s.Returns, 0)
			}
		}
		tail += ":"
		head := "def " + s.Name + "(" + strings.Join(params, p.sep()) + tail
		if p.opts.Compact || len(indentUnit)*level+len(head) <= LineWidth || len(params) == 0 {
			p.line(level, head)
		} else {
			p.line(level, "def "+s.Name+"(")
			for _, param := range params {
				p.line(level+1, param+",")
			}
			p.line(level, tail)
		}
		p.stmts(s.Body, level+1)
	case *AnnAssign:
		text := p.expr(s.Target, 0) + p.annSep() + p.expr(s.Annotation, 0)
		if s.Value != nil {
			text += p.assignOp() + p.exprList(s.Value)
		}
		p.line(level, text)
	case *Assign:
		p.line(level, p.exprList(s.Target)+p.assignOp()+p.exprList(s.Value))
	case *ExprStmt:
		if c, ok := s.X.(*Call); ok && !p.opts.Compact {
			p.call(c, level)
			return
		}
		// Bare strings, docstrings included, are always triple-quoted.
		if c, ok := s.X.(*Constant); ok && c.Kind == ConstStr && (c.Prefix == "" || strings.Contains(c.Value, "\n")) {
			p.buf.WriteString(strings.Repeat(indentUnit, level))
			if c.Prefix == "" {
				p.buf.WriteString(tripleQuote(c.Value, p.quoteChar()))
			} else {
				p.buf.WriteString(p.constant(c))
			}
			p.buf.WriteByte('\n')
			return
		}
		p.line(level, p.exprList(s.X))
	case *Return:
		if s.Value == nil {
			p.line(level, "return")
			return
		}
		p.line(level, "return "+p.exprList(s.Value))
	case *Pass:
		p.line(level, "pass")
	case *Comment:
		p.line(level, s.Text)
	case *Raw:
		for _, l := range strings.Split(s.Text, "\n") {
			if l == "" {
				p.buf.WriteByte('\n')
				continue
			}
			p.line(level, l)
		}
	default:
		panic(fmt.Sprintf("syntax: unexpected statement %T", s))
	}
}

// call prints a call statement, one argument per line when it does not fit.
func (p *printer) call(c *Call, level int) {
	parts := p.callParts(c.Args, c.Keywords)
	fn := p.expr(c.Func, precAtom)
	flat := fn + "(" + strings.Join(parts, p.sep()) + ")"
	if len(indentUnit)*level+len(flat) <= LineWidth || len(parts) == 0 {
		p.line(level, flat)
		return
	}
	p.line(level, fn+"(")
	for _, part := range parts {
		p.line(level+1, part+",")
	}
	p.line(level, ")")
}

func (p *printer) params(a *Arguments) []string {
	if a == nil {
		return nil
	}
	var out []string
	offset := len(a.Args) - len(a.Defaults)
	for i, arg := range a.Args {
		var def Expr
		if i >= offset {
			def = a.Defaults[i-offset]
		}
		out = append(out, p.param(arg, def))
	}
	switch {
	case a.Vararg != nil:
		out = append(out, "*"+p.param(a.Vararg, nil))
	case len(a.KwOnly) > 0:
		out = append(out, "*")
	}
	for i, arg := range a.KwOnly {
		var def Expr
		if i < len(a.KwDefaults) {
			def = a.KwDefaults[i]
		}
		out = append(out, p.param(arg, def))
	}
	if a.Kwarg != nil {
		out = append(out, "**"+p.param(a.Kwarg, nil))
	}
	return out
}

func (p *printer) param(a *Arg, def Expr) string {
	text := a.Name
	if a.Annotation != nil {
		text += p.annSep() + p.expr(a.Annotation, 0)
		if def != nil {
			text += p.assignOp() + p.expr(def, 0)
		}
		return text
	}
	if def != nil {
		text += "=" + p.expr(def, 0)
	}
	return text
}

// ----------------------------------------------------------------------------
// Expressions

// exprList prints e, leaving a top-level tuple unparenthesized.
func (p *printer) exprList(e Expr) string {
	if t, ok := e.(*Tuple); ok && len(t.Elts) > 1 {
		parts := make([]string, len(t.Elts))
		for i, x := range t.Elts {
			parts[i] = p.expr(x, 0)
		}
		return strings.Join(parts, p.sep())
	}
	return p.expr(e, 0)
}

func binaryPrec(op string) int {
	if op == "**" {
		return precPower
	}
	for level, ops := range binaryLevels {
		for _, o := range ops {
			if o == op {
				return level
			}
		}
	}
	return precAtom
}

func exprPrec(e Expr) int {
	switch e := e.(type) {
	case *BinOp:
		return binaryPrec(e.Op)
	case *UnaryOp:
		if e.Op == "not" {
			return precNot
		}
		return precUnary
	case *Starred:
		return 0
	}
	return precAtom
}

// expr prints e, parenthesizing it when it binds looser than min.
func (p *printer) expr(e Expr, min int) string {
	s := p.bareExpr(e)
	if exprPrec(e) < min {
		return "(" + s + ")"
	}
	return s
}

func (p *printer) bareExpr(e Expr) string {
	switch e := e.(type) {
	case *Name:
		return e.ID
	case *Attribute:
		return p.expr(e.X, precAtom) + "." + e.Attr
	case *Constant:
		return p.constant(e)
	case *Subscript:
		return p.expr(e.X, precAtom) + "[" + p.exprList(e.Index) + "]"
	case *Call:
		return p.expr(e.Func, precAtom) + "(" + strings.Join(p.callParts(e.Args, e.Keywords), p.sep()) + ")"
	case *Tuple:
		switch len(e.Elts) {
		case 0:
			return "()"
		case 1:
			return "(" + p.expr(e.Elts[0], 0) + ",)"
		}
		return "(" + p.exprList(e) + ")"
	case *List:
		parts := make([]string, len(e.Elts))
		for i, x := range e.Elts {
			parts[i] = p.expr(x, 0)
		}
		return "[" + strings.Join(parts, p.sep()) + "]"
	case *Dict:
		parts := make([]string, len(e.Keys))
		for i := range e.Keys {
			parts[i] = p.expr(e.Keys[i], 0) + p.annSep() + p.expr(e.Values[i], 0)
		}
		return "{" + strings.Join(parts, p.sep()) + "}"
	case *BinOp:
		prec := binaryPrec(e.Op)
		left, right := prec, prec+1
		if e.Op == "**" {
			left, right = prec+1, precUnary
		}
		op := " " + e.Op + " "
		if p.opts.Compact && !isWordOp(e.Op) {
			op = e.Op
		}
		return p.expr(e.X, left) + op + p.expr(e.Y, right)
	case *UnaryOp:
		if e.Op == "not" {
			return "not " + p.expr(e.X, precNot)
		}
		return e.Op + p.expr(e.X, precUnary)
	case *Starred:
		if e.Double {
			return "**" + p.expr(e.X, precAtom)
		}
		return "*" + p.expr(e.X, precAtom)
	case nil:
		return ""
	}
	panic(fmt.Sprintf("syntax: unexpected expression %T", e))
}

func isWordOp(op string) bool {
	switch op {
	case "and", "or", "in", "not in", "is", "is not":
		return true
	}
	return false
}

func (p *printer) callParts(args []Expr, kws []*Keyword) []string {
	var parts []string
	for _, a := range args {
		parts = append(parts, p.expr(a, 0))
	}
	for _, k := range kws {
		if k.Name == "" {
			parts = append(parts, "**"+p.expr(k.Value, precAtom))
			continue
		}
		parts = append(parts, k.Name+"="+p.expr(k.Value, 0))
	}
	return parts
}

func (p *printer) constant(c *Constant) string {
	if c.Kind != ConstStr {
		return c.Value
	}
	q := p.quoteChar()
	switch {
	case strings.Contains(c.Prefix, "f"):
		if strings.Contains(c.Value, "\n") {
			three := strings.Repeat(string(q), 3)
			if strings.Contains(c.Value, three) || strings.HasSuffix(c.Value, string(q)) {
				three = strings.Repeat(string('"'+'\''-q), 3)
			}
			return c.Prefix + three + c.Value + three
		}
		if strings.IndexByte(c.Value, q) >= 0 {
			q = '"' + '\'' - q
		}
		return c.Prefix + string(q) + c.Value + string(q)
	case c.Prefix == "b":
		return "b" + quote(c.Value, q, true)
	case strings.Contains(c.Value, "\n"):
		return c.Prefix + tripleQuote(c.Value, q)
	}
	return c.Prefix + quote(c.Value, q, false)
}

func (p *printer) quoteChar() byte {
	if p.opts.LegacyLiterals {
		return '\''
	}
	return '"'
}

// quote renders s as a one-line literal delimited by q. With ascii set, as for
// bytes, every byte outside printable ASCII is written as \xhh.
func quote(s string, q byte, ascii bool) string {
	var b strings.Builder
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == q:
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\r':
			b.WriteString(`\r`)
		case c < 0x20 || c == 0x7f || (ascii && c > 0x7f):
			fmt.Fprintf(&b, `\x%02x`, c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}

func tripleQuote(s string, q byte) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\n' || c == '\t':
			sb.WriteByte(c)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteByte(c)
		}
	}
	body := sb.String()
	three := strings.Repeat(string(q), 3)
	escaped := string(q) + string(q) + `\` + string(q)
	for strings.Contains(body, three) {
		body = strings.Replace(body, three, escaped, 1)
	}
	if strings.HasSuffix(body, string(q)) {
		body = body[:len(body)-1] + `\` + string(q)
	}
	return three + body + three
}
