package syntax

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parse parses an artifact file. Statements outside the supported grammar
// are kept as *Raw nodes; only scanner-level errors (bad indentation,
// unterminated strings, unbalanced brackets) fail the parse.
func Parse(src string) (*Module, error) {
	items, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, items: items}
	body := p.stmts()
	if p.cur().tok != EOF {
		return nil, &Error{Pos: p.cur().pos, Msg: fmt.Sprintf("unexpected %s", p.cur().tok)}
	}
	return &Module{Body: body}, nil
}

// ParseExpr parses a single expression, such as a type annotation or a
// default value.
func ParseExpr(src string) (expr Expr, err error) {
	src = strings.TrimSpace(src)
	items, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, items: items}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			expr, err = nil, b.err
		}
	}()
	if p.cur().tok == EOF {
		p.fail("empty expression")
	}
	expr = p.exprList()
	p.expect(NEWLINE, "")
	if p.cur().tok != EOF {
		p.fail("unexpected trailing input")
	}
	return expr, nil
}

// bailout unwinds a statement that cannot be parsed so the caller can keep
// it verbatim instead.
type bailout struct {
	err error
}

type parser struct {
	src   string
	items []item
	i     int
}

func (p *parser) cur() item { return p.items[p.i] }

func (p *parser) peekItem(n int) item {
	if p.i+n < len(p.items) {
		return p.items[p.i+n]
	}
	return p.items[len(p.items)-1]
}

func (p *parser) next() item {
	it := p.items[p.i]
	if p.i < len(p.items)-1 {
		p.i++
	}
	return it
}

func (p *parser) fail(msg string) {
	panic(bailout{err: &Error{Pos: p.cur().pos, Msg: msg}})
}

func (p *parser) at(tok Token, text string) bool {
	it := p.cur()
	return it.tok == tok && (text == "" || it.text == text)
}

func (p *parser) atOp(text string) bool { return p.at(OP, text) }

func (p *parser) atKeyword(text string) bool { return p.at(NAME, text) }

func (p *parser) expect(tok Token, text string) item {
	if !p.at(tok, text) {
		want := tok.String()
		if text != "" {
			want = strconv.Quote(text)
		}
		p.fail(fmt.Sprintf("expected %s, found %s %q", want, p.cur().tok, p.cur().text))
	}
	return p.next()
}

func (p *parser) expectName() string {
	return p.expect(NAME, "").text
}

// ----------------------------------------------------------------------------
// Statements

func (p *parser) stmts() []Stmt {
	var out []Stmt
	for !p.at(EOF, "") && !p.at(DEDENT, "") {
		out = append(out, p.stmt())
	}
	return out
}

func (p *parser) stmt() (s Stmt) {
	start := p.i
	it := p.cur()
	if it.tok == COMMENT {
		p.next()
		p.expect(NEWLINE, "")
		return &Comment{Text: it.text}
	}
	if it.tok == NAME && (compoundKeywords[it.text] || rawKeywords[it.text]) {
		return p.raw(start)
	}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			p.i = start
			s = p.raw(start)
		}
	}()
	switch {
	case p.atOp("@"):
		var decorators []Expr
		for p.atOp("@") {
			p.next()
			decorators = append(decorators, p.expr())
			p.expect(NEWLINE, "")
		}
		switch {
		case p.atKeyword("def"):
			fn := p.funcDef()
			fn.Decorators = decorators
			return fn
		case p.atKeyword("class"):
			c := p.classDef()
			c.Decorators = decorators
			return c
		}
		p.fail("decorator must precede def or class")
	case p.atKeyword("class"):
		return p.classDef()
	case p.atKeyword("def"):
		return p.funcDef()
	}
	return p.simpleStmt()
}

func (p *parser) simpleStmt() Stmt {
	var s Stmt
	switch {
	case p.atKeyword("pass"):
		p.next()
		s = &Pass{}
	case p.atKeyword("return"):
		p.next()
		r := &Return{}
		if !p.at(NEWLINE, "") {
			r.Value = p.exprList()
		}
		s = r
	default:
		target := p.exprList()
		switch {
		case p.atOp(":"):
			p.next()
			a := &AnnAssign{Target: target, Annotation: p.expr()}
			if p.atOp("=") {
				p.next()
				a.Value = p.exprList()
			}
			s = a
		case p.atOp("="):
			p.next()
			s = &Assign{Target: target, Value: p.exprList()}
			if p.atOp("=") {
				p.fail("chained assignment")
			}
		default:
			s = &ExprStmt{X: target}
		}
	}
	p.expect(NEWLINE, "")
	return s
}

func (p *parser) classDef() *ClassDef {
	p.expect(NAME, "class")
	c := &ClassDef{Name: p.expectName()}
	if p.atOp("(") {
		p.next()
		c.Bases, c.Keywords = p.callArgs()
	}
	p.expect(OP, ":")
	c.Body = p.suite()
	return c
}

func (p *parser) funcDef() *FuncDef {
	p.expect(NAME, "def")
	fn := &FuncDef{Name: p.expectName()}
	p.expect(OP, "(")
	fn.Args = p.params()
	if p.atOp("->") {
		p.next()
		fn.Returns = p.expr()
	}
	p.expect(OP, ":")
	fn.Body = p.suite()
	return fn
}

func (p *parser) suite() []Stmt {
	if !p.at(NEWLINE, "") {
		return []Stmt{p.simpleStmt()}
	}
	p.next()
	p.expect(INDENT, "")
	body := p.stmts()
	p.expect(DEDENT, "")
	return body
}

func (p *parser) params() *Arguments {
	args := &Arguments{}
	kwOnly := false
	for !p.atOp(")") {
		switch {
		case p.atOp("**"):
			p.next()
			args.Kwarg = p.param()
		case p.atOp("*"):
			p.next()
			kwOnly = true
			if p.at(NAME, "") {
				args.Vararg = p.param()
			}
		default:
			if args.Kwarg != nil {
				p.fail("parameter after **kwargs")
			}
			a := p.param()
			var def Expr
			if p.atOp("=") {
				p.next()
				def = p.expr()
			}
			if kwOnly {
				args.KwOnly = append(args.KwOnly, a)
				args.KwDefaults = append(args.KwDefaults, def)
			} else {
				if def == nil && len(args.Defaults) > 0 {
					p.fail("non-default parameter follows default parameter")
				}
				args.Args = append(args.Args, a)
				if def != nil {
					args.Defaults = append(args.Defaults, def)
				}
			}
		}
		if !p.atOp(",") {
			break
		}
		p.next()
	}
	p.expect(OP, ")")
	if allNil(args.KwDefaults) {
		args.KwDefaults = nil
	}
	return args
}

func (p *parser) param() *Arg {
	a := &Arg{Name: p.expectName()}
	if p.atOp(":") {
		p.next()
		a.Annotation = p.expr()
	}
	return a
}

func allNil(es []Expr) bool {
	for _, e := range es {
		if e != nil {
			return false
		}
	}
	return true
}

// raw consumes the statement starting at item start (decorators, header
// line and any indented block) and returns it verbatim.
func (p *parser) raw(start int) *Raw {
	p.i = start
	first := p.cur()
	for p.atOp("@") {
		p.skipLine()
	}
	end := p.skipLine()
	if p.at(INDENT, "") {
		depth := 0
		for {
			it := p.next()
			switch it.tok {
			case INDENT:
				depth++
			case DEDENT:
				depth--
			case NEWLINE:
				end = it.pos.Offset
			}
			if depth == 0 || it.tok == EOF {
				break
			}
		}
	}
	return &Raw{Text: dedent(p.src[first.pos.Offset:end], first.pos.Col-1)}
}

// skipLine consumes through the next NEWLINE and returns its offset.
func (p *parser) skipLine() int {
	for !p.at(NEWLINE, "") && !p.at(EOF, "") {
		p.next()
	}
	end := p.cur().pos.Offset
	if p.at(NEWLINE, "") {
		p.next()
	}
	return end
}

func dedent(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, " \t\r\n"), "\n")
	for i := 1; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		k := 0
		for k < n && k < len(line) && line[k] == ' ' {
			k++
		}
		lines[i] = line[k:]
	}
	return strings.Join(lines, "\n")
}

// ----------------------------------------------------------------------------
// Expressions

func (p *parser) canStartExpr() bool {
	it := p.cur()
	switch it.tok {
	case NAME, NUMBER, STRING:
		return true
	case OP:
		switch it.text {
		case "(", "[", "{", "-", "+", "~", "...", "*":
			return true
		}
	}
	return false
}

// exprList parses `a` or `a, b, ...` (an unparenthesized tuple).
func (p *parser) exprList() Expr {
	first := p.starExpr()
	if !p.atOp(",") {
		return first
	}
	elts := []Expr{first}
	for p.atOp(",") {
		p.next()
		if !p.canStartExpr() {
			break
		}
		elts = append(elts, p.starExpr())
	}
	return &Tuple{Elts: elts}
}

func (p *parser) starExpr() Expr {
	if p.atOp("*") {
		p.next()
		return &Starred{X: p.expr()}
	}
	return p.expr()
}

func (p *parser) expr() Expr {
	if p.atKeyword("lambda") || p.atKeyword("yield") || p.atKeyword("await") {
		p.fail("unsupported expression")
	}
	e := p.binary(1)
	if p.atKeyword("if") || p.atKeyword("for") {
		p.fail("unsupported expression")
	}
	return e
}

// binary precedence levels, lowest first.
var binaryLevels = [][]string{
	1:  {"or"},
	2:  {"and"},
	4:  {"==", "!=", "<", ">", "<=", ">=", "in", "not in", "is", "is not"},
	5:  {"|"},
	6:  {"^"},
	7:  {"&"},
	8:  {"<<", ">>"},
	9:  {"+", "-"},
	10: {"*", "/", "//", "%", "@"},
}

const (
	precNot   = 3
	precUnary = 11
	precPower = 12
	precAtom  = 13
)

func (p *parser) binary(level int) Expr {
	if level == precNot {
		if p.atKeyword("not") {
			p.next()
			return &UnaryOp{Op: "not", X: p.binary(precNot)}
		}
		return p.binary(level + 1)
	}
	if level >= len(binaryLevels) {
		return p.unary()
	}
	x := p.binary(level + 1)
	for {
		op, n := p.binaryOp(binaryLevels[level])
		if op == "" {
			return x
		}
		for i := 0; i < n; i++ {
			p.next()
		}
		x = &BinOp{X: x, Op: op, Y: p.binary(level + 1)}
	}
}

// binaryOp reports which of ops is at the cursor and how many tokens it
// spans ("not in" and "is not" span two).
func (p *parser) binaryOp(ops []string) (string, int) {
	it := p.cur()
	if it.tok != OP && it.tok != NAME {
		return "", 0
	}
	for _, op := range ops {
		switch op {
		case "not in":
			if it.text == "not" && p.peekItem(1).tok == NAME && p.peekItem(1).text == "in" {
				return op, 2
			}
		case "is not":
			if it.text == "is" && p.peekItem(1).tok == NAME && p.peekItem(1).text == "not" {
				return op, 2
			}
		case "is", "in", "or", "and":
			if it.tok == NAME && it.text == op {
				return op, 1
			}
		default:
			if it.tok == OP && it.text == op {
				return op, 1
			}
		}
	}
	return "", 0
}

func (p *parser) unary() Expr {
	if p.atOp("-") || p.atOp("+") || p.atOp("~") {
		op := p.next().text
		return &UnaryOp{Op: op, X: p.unary()}
	}
	x := p.primary()
	if p.atOp("**") {
		p.next()
		return &BinOp{X: x, Op: "**", Y: p.unary()}
	}
	return x
}

func (p *parser) primary() Expr {
	x := p.atom()
	for {
		switch {
		case p.atOp("."):
			p.next()
			x = &Attribute{X: x, Attr: p.expectName()}
		case p.atOp("("):
			p.next()
			args, kws := p.callArgs()
			x = &Call{Func: x, Args: args, Keywords: kws}
		case p.atOp("["):
			p.next()
			idx := p.exprList()
			if p.atOp(":") {
				p.fail("slices are not supported")
			}
			p.expect(OP, "]")
			x = &Subscript{X: x, Index: idx}
		default:
			return x
		}
	}
}

// callArgs parses call arguments after the opening parenthesis.
func (p *parser) callArgs() ([]Expr, []*Keyword) {
	var args []Expr
	var kws []*Keyword
	for !p.atOp(")") {
		switch {
		case p.atOp("**"):
			p.next()
			kws = append(kws, &Keyword{Value: p.expr()})
		case p.atOp("*"):
			p.next()
			args = append(args, &Starred{X: p.expr()})
		case p.at(NAME, "") && p.peekItem(1).tok == OP && p.peekItem(1).text == "=":
			name := p.next().text
			p.next()
			kws = append(kws, &Keyword{Name: name, Value: p.expr()})
		default:
			if len(kws) > 0 {
				p.fail("positional argument follows keyword argument")
			}
			args = append(args, p.expr())
		}
		if !p.atOp(",") {
			break
		}
		p.next()
	}
	p.expect(OP, ")")
	return args, kws
}

func (p *parser) atom() Expr {
	it := p.cur()
	switch it.tok {
	case NAME:
		p.next()
		switch it.text {
		case "True", "False":
			return &Constant{Kind: ConstBool, Value: it.text}
		case "None":
			return None()
		case "if", "else", "for", "while", "def", "class", "return", "pass",
			"lambda", "yield", "await", "not", "and", "or", "in", "is":
			p.i--
			p.fail(fmt.Sprintf("unexpected keyword %q", it.text))
		}
		return &Name{ID: it.text}
	case NUMBER:
		p.next()
		kind := ConstInt
		lower := strings.ToLower(it.text)
		if !strings.HasPrefix(lower, "0x") && strings.ContainsAny(lower, ".ej") {
			kind = ConstFloat
		}
		return &Constant{Kind: kind, Value: it.text}
	case STRING:
		return p.strings()
	case OP:
		switch it.text {
		case "...":
			p.next()
			return &Constant{Kind: ConstEllipsis, Value: "..."}
		case "(":
			p.next()
			if p.atOp(")") {
				p.next()
				return &Tuple{}
			}
			first := p.starExpr()
			if p.atOp(")") {
				p.next()
				return first
			}
			elts := []Expr{first}
			for p.atOp(",") {
				p.next()
				if p.atOp(")") {
					break
				}
				elts = append(elts, p.starExpr())
			}
			p.expect(OP, ")")
			return &Tuple{Elts: elts}
		case "[":
			p.next()
			l := &List{}
			for !p.atOp("]") {
				l.Elts = append(l.Elts, p.starExpr())
				if !p.atOp(",") {
					break
				}
				p.next()
			}
			p.expect(OP, "]")
			return l
		case "{":
			p.next()
			d := &Dict{}
			for !p.atOp("}") {
				if p.atOp("**") {
					p.fail("dict unpacking is not supported")
				}
				k := p.expr()
				p.expect(OP, ":")
				d.Keys = append(d.Keys, k)
				d.Values = append(d.Values, p.expr())
				if !p.atOp(",") {
					break
				}
				p.next()
			}
			p.expect(OP, "}")
			return d
		}
	}
	p.fail(fmt.Sprintf("unexpected %s %q", it.tok, it.text))
	return nil
}

// strings parses one or more adjacent string literals.
func (p *parser) strings() Expr {
	var c *Constant
	for p.at(STRING, "") {
		it := p.next()
		prefix, value, err := decodeString(it.text)
		if err != nil {
			p.i--
			p.fail(err.Error())
		}
		if c == nil {
			c = &Constant{Kind: ConstStr, Value: value, Prefix: prefix}
			continue
		}
		if c.Prefix != prefix {
			p.i--
			p.fail("cannot concatenate strings with different prefixes")
		}
		c.Value += value
	}
	return c
}

// decodeString splits a string literal into its kept prefix and its value.
// Escapes are decoded unless the literal is raw or an f-string. The r and u
// prefixes are dropped except on f-strings, whose body stays as written.
func decodeString(lit string) (string, string, error) {
	i := 0
	for i < len(lit) && lit[i] != '"' && lit[i] != '\'' {
		i++
	}
	prefix := strings.ToLower(lit[:i])
	body := lit[i:]
	q := 1
	if len(body) >= 6 && body[1] == body[0] && body[2] == body[0] {
		q = 3
	}
	if len(body) < 2*q {
		return "", "", fmt.Errorf("malformed string literal %s", lit)
	}
	body = body[q : len(body)-q]
	raw := strings.Contains(prefix, "r")
	prefix = strings.ReplaceAll(prefix, "u", "")
	if strings.Contains(prefix, "f") {
		if raw {
			return "rf", body, nil
		}
		return "f", body, nil
	}
	kept := strings.ReplaceAll(prefix, "r", "")
	if raw {
		return kept, body, nil
	}
	value, err := unescape(body, kept == "b")
	if err != nil {
		return "", "", fmt.Errorf("%s in %s", err, lit)
	}
	return kept, value, nil
}

// unescape decodes backslash escapes. In bytes literals \x and octal escapes
// yield a single byte and \u, \U and \N are not escapes.
func unescape(s string, bytes bool) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case '\n':
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 32)
			writeCode(&b, rune(v), bytes)
			i = j - 1
		case 'x':
			if i+3 > len(s) {
				return "", fmt.Errorf("truncated \\x escape")
			}
			v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("invalid \\x escape")
			}
			writeCode(&b, rune(v), bytes)
			i += 2
		case 'u', 'U':
			n := 4
			if e == 'U' {
				n = 8
			}
			if bytes {
				b.WriteByte('\\')
				b.WriteByte(e)
				continue
			}
			if i+1+n > len(s) {
				return "", fmt.Errorf("truncated \\%c escape", e)
			}
			v, err := strconv.ParseUint(s[i+1:i+1+n], 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				return "", fmt.Errorf("invalid \\%c escape", e)
			}
			b.WriteRune(rune(v))
			i += n
		case 'N':
			if bytes {
				b.WriteByte('\\')
				b.WriteByte(e)
				continue
			}
			end := strings.IndexByte(s[i:], '}')
			if i+1 >= len(s) || s[i+1] != '{' || end < 0 {
				return "", fmt.Errorf("malformed \\N escape")
			}
			name := s[i+2 : i+end]
			r, ok := lookupRune(name)
			if !ok {
				return "", fmt.Errorf("unknown character name %q", name)
			}
			b.WriteRune(r)
			i += end
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String(), nil
}

// writeCode writes a numeric escape as a raw byte for bytes literals and as a
// code point otherwise.
func writeCode(b *strings.Builder, v rune, bytes bool) {
	if bytes {
		b.WriteByte(byte(v))
		return
	}
	b.WriteRune(v)
}
