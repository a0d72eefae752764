package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/emit"
	"github.com/roach88/doctrans/internal/ir"
	"github.com/roach88/doctrans/internal/syntax"
	"github.com/roach88/doctrans/internal/typexpr"
)

// FromArgparse reads a function that registers options on an argument
// parser. Each add_argument call is one param:
//
//   - type=loads reads as dict;
//   - action="store_true" reads as bool;
//   - choices=(...) reads as a Literal of the choices;
//   - without required=True the type is wrapped in Optional.
//
// type=globals().__getitem__ names no type and reads as untyped. The
// description assignment supplies the descriptions, and a returned tuple
// supplies the return default.
func FromArgparse(fn *syntax.FuncDef, opts docstring.ParseOptions) (*ir.IR, error) {
	doc, err := docIR(fn.Body, fn.Name, opts)
	if err != nil {
		return nil, err
	}
	out := &ir.IR{Name: fn.Name, Kind: ir.KindFunction, Params: ir.Params{}}
	if doc.Returns != nil {
		out.Returns = parserReturn(*doc.Returns)
	}

	parser := emit.ParserParam
	if fn.Args != nil && len(fn.Args.Args) > 0 {
		parser = fn.Args.Args[0].Name
	}
	for i, s := range syntax.WithoutDocstring(fn.Body) {
		switch s := s.(type) {
		case *syntax.Assign:
			if isParserAttr(s.Target, parser, "description") && syntax.IsStr(s.Value) {
				short, long, _ := strings.Cut(s.Value.(*syntax.Constant).Value, "\n\n")
				out.ShortDescription, out.LongDescription = strings.TrimSpace(short), strings.TrimSpace(long)
			}
		case *syntax.ExprStmt:
			call, ok := s.X.(*syntax.Call)
			if !ok || !isParserAttr(call.Func, parser, "add_argument") {
				continue
			}
			p, err := fromAddArgument(call, opts)
			if err != nil {
				return nil, &CompileError{Field: fmt.Sprintf("%s.body[%d]", fn.Name, i), Message: "unreadable add_argument", Err: err}
			}
			out.Params = out.Params.Set(p)
		case *syntax.Return:
			t, ok := s.Value.(*syntax.Tuple)
			if !ok || len(t.Elts) != 2 {
				continue
			}
			if out.Returns == nil {
				out.Returns = &ir.Param{Name: ir.ReturnName}
			}
			out.Returns.Default = DefaultText(t.Elts[1])
			ret := out.Returns.Normalize()
			out.Returns = &ret
		}
	}
	return out, nil
}

// parserReturn strips the parser from the documented return: the doc loses
// its "argument_parser, " prefix and Tuple[ArgumentParser, T] becomes T.
func parserReturn(documented ir.Param) *ir.Param {
	doc := strings.TrimPrefix(documented.Doc, emit.ParserParam)
	doc = strings.TrimSpace(strings.TrimPrefix(doc, ","))

	typ := ""
	if t, ok := typexpr.MustParse(documented.Typ).(typexpr.Tuple); ok && len(t.Elems) == 2 {
		typ = t.Elems[1].String()
	}
	if typ == "" && doc == "" && documented.Default == nil {
		return nil
	}
	p := ir.NewParam(ir.ReturnName, typ, doc, documented.Default)
	return &p
}

func isParserAttr(e syntax.Expr, parser, attr string) bool {
	a, ok := e.(*syntax.Attribute)
	if !ok || a.Attr != attr {
		return false
	}
	n, ok := a.X.(*syntax.Name)
	return ok && n.ID == parser
}

// fromAddArgument reads one add_argument call.
func fromAddArgument(call *syntax.Call, opts docstring.ParseOptions) (ir.Param, error) {
	if len(call.Args) == 0 || !syntax.IsStr(call.Args[0]) {
		return ir.Param{}, fmt.Errorf("first argument must be the option string")
	}
	name := strings.ReplaceAll(strings.TrimLeft(call.Args[0].(*syntax.Constant).Value, "-"), "-", "_")
	if name == "" {
		return ir.Param{}, fmt.Errorf("empty option name")
	}

	var (
		typ, help, choices string
		required           bool
		def                *string
		hasDef             bool
	)
	for _, kw := range call.Keywords {
		switch kw.Name {
		case "type":
			typ = argType(kw.Value)
		case "action":
			if c, ok := kw.Value.(*syntax.Constant); ok && c.Value == "store_true" {
				typ = "bool"
			}
		case "choices":
			choices = literalOf(kw.Value)
		case "help":
			if c, ok := kw.Value.(*syntax.Constant); ok {
				help = c.Value
			}
		case "required":
			required = syntax.FormatValue(kw.Value) == "True"
		case "default":
			def, hasDef = DefaultText(kw.Value), true
		}
	}

	if choices != "" {
		typ = choices
	}
	help, phraseDef := docstring.ExtractDefault(help, opts.DefaultSearchAnnounce, opts.EmitDefaultDoc)
	if !hasDef {
		def = phraseDef
	}
	if typ == "" && def != nil && opts.InferType {
		typ = docstring.InferType(*def)
	}
	if !required && typ != "" && !ir.IsCatchAll(name, typ) {
		typ = "Optional[" + typ + "]"
	}
	return ir.NewParam(name, typ, help, def), nil
}

// argType maps a type= value back to a type. The runtime lookup names no
// type.
func argType(e syntax.Expr) string {
	text := syntax.FormatExpr(e)
	switch text {
	case typexpr.ArgTypeJSON:
		return "dict"
	case typexpr.ArgTypeResolved:
		return ""
	}
	return text
}

func literalOf(e syntax.Expr) string {
	var elts []syntax.Expr
	switch e := e.(type) {
	case *syntax.Tuple:
		elts = e.Elts
	case *syntax.List:
		elts = e.Elts
	}
	if len(elts) == 0 {
		return ""
	}
	parts := make([]string, len(elts))
	for i, el := range elts {
		parts[i] = syntax.FormatValue(el)
	}
	return "Literal[" + strings.Join(parts, ", ") + "]"
}
