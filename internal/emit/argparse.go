package emit

import (
	"strings"

	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/ir"
	"github.com/roach88/doctrans/internal/syntax"
	"github.com/roach88/doctrans/internal/typexpr"
)

const (
	// DefaultArgparseName names emitted argparse functions.
	DefaultArgparseName = "set_cli_args"
	// ParserParam is the parameter every argparse function takes.
	ParserParam = "argument_parser"
	// ParserType documents ParserParam.
	ParserType = "ArgumentParser"
	// ArgparseSummary is the docstring summary of argparse functions.
	ArgparseSummary = "Set CLI arguments"
)

// ArgparseOptions control argument-parser emission.
type ArgparseOptions struct {
	FunctionName string // defaults to DefaultArgparseName
	// CarryDefaults emits default= for params with a default.
	CarryDefaults bool
	// DefaultHelp appends "Defaults to" phrases to help texts. It is off
	// unless asked for, so a default that is not carried is dropped.
	DefaultHelp bool
	WordWrap    bool
	Width       int
}

// Argparse emits r as a function that registers one option per param on
// argument_parser and returns it. The description is set from the IR
// descriptions. A return default is returned alongside the parser.
func Argparse(r *ir.IR, opts ArgparseOptions) *syntax.FuncDef {
	retDoc, retTyp := ParserParam, ParserType
	if r.Returns != nil {
		if r.Returns.Doc != "" {
			retDoc += ", " + r.Returns.Doc
		}
		if r.Returns.Typ != "" {
			retTyp = "Tuple[" + ParserType + ", " + r.Returns.Typ + "]"
		}
	}
	doc, _ := docstring.Emit(&ir.IR{
		ShortDescription: ArgparseSummary,
		Params:           ir.Params{ir.NewParam(ParserParam, ParserType, "argument parser", nil)},
		Returns:          &ir.Param{Name: ir.ReturnName, Typ: retTyp, Doc: retDoc},
	}, docstring.EmitOptions{
		Dialect:           docstring.DialectFieldTag,
		EmitTypes:         true,
		WordWrap:          opts.WordWrap,
		Width:             opts.Width,
		IndentLevel:       1,
		EmitSeparatingTab: true,
	})

	parser := syntax.Ident(ParserParam)
	body := syntax.WithDocstring(nil, doc)
	if desc := description(r); desc != "" {
		body = append(body, &syntax.Assign{
			Target: &syntax.Attribute{X: parser, Attr: "description"},
			Value:  syntax.Str(desc),
		})
	}
	for _, p := range r.Params {
		body = append(body, &syntax.ExprStmt{X: addArgument(p, opts)})
	}

	var ret syntax.Expr = parser
	if r.Returns != nil && r.Returns.Default != nil {
		ret = &syntax.Tuple{Elts: []syntax.Expr{parser, Value(*r.Returns.Default, r.Returns.Type())}}
	}
	body = append(body, &syntax.Return{Value: ret})

	return &syntax.FuncDef{
		Name: firstNonEmpty(opts.FunctionName, DefaultArgparseName),
		Args: &syntax.Arguments{Args: []*syntax.Arg{{Name: ParserParam}}},
		Body: body,
	}
}

func description(r *ir.IR) string {
	if r.LongDescription == "" {
		return r.ShortDescription
	}
	return r.ShortDescription + "\n\n" + r.LongDescription
}

// OptionName is the command-line spelling of a param name.
func OptionName(name string) string {
	return "--" + strings.ReplaceAll(name, "_", "-")
}

// addArgument builds argument_parser.add_argument(...) for p. The type=
// keyword resolves through ResolveArgType, so bool stays type=bool.
func addArgument(p ir.Param, opts ArgparseOptions) *syntax.Call {
	typ := p.Type()
	call := &syntax.Call{
		Func: &syntax.Attribute{X: syntax.Ident(ParserParam), Attr: "add_argument"},
		Args: []syntax.Expr{syntax.Str(OptionName(p.Name))},
	}
	kw := func(name string, v syntax.Expr) {
		call.Keywords = append(call.Keywords, &syntax.Keyword{Name: name, Value: v})
	}

	if t := typexpr.ResolveArgType(typ); t != "" {
		kw("type", Annotation(t))
	}
	if choices, ok := typexpr.Choices(typ); ok {
		kw("choices", &syntax.Tuple{Elts: choices})
	}

	help := p.Doc
	if opts.DefaultHelp {
		help = docstring.AppendDefault(help, p.Default, nil)
	}
	kw("help", syntax.Str(help))

	if p.Required {
		kw("required", syntax.Bool(true))
	}
	if opts.CarryDefaults && p.Default != nil {
		kw("default", Value(*p.Default, typ))
	}
	return call
}
