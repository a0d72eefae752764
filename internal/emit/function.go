package emit

import (
	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/ir"
	"github.com/roach88/doctrans/internal/syntax"
)

// DefaultFunctionName names functions emitted from an unnamed IR.
const DefaultFunctionName = "function_name"

// FunctionOptions control signature emission.
type FunctionOptions struct {
	Name              string // defaults to the IR name, then DefaultFunctionName
	InlineTypes       bool   // annotate the signature instead of the docstring
	EmitDefaultDoc    bool
	EmitSeparatingTab bool
	WordWrap          bool
	Width             int
	IndentLevel       int // nesting level of the def itself
	// Body is kept verbatim after the docstring; any docstring it starts
	// with is replaced.
	Body []syntax.Stmt
}

// Function emits r as a def. Kind self or cls adds the receiver and static
// adds @staticmethod. Params keep their order; once a param has a default,
// a later param without one becomes keyword-only. The catch-all param
// becomes **name.
func Function(r *ir.IR, opts FunctionOptions) *syntax.FuncDef {
	fn := &syntax.FuncDef{Name: firstNonEmpty(opts.Name, r.Name, DefaultFunctionName)}
	args := &syntax.Arguments{}
	switch r.Kind {
	case ir.KindSelf:
		args.Args = append(args.Args, &syntax.Arg{Name: "self"})
	case ir.KindCls:
		fn.Decorators = append(fn.Decorators, syntax.Ident("classmethod"))
		args.Args = append(args.Args, &syntax.Arg{Name: "cls"})
	case ir.KindStatic:
		fn.Decorators = append(fn.Decorators, syntax.Ident("staticmethod"))
	}

	sawDefault := false
	for _, p := range r.Params {
		if ir.IsCatchAll(p.Name, p.Typ) && args.Kwarg == nil {
			args.Kwarg = &syntax.Arg{Name: p.Name}
			continue
		}
		arg := &syntax.Arg{Name: p.Name}
		if opts.InlineTypes {
			arg.Annotation = Annotation(p.Typ)
		}
		def := paramDefault(p)
		switch {
		case len(args.KwOnly) > 0 || (def == nil && sawDefault):
			args.KwOnly = append(args.KwOnly, arg)
			args.KwDefaults = append(args.KwDefaults, def)
		default:
			args.Args = append(args.Args, arg)
			if def != nil {
				args.Defaults = append(args.Defaults, def)
				sawDefault = true
			}
		}
	}
	if allNil(args.KwDefaults) {
		args.KwDefaults = nil
	}
	fn.Args = args

	if opts.InlineTypes && r.Returns != nil {
		fn.Returns = Annotation(r.Returns.Typ)
	}

	doc, _ := docstring.Emit(r, docstring.EmitOptions{
		Dialect:           docstring.DialectFieldTag,
		EmitDefaultDoc:    opts.EmitDefaultDoc,
		EmitTypes:         !opts.InlineTypes,
		WordWrap:          opts.WordWrap,
		Width:             opts.Width,
		IndentLevel:       opts.IndentLevel + 1,
		EmitSeparatingTab: opts.EmitSeparatingTab,
		ParamTag:          ":param",
	})

	body := opts.Body
	if len(syntax.WithoutDocstring(body)) == 0 {
		body = defaultBody(r, doc == "")
	}
	fn.Body = syntax.WithDocstring(body, doc)
	return fn
}

// defaultBody returns the return default when there is one. Otherwise the
// body is empty, or pass when there will be no docstring either.
func defaultBody(r *ir.IR, needPass bool) []syntax.Stmt {
	if r.Returns != nil && r.Returns.Default != nil {
		return []syntax.Stmt{&syntax.Return{Value: Value(*r.Returns.Default, r.Returns.Type())}}
	}
	if needPass {
		return []syntax.Stmt{&syntax.Pass{}}
	}
	return nil
}

func allNil(es []syntax.Expr) bool {
	for _, e := range es {
		if e != nil {
			return false
		}
	}
	return true
}
