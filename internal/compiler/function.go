package compiler

import (
	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/ir"
	"github.com/roach88/doctrans/internal/syntax"
)

// FromFunction reads a function or method. The receiver is dropped and
// recorded in Kind. Params keep signature order; *args is not part of the
// IR. A body that is nothing but `return <value>` supplies the return
// default.
func FromFunction(fn *syntax.FuncDef, opts docstring.ParseOptions) (*ir.IR, error) {
	doc, err := docIR(fn.Body, fn.Name, opts)
	if err != nil {
		return nil, err
	}
	out := &ir.IR{
		Name:             fn.Name,
		Kind:             KindOf(fn),
		ShortDescription: doc.ShortDescription,
		LongDescription:  doc.LongDescription,
		Params:           ir.Params{},
	}

	args := fn.Args
	if args == nil {
		args = &syntax.Arguments{}
	}
	positional := args.Args
	offset := len(positional) - len(args.Defaults)
	skip := 0
	if syntax.Receiver(fn) != "" {
		skip = 1
	}
	for i, a := range positional {
		if i < skip {
			continue
		}
		var def syntax.Expr
		if i >= offset {
			def = args.Defaults[i-offset]
		}
		out.Params = append(out.Params, fromArg(doc.Params, a, def, opts))
	}
	for i, a := range args.KwOnly {
		var def syntax.Expr
		if i < len(args.KwDefaults) {
			def = args.KwDefaults[i]
		}
		out.Params = append(out.Params, fromArg(doc.Params, a, def, opts))
	}
	if args.Kwarg != nil {
		d, found := doc.Params.Get(args.Kwarg.Name)
		out.Params = append(out.Params, merge(d, found, args.Kwarg.Name, "**", nil, opts))
	}

	out.Returns = doc.Returns
	if fn.Returns != nil || returnDefault(fn.Body) != nil {
		var documented ir.Param
		if doc.Returns != nil {
			documented = *doc.Returns
		}
		ret := merge(documented, doc.Returns != nil, ir.ReturnName, typeText(fn.Returns), returnDefault(fn.Body), opts)
		out.Returns = &ret
	}
	return out, nil
}

func fromArg(documented ir.Params, a *syntax.Arg, def syntax.Expr, opts docstring.ParseOptions) ir.Param {
	d, found := documented.Get(a.Name)
	return merge(d, found, a.Name, typeText(a.Annotation), DefaultText(def), opts)
}

// KindOf reports how fn is invoked, from its decorators and receiver.
func KindOf(fn *syntax.FuncDef) ir.Kind {
	switch {
	case syntax.HasDecorator(fn, "staticmethod"):
		return ir.KindStatic
	case syntax.HasDecorator(fn, "classmethod"), syntax.Receiver(fn) == "cls":
		return ir.KindCls
	case syntax.Receiver(fn) == "self":
		return ir.KindSelf
	}
	return ir.KindFunction
}

// returnDefault is the value of a body consisting of a single return.
func returnDefault(body []syntax.Stmt) *string {
	rest := syntax.WithoutDocstring(body)
	if len(rest) != 1 {
		return nil
	}
	if r, ok := rest[0].(*syntax.Return); ok && r.Value != nil {
		return DefaultText(r.Value)
	}
	return nil
}
