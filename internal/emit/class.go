package emit

import (
	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/ir"
	"github.com/roach88/doctrans/internal/syntax"
	"github.com/roach88/doctrans/internal/typexpr"
)

// DefaultClassName names classes emitted from an unnamed IR.
const DefaultClassName = "ConfigClass"

// ClassOptions control field-list emission.
type ClassOptions struct {
	Name           string   // defaults to the IR name, then DefaultClassName
	Bases          []string // defaults to object
	EmitDefaultDoc bool
	WordWrap       bool
	Width          int
}

// Class emits r as a class whose docstring documents each field with
// :cvar and whose body declares one field per param. The return value
// becomes the field return_type.
func Class(r *ir.IR, opts ClassOptions) *syntax.ClassDef {
	fields := append(ir.Params(nil), r.Params...)
	if r.Returns != nil {
		ret := *r.Returns
		ret.Name = ir.ReturnName
		fields = append(fields, ret)
	}

	doc, _ := docstring.Emit(&ir.IR{
		ShortDescription: r.ShortDescription,
		LongDescription:  r.LongDescription,
		Params:           fields,
	}, docstring.EmitOptions{
		Dialect:           docstring.DialectFieldTag,
		EmitDefaultDoc:    opts.EmitDefaultDoc,
		WordWrap:          opts.WordWrap,
		Width:             opts.Width,
		IndentLevel:       1,
		EmitSeparatingTab: true,
		ParamTag:          ":cvar",
	})

	body := syntax.WithDocstring(nil, doc)
	for _, p := range fields {
		body = append(body, Field(p))
	}

	bases := opts.Bases
	if len(bases) == 0 {
		bases = []string{"object"}
	}
	cls := &syntax.ClassDef{Name: firstNonEmpty(opts.Name, r.Name, DefaultClassName), Body: body}
	for _, b := range bases {
		cls.Bases = append(cls.Bases, Annotation(b))
	}
	return cls
}

// Field emits one field declaration. Without a default, simple scalars get
// their zero value, mappings get {}, Optional types get None and anything
// else is declared without a value. An untyped param is a plain
// assignment.
func Field(p ir.Param) syntax.Stmt {
	arg := &syntax.Arg{Name: p.Name, Annotation: Annotation(p.Typ)}
	return syntax.ArgToField(arg, fieldValue(p))
}

func fieldValue(p ir.Param) syntax.Expr {
	typ := p.Type()
	switch {
	case p.Default != nil:
		return Value(*p.Default, typ)
	case typ == nil:
		return nil
	case typexpr.IsOptional(typ):
		return syntax.None()
	}
	if z, ok := typexpr.ZeroValue(typ); ok {
		return z
	}
	return nil
}
