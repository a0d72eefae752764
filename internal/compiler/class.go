package compiler

import (
	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/ir"
	"github.com/roach88/doctrans/internal/syntax"
)

// FromClass reads a field-list class. Params follow the docstring order,
// then any field the docstring does not mention. A field named
// return_type becomes Returns.
//
// A field holding its type's zero value, or None, has no default unless the
// docstring announces one.
func FromClass(cls *syntax.ClassDef, opts docstring.ParseOptions) (*ir.IR, error) {
	doc, err := docIR(cls.Body, cls.Name, opts)
	if err != nil {
		return nil, err
	}

	documented := doc.Params
	if doc.Returns != nil {
		documented = documented.Set(*doc.Returns)
	}

	out := &ir.IR{
		Name:             cls.Name,
		Kind:             ir.KindFunction,
		ShortDescription: doc.ShortDescription,
		LongDescription:  doc.LongDescription,
		Params:           ir.Params{},
	}
	seen := map[string]bool{}
	var fields ir.Params
	for _, s := range syntax.WithoutDocstring(cls.Body) {
		arg, value, err := syntax.FieldToArg(s)
		if err != nil {
			continue
		}
		d, found := documented.Get(arg.Name)
		typ := typeText(arg.Annotation)
		def := DefaultText(value)
		if value != nil && isZeroValue(value, firstNonEmpty(typ, d.Typ)) {
			def = nil
		}
		fields = append(fields, merge(d, found, arg.Name, typ, def, opts))
		seen[arg.Name] = true
	}

	for _, d := range documented {
		if seen[d.Name] {
			p, _ := fields.Get(d.Name)
			out.Params = append(out.Params, p)
			continue
		}
		out.Params = append(out.Params, merge(d, true, d.Name, "", nil, opts))
	}
	for _, p := range fields {
		if _, ok := documented.Get(p.Name); !ok {
			out.Params = append(out.Params, p)
		}
	}

	if ret, ok := out.Params.Get(ir.ReturnName); ok {
		out.Params = without(out.Params, ir.ReturnName)
		out.Returns = &ret
	}
	return out, nil
}

func without(ps ir.Params, name string) ir.Params {
	out := ir.Params{}
	for _, p := range ps {
		if p.Name != name {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
