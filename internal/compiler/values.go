package compiler

import (
	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/ir"
	"github.com/roach88/doctrans/internal/syntax"
	"github.com/roach88/doctrans/internal/typexpr"
)

// DefaultText converts a default expression into its IR form. A plain
// string literal yields its text, other literals their spelling and None
// yields nil. Everything else, names included, is kept as a code default.
func DefaultText(e syntax.Expr) *string {
	switch e := e.(type) {
	case nil:
		return nil
	case *syntax.Constant:
		switch e.Kind {
		case syntax.ConstNone:
			return nil
		case syntax.ConstStr:
			if e.Prefix == "" {
				return ir.Ptr(e.Value)
			}
		case syntax.ConstInt, syntax.ConstFloat, syntax.ConstBool:
			return ir.Ptr(e.Value)
		}
	case *syntax.UnaryOp:
		if c, ok := e.X.(*syntax.Constant); ok && (e.Op == "-" || e.Op == "+") &&
			(c.Kind == syntax.ConstInt || c.Kind == syntax.ConstFloat) {
			return ir.Ptr(syntax.FormatValue(e))
		}
	}
	return ir.Ptr(ir.CodeDefault(syntax.FormatValue(e)))
}

// typeText renders an annotation as IR type text.
func typeText(e syntax.Expr) string {
	return syntax.FormatExpr(e)
}

// docIR parses the docstring at the head of body. A missing docstring is
// an empty IR.
func docIR(body []syntax.Stmt, field string, opts docstring.ParseOptions) (*ir.IR, error) {
	text, ok := syntax.Docstring(body)
	if !ok {
		return &ir.IR{Kind: ir.KindFunction, Params: ir.Params{}}, nil
	}
	r, err := docstring.Parse(text, opts)
	if err != nil {
		return nil, &CompileError{Field: field + ".docstring", Message: "unreadable docstring", Err: err}
	}
	return r, nil
}

// merge combines a param read from the tree with what the docstring says
// about it. The tree's type and default win; the docstring fills gaps and
// always supplies the prose.
func merge(documented ir.Param, found bool, name, typ string, def *string, opts docstring.ParseOptions) ir.Param {
	doc := ""
	if found {
		doc = documented.Doc
		if typ == "" {
			typ = documented.Typ
		}
		if def == nil {
			def = documented.Default
		}
	}
	if typ == "" && def != nil && opts.InferType {
		typ = docstring.InferType(*def)
	}
	return ir.NewParam(name, typ, doc, def)
}

// isZeroValue reports whether e is what a field of type typ is given when
// it has no default.
func isZeroValue(e syntax.Expr, typ string) bool {
	z, ok := typexpr.ZeroValue(typexpr.MustParse(typ))
	return ok && syntax.FormatValue(z) == syntax.FormatValue(e)
}
