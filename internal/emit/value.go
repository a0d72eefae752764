package emit

import (
	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/ir"
	"github.com/roach88/doctrans/internal/syntax"
	"github.com/roach88/doctrans/internal/typexpr"
)

// Value converts an IR default into an expression for a value of type typ.
// Code defaults are parsed; types that need quoting get a string literal;
// anything else is parsed and falls back to a string literal. Without a
// type, a default that does not read as a number or boolean is a string.
func Value(def string, typ typexpr.Expr) syntax.Expr {
	if code, ok := ir.SplitCode(def); ok {
		if e, err := syntax.ParseExpr(code); err == nil {
			return e
		}
		return syntax.Str(code)
	}
	if typexpr.NeedsQuoting(typ) {
		return syntax.Str(def)
	}
	if typ == nil && docstring.InferType(def) == "str" && def != "None" {
		return syntax.Str(def)
	}
	e, err := syntax.ParseExpr(def)
	if err != nil {
		return syntax.Str(def)
	}
	return e
}

// Annotation parses a type string. It is nil for an empty type; text that
// does not parse is kept as an opaque name.
func Annotation(typ string) syntax.Expr {
	if typ == "" {
		return nil
	}
	e, err := syntax.ParseExpr(typ)
	if err != nil {
		return syntax.Ident(typ)
	}
	return e
}

// paramDefault is the signature default for p: its own default, or None
// for an Optional type without one.
func paramDefault(p ir.Param) syntax.Expr {
	typ := p.Type()
	if p.Default != nil {
		return Value(*p.Default, typ)
	}
	if typexpr.IsOptional(typ) {
		return syntax.None()
	}
	return nil
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
