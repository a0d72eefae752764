package typexpr

import (
	"github.com/roach88/doctrans/internal/syntax"
)

// NeedsQuoting reports whether a default for a value of type e is rendered
// as a string literal rather than parsed as an expression.
//
//   - a str leaf always quotes;
//   - Optional[T] quotes exactly when T does;
//   - Union and Literal quote when any branch is a str leaf or a string constant;
//   - nothing else quotes.
func NeedsQuoting(e Expr) bool {
	switch e := e.(type) {
	case Scalar:
		return e.Name == "str"
	case Optional:
		return NeedsQuoting(e.Elem)
	case Union:
		return anyStringLeaf(e.Elems)
	case Literal:
		return anyStringLeaf(e.Elems)
	}
	return false
}

func anyStringLeaf(es []Expr) bool {
	for _, e := range es {
		switch e := e.(type) {
		case Scalar:
			if e.Name == "str" {
				return true
			}
		case Const:
			if syntax.IsStr(e.Value) {
				return true
			}
		}
	}
	return false
}

// IsOptional reports whether e admits None at the top level.
func IsOptional(e Expr) bool {
	_, ok := e.(Optional)
	return ok
}

// IsMapping reports whether e is the catch-all mapping or a bare mapping
// container.
func IsMapping(e Expr) bool {
	switch e := e.(type) {
	case Mapping:
		return true
	case Generic:
		return mappingNames[e.Name] && len(e.Args) == 0
	}
	return false
}

// ZeroValue returns the literal a field of type e gets when no default is
// supplied: 0, 0.0, "", False for scalars and {} for mappings. It reports
// false for every other type.
func ZeroValue(e Expr) (syntax.Expr, bool) {
	switch e := e.(type) {
	case Scalar:
		switch e.Name {
		case "int":
			return &syntax.Constant{Kind: syntax.ConstInt, Value: "0"}, true
		case "float":
			return &syntax.Constant{Kind: syntax.ConstFloat, Value: "0.0"}, true
		case "str":
			return syntax.Str(""), true
		case "bool":
			return syntax.Bool(false), true
		}
	case Mapping, Generic:
		if IsMapping(e) {
			return &syntax.Dict{}, true
		}
	}
	return nil, false
}

// Choices returns the fixed choice set of a tuple or Literal of constants,
// looking through Optional.
func Choices(e Expr) ([]syntax.Expr, bool) {
	if o, ok := e.(Optional); ok {
		e = o.Elem
	}
	var elems []Expr
	switch e := e.(type) {
	case Tuple:
		elems = e.Elems
	case Literal:
		elems = e.Elems
	default:
		return nil, false
	}
	if len(elems) == 0 {
		return nil, false
	}
	out := make([]syntax.Expr, len(elems))
	for i, el := range elems {
		c, ok := el.(Const)
		if !ok {
			return nil, false
		}
		out[i] = c.Value
	}
	return out, true
}

// Argparse type names for values that are not scalars.
const (
	ArgTypeJSON     = "loads"
	ArgTypeResolved = "globals().__getitem__"
)

// ResolveArgType picks the argparse `type=` for e. It returns "" when e is
// nil. Unrecognized nominal types resolve by name at runtime.
func ResolveArgType(e Expr) string {
	switch e := e.(type) {
	case nil:
		return ""
	case Scalar:
		return e.Name
	case Optional:
		return ResolveArgType(e.Elem)
	case Mapping:
		return ArgTypeJSON
	case Generic:
		if mappingNames[e.Name] {
			return ArgTypeJSON
		}
		return ArgTypeResolved
	case Literal, Tuple:
		if cs, ok := Choices(e); ok {
			return constType(cs[0])
		}
		return ArgTypeResolved
	case Union:
		for _, el := range e.Elems {
			if t := ResolveArgType(el); t != "" {
				return t
			}
		}
	case Const:
		return constType(e.Value)
	}
	return ArgTypeResolved
}

func constType(e syntax.Expr) string {
	c, ok := e.(*syntax.Constant)
	if !ok {
		return ArgTypeResolved
	}
	switch c.Kind {
	case syntax.ConstStr:
		return "str"
	case syntax.ConstInt:
		return "int"
	case syntax.ConstFloat:
		return "float"
	case syntax.ConstBool:
		return "bool"
	}
	return ArgTypeResolved
}
