package locate

import (
	"fmt"

	"github.com/roach88/doctrans/internal/syntax"
)

// Rewrite returns a copy of mod with the node at addr replaced. Only the
// nodes on the path to the target are copied; every other node is shared
// with mod, which is left unchanged.
//
// What a replacement does depends on the target:
//
//   - a parameter takes a field (*syntax.AnnAssign or *syntax.Assign) or an
//     *syntax.Arg. It keeps its name; the annotation is replaced unless the
//     replacement has none, and a field value becomes the default;
//   - a parameter takes *syntax.DefaultValue, which replaces only the
//     default. A nil value removes it;
//   - a field takes a field, keeping its name, or *syntax.DefaultValue,
//     which replaces only its value;
//   - a def takes a def of the same kind.
//
// Anything else fails with ErrUnsupportedRewriteTarget.
func Rewrite(mod *syntax.Module, addr Address, replacement syntax.Node) (*syntax.Module, error) {
	loc, err := Find(mod, addr)
	if err != nil {
		return nil, err
	}
	body, err := rebuild(mod.Body, loc.Path, replacement)
	if err != nil {
		return nil, fmt.Errorf("rewrite %s: %w", addr, err)
	}
	return &syntax.Module{Body: body}, nil
}

// rebuild copies body along path and substitutes repl at its end.
func rebuild(body []syntax.Stmt, path []Step, repl syntax.Node) ([]syntax.Stmt, error) {
	step := path[0]
	if step.Kind != StepBody || step.Index >= len(body) {
		return nil, fmt.Errorf("%w: bad path", ErrAddressNotFound)
	}
	out := append([]syntax.Stmt(nil), body...)
	cur := body[step.Index]
	rest := path[1:]

	if len(rest) == 0 {
		n, err := substitute(cur, repl)
		if err != nil {
			return nil, err
		}
		s, ok := n.(syntax.Stmt)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not a statement", ErrUnsupportedRewriteTarget, n)
		}
		out[step.Index] = s
		return out, nil
	}

	switch cur := cur.(type) {
	case *syntax.ClassDef:
		cp := *cur
		b, err := rebuild(cur.Body, rest, repl)
		if err != nil {
			return nil, err
		}
		cp.Body = b
		out[step.Index] = &cp
	case *syntax.FuncDef:
		cp := *cur
		if rest[0].Kind == StepBody {
			b, err := rebuild(cur.Body, rest, repl)
			if err != nil {
				return nil, err
			}
			cp.Body = b
		} else {
			if len(rest) != 1 {
				return nil, fmt.Errorf("%w: path continues past a parameter", ErrAddressNotFound)
			}
			args, err := rewriteParam(cur.Args, rest[0], repl)
			if err != nil {
				return nil, err
			}
			cp.Args = args
		}
		out[step.Index] = &cp
	default:
		return nil, fmt.Errorf("%w: %T has no children", ErrAddressNotFound, cur)
	}
	return out, nil
}

// substitute replaces a statement target.
func substitute(target, repl syntax.Node) (syntax.Node, error) {
	switch t := target.(type) {
	case *syntax.AnnAssign:
		return substituteField(t.Target, t.Annotation, t.Value, repl)
	case *syntax.Assign:
		return substituteField(t.Target, nil, t.Value, repl)
	case *syntax.FuncDef:
		if r, ok := repl.(*syntax.FuncDef); ok {
			return r, nil
		}
	case *syntax.ClassDef:
		if r, ok := repl.(*syntax.ClassDef); ok {
			return r, nil
		}
	}
	return nil, unsupported(target, repl)
}

func substituteField(name, ann, value syntax.Expr, repl syntax.Node) (syntax.Node, error) {
	switch r := repl.(type) {
	case *syntax.DefaultValue:
		value = r.Value
	case *syntax.AnnAssign:
		value = r.Value
		if r.Annotation != nil {
			ann = r.Annotation
		}
	case *syntax.Assign:
		value = r.Value
	case *syntax.Arg:
		if r.Annotation != nil {
			ann = r.Annotation
		}
	default:
		return nil, unsupported(&syntax.Assign{Target: name}, repl)
	}
	if ann == nil {
		if value == nil {
			value = syntax.None()
		}
		return &syntax.Assign{Target: name, Value: value}, nil
	}
	return &syntax.AnnAssign{Target: name, Annotation: ann, Value: value}, nil
}

// rewriteParam returns a copy of args with the parameter at step replaced.
func rewriteParam(args *syntax.Arguments, step Step, repl syntax.Node) (*syntax.Arguments, error) {
	if args == nil {
		return nil, fmt.Errorf("%w: no parameters", ErrAddressNotFound)
	}
	cp := copyArguments(args)
	target := paramAt(cp, step)
	if target == nil {
		return nil, fmt.Errorf("%w: bad parameter step", ErrAddressNotFound)
	}

	ann := target.Annotation
	var def syntax.Expr
	setDef := false
	switch r := repl.(type) {
	case *syntax.DefaultValue:
		def, setDef = r.Value, true
	case *syntax.AnnAssign, *syntax.Assign:
		a, v, err := syntax.FieldToArg(r.(syntax.Stmt))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedRewriteTarget, err)
		}
		if a.Annotation != nil {
			ann = a.Annotation
		}
		def, setDef = v, v != nil
	case *syntax.Arg:
		if r.Annotation != nil {
			ann = r.Annotation
		}
	default:
		return nil, unsupported(target, repl)
	}

	setParam(cp, step, &syntax.Arg{Name: target.Name, Annotation: ann})
	if setDef {
		if err := setDefault(cp, step, def); err != nil {
			return nil, err
		}
	}
	return cp, nil
}

func copyArguments(a *syntax.Arguments) *syntax.Arguments {
	return &syntax.Arguments{
		Args:       append([]*syntax.Arg(nil), a.Args...),
		Defaults:   append([]syntax.Expr(nil), a.Defaults...),
		Vararg:     a.Vararg,
		KwOnly:     append([]*syntax.Arg(nil), a.KwOnly...),
		KwDefaults: append([]syntax.Expr(nil), a.KwDefaults...),
		Kwarg:      a.Kwarg,
	}
}

func paramAt(a *syntax.Arguments, s Step) *syntax.Arg {
	switch s.Kind {
	case StepArg:
		if s.Index < len(a.Args) {
			return a.Args[s.Index]
		}
	case StepKwOnly:
		if s.Index < len(a.KwOnly) {
			return a.KwOnly[s.Index]
		}
	case StepVararg:
		return a.Vararg
	case StepKwarg:
		return a.Kwarg
	}
	return nil
}

func setParam(a *syntax.Arguments, s Step, arg *syntax.Arg) {
	switch s.Kind {
	case StepArg:
		a.Args[s.Index] = arg
	case StepKwOnly:
		a.KwOnly[s.Index] = arg
	case StepVararg:
		a.Vararg = arg
	case StepKwarg:
		a.Kwarg = arg
	}
}

// setDefault writes def into the defaults list slot of the parameter at s.
// Positional defaults form a tail, so a positional parameter can gain a
// default only next to that tail and lose one only at its head.
func setDefault(a *syntax.Arguments, s Step, def syntax.Expr) error {
	switch s.Kind {
	case StepArg:
		offset := len(a.Args) - len(a.Defaults)
		switch {
		case s.Index >= offset && def != nil:
			a.Defaults[s.Index-offset] = def
		case s.Index == offset && def == nil:
			a.Defaults = a.Defaults[1:]
		case s.Index == offset-1 && def != nil:
			a.Defaults = append([]syntax.Expr{def}, a.Defaults...)
		case s.Index < offset && def == nil:
		default:
			return fmt.Errorf("%w: parameter %s is not adjacent to the defaulted tail", ErrUnsupportedRewriteTarget, a.Args[s.Index].Name)
		}
	case StepKwOnly:
		for len(a.KwDefaults) < len(a.KwOnly) {
			a.KwDefaults = append(a.KwDefaults, nil)
		}
		a.KwDefaults[s.Index] = def
		if allNil(a.KwDefaults) {
			a.KwDefaults = nil
		}
	default:
		if def != nil {
			return fmt.Errorf("%w: variadic parameters take no default", ErrUnsupportedRewriteTarget)
		}
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

func unsupported(target, repl syntax.Node) error {
	return fmt.Errorf("%w: cannot replace %T with %T", ErrUnsupportedRewriteTarget, target, repl)
}
