package engine

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/roach88/doctrans/internal/emit"
	"github.com/roach88/doctrans/internal/locate"
	"github.com/roach88/doctrans/internal/syntax"
)

// PropertyMode selects what a property sync copies.
type PropertyMode string

const (
	// ModeCopy copies the source value expression verbatim.
	ModeCopy PropertyMode = "copy"
	// ModeEval evaluates the source value and copies the resulting literal.
	ModeEval PropertyMode = "eval"
)

// TypePlaceholder is replaced by the source annotation in
// PropertyRequest.WrapType.
const TypePlaceholder = "{type}"

// PropertyRequest copies one property onto one or more others.
type PropertyRequest struct {
	SourceFile      string
	SourceAddress   locate.Address
	Mode            PropertyMode
	TargetFile      string
	TargetAddresses []locate.Address
	// WrapType wraps the copied annotation, e.g. "Optional[{type}]".
	WrapType string
}

// property is what a source contributes: either part may be nil.
type property struct {
	annotation syntax.Expr
	value      syntax.Expr
}

// SyncProperties copies the annotation and value at SourceAddress onto
// each target address in order. A parameter source contributes its
// default; a field contributes its value. Each target is rewritten and the
// target file written before the next address is resolved, so a failing
// address leaves earlier targets written.
func (e *Engine) SyncProperties(ctx context.Context, req PropertyRequest) (*Report, error) {
	src, srcMod, err := e.source(req)
	if err != nil {
		return nil, err
	}

	if req.Mode == ModeEval {
		if src.value == nil {
			return nil, NewSourceAddressError(req.SourceFile, req.SourceAddress.String(),
				errors.New("eval mode needs a source with a value"))
		}
		v, err := evalValue(src.value, constants(srcMod))
		if err != nil {
			return nil, errors.Wrapf(err, "evaluate %s", req.SourceAddress)
		}
		src.value = v
	}
	if req.WrapType != "" && src.annotation != nil {
		wrapped, err := syntax.ParseExpr(strings.ReplaceAll(req.WrapType, TypePlaceholder, syntax.FormatExpr(src.annotation)))
		if err != nil {
			return nil, errors.Wrapf(err, "wrap type %q", req.WrapType)
		}
		src.annotation = wrapped
	}

	r, err := e.begin(ctx, OpSyncProperties, req.SourceFile)
	if err != nil {
		return nil, err
	}

	data, err := e.store.Read(req.TargetFile)
	if err != nil {
		return r.finish(err)
	}
	mod, err := syntax.Parse(string(data))
	if err != nil {
		return r.finish(errors.Wrapf(err, "parse %s", req.TargetFile))
	}

	for _, addr := range req.TargetAddresses {
		if err := ctx.Err(); err != nil {
			return r.finish(errors.Wrap(err, "sync interrupted"))
		}
		if _, err := locate.Find(mod, addr); err != nil {
			return r.finish(NewTargetAddressError(req.TargetFile, addr.String(), err))
		}
		next, err := locate.Rewrite(mod, addr, replacement(src, addr))
		if err != nil {
			return r.finish(err)
		}
		mod = next
		if err := r.write(ctx, req.TargetFile, emit.Render(mod, e.emit.File), ""); err != nil {
			return r.finish(err)
		}
		r.log.Debug("property synced", "source", req.SourceAddress.String(), "target", addr.String())
	}
	return r.finish(nil)
}

// source resolves the source property and returns it with its module.
func (e *Engine) source(req PropertyRequest) (property, *syntax.Module, error) {
	data, err := e.store.Read(req.SourceFile)
	if err != nil {
		return property{}, nil, err
	}
	mod, err := syntax.Parse(string(data))
	if err != nil {
		return property{}, nil, errors.Wrapf(err, "parse %s", req.SourceFile)
	}
	loc, err := locate.Find(mod, req.SourceAddress)
	if err != nil {
		return property{}, nil, NewSourceAddressError(req.SourceFile, req.SourceAddress.String(), err)
	}
	switch n := loc.Node.(type) {
	case *syntax.Arg:
		return property{annotation: n.Annotation, value: loc.Default}, mod, nil
	case *syntax.AnnAssign:
		return property{annotation: n.Annotation, value: n.Value}, mod, nil
	case *syntax.Assign:
		return property{value: n.Value}, mod, nil
	}
	return property{}, nil, NewSourceAddressError(req.SourceFile, req.SourceAddress.String(),
		errors.Newf("%T is not a property", loc.Node))
}

// replacement builds the rewrite for one target. A source with neither an
// annotation nor a value removes the target's default.
func replacement(p property, addr locate.Address) syntax.Node {
	name := syntax.Ident(addr[len(addr)-1])
	switch {
	case p.annotation != nil:
		return &syntax.AnnAssign{Target: name, Annotation: p.annotation, Value: p.value}
	case p.value != nil:
		return &syntax.Assign{Target: name, Value: p.value}
	}
	return &syntax.DefaultValue{}
}

// constants evaluates the module-level assignments in order, so later
// constants may refer to earlier ones. Assignments that do not evaluate
// are skipped.
func constants(mod *syntax.Module) map[string]any {
	env := map[string]any{"True": true, "False": false, "None": nil}
	for _, s := range mod.Body {
		var target, value syntax.Expr
		switch s := s.(type) {
		case *syntax.Assign:
			target, value = s.Target, s.Value
		case *syntax.AnnAssign:
			target, value = s.Target, s.Value
		default:
			continue
		}
		n, ok := target.(*syntax.Name)
		if !ok || value == nil {
			continue
		}
		if v, err := expr.Eval(syntax.FormatValue(value), env); err == nil {
			env[n.ID] = v
		}
	}
	return env
}

// evalValue evaluates value against env and renders the result as a
// literal expression.
func evalValue(value syntax.Expr, env map[string]any) (syntax.Expr, error) {
	program, err := expr.Compile(syntax.FormatValue(value), expr.Env(env))
	if err != nil {
		return nil, errors.Wrap(err, "compile")
	}
	out, err := vm.Run(program, env)
	if err != nil {
		return nil, errors.Wrap(err, "run")
	}
	return literal(out)
}

// literal renders an evaluation result back into source form.
func literal(v any) (syntax.Expr, error) {
	switch v := v.(type) {
	case nil:
		return syntax.None(), nil
	case bool:
		return syntax.Bool(v), nil
	case string:
		return syntax.Str(v), nil
	case int:
		return intLiteral(int64(v)), nil
	case int32:
		return intLiteral(int64(v)), nil
	case int64:
		return intLiteral(v), nil
	case float64:
		return floatLiteral(v)
	case []any:
		out := &syntax.List{}
		for _, e := range v {
			x, err := literal(e)
			if err != nil {
				return nil, err
			}
			out.Elts = append(out.Elts, x)
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := &syntax.Dict{}
		for _, k := range keys {
			x, err := literal(v[k])
			if err != nil {
				return nil, err
			}
			out.Keys = append(out.Keys, syntax.Str(k))
			out.Values = append(out.Values, x)
		}
		return out, nil
	}
	return nil, errors.Newf("cannot write %T as a literal", v)
}

func intLiteral(n int64) syntax.Expr {
	if n < 0 {
		return &syntax.UnaryOp{Op: "-", X: &syntax.Constant{Kind: syntax.ConstInt, Value: strconv.FormatInt(-n, 10)}}
	}
	return &syntax.Constant{Kind: syntax.ConstInt, Value: strconv.FormatInt(n, 10)}
}

func floatLiteral(f float64) (syntax.Expr, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, errors.Newf("cannot write %v as a literal", f)
	}
	neg := f < 0
	s := strconv.FormatFloat(math.Abs(f), 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	var out syntax.Expr = &syntax.Constant{Kind: syntax.ConstFloat, Value: s}
	if neg {
		out = &syntax.UnaryOp{Op: "-", X: out}
	}
	return out, nil
}
