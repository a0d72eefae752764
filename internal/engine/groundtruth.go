package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/roach88/doctrans/internal/compiler"
	"github.com/roach88/doctrans/internal/emit"
	"github.com/roach88/doctrans/internal/ir"
	"github.com/roach88/doctrans/internal/locate"
	"github.com/roach88/doctrans/internal/syntax"
)

// Group is one of the three artifact forms a full sync keeps aligned.
type Group string

const (
	GroupArgparse Group = "argparse"
	GroupClass    Group = "class"
	GroupFunction Group = "function"
)

// Groups lists every group in the order targets are processed.
var Groups = []Group{GroupArgparse, GroupClass, GroupFunction}

// ParseGroup validates a group name, as given to --truth.
func ParseGroup(s string) (Group, error) {
	switch g := Group(strings.ReplaceAll(s, "-", "_")); g {
	case GroupArgparse, GroupClass, GroupFunction:
		return g, nil
	case "argparse_function":
		return GroupArgparse, nil
	}
	return "", errors.Newf("unknown artifact group %q (want argparse, class or function)", s)
}

// Artifact names one def in one file. Name may be empty: the single
// class or function of the file is used, and argparse functions default
// to emit.DefaultArgparseName. A dotted Name "Class.method" selects a
// method.
type Artifact struct {
	File string
	Name string
}

// GroundTruthRequest asks for every artifact to be regenerated from the
// first artifact of the Truth group.
type GroundTruthRequest struct {
	Argparse []Artifact
	Class    []Artifact
	Function []Artifact
	Truth    Group
}

// Artifacts returns the artifacts of group g.
func (req GroundTruthRequest) Artifacts(g Group) []Artifact {
	switch g {
	case GroupArgparse:
		return req.Argparse
	case GroupClass:
		return req.Class
	case GroupFunction:
		return req.Function
	}
	return nil
}

// GroundTruth parses the truth artifact and rewrites every other artifact
// from it, including the rest of the truth group. Each target's def is
// replaced in place, or appended when the file lacks it, and the file is
// written before the next target is read.
//
// Every written artifact is parsed back and its shape hash compared with
// the truth's; a mismatch is a warning in the report, not an error.
//
// Preconditions are checked before any write: at least two groups must
// be non-empty and the truth group's first file must exist. A failure
// after the first write returns the report with the paths already
// written.
func (e *Engine) GroundTruth(ctx context.Context, req GroundTruthRequest) (*Report, error) {
	if err := e.checkGroundTruth(req); err != nil {
		return nil, err
	}
	truth := req.Artifacts(req.Truth)[0]

	r, err := e.begin(ctx, OpGroundTruth, truth.File)
	if err != nil {
		return nil, err
	}

	truthIR, err := e.ReadArtifact(truth, req.Truth)
	if err != nil {
		return r.finish(errors.Wrapf(err, "parse truth %s", truth.File))
	}
	want, err := ir.ShapeHash(truthIR)
	if err != nil {
		return r.finish(err)
	}
	r.log.Debug("truth parsed", "file", truth.File, "group", string(req.Truth), "params", len(truthIR.Params))

	for _, g := range Groups {
		for i, a := range req.Artifacts(g) {
			if g == req.Truth && i == 0 {
				continue
			}
			if err := ctx.Err(); err != nil {
				return r.finish(errors.Wrap(err, "sync interrupted"))
			}
			if err := e.syncTarget(ctx, r, truthIR, want, g, a); err != nil {
				return r.finish(err)
			}
		}
	}
	return r.finish(nil)
}

func (e *Engine) checkGroundTruth(req GroundTruthRequest) error {
	groups := 0
	for _, g := range Groups {
		if len(req.Artifacts(g)) > 0 {
			groups++
		}
	}
	if groups < 2 {
		return NewInsufficientArtifactsError(fmt.Sprintf("need artifacts in at least two groups, got %d", groups), "")
	}
	truth := req.Artifacts(req.Truth)
	if len(truth) == 0 {
		return NewInsufficientArtifactsError(fmt.Sprintf("truth group %q has no artifacts", req.Truth), "")
	}
	if !e.store.Exists(truth[0].File) {
		return NewInsufficientArtifactsError("truth file does not exist", truth[0].File)
	}
	return nil
}

// ReadArtifact parses a file and reads the def a names with the group's
// adapter.
func (e *Engine) ReadArtifact(a Artifact, g Group) (*ir.IR, error) {
	data, err := e.store.Read(a.File)
	if err != nil {
		return nil, err
	}
	mod, err := syntax.Parse(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", a.File)
	}
	return e.fromModule(mod, g, a.Name)
}

func (e *Engine) fromModule(mod *syntax.Module, g Group, name string) (*ir.IR, error) {
	switch g {
	case GroupClass:
		cls, err := compiler.FindClass(mod, name)
		if err != nil {
			return nil, err
		}
		return compiler.FromClass(cls, e.parse)
	case GroupFunction:
		fn, err := compiler.FindFunction(mod, name)
		if err != nil {
			return nil, err
		}
		return compiler.FromFunction(fn, e.parse)
	case GroupArgparse:
		if name == "" {
			name = emit.DefaultArgparseName
		}
		fn, err := compiler.FindFunction(mod, name)
		if err != nil {
			return nil, err
		}
		return compiler.FromArgparse(fn, e.parse)
	}
	return nil, errors.Newf("unknown artifact group %q", g)
}

// syncTarget regenerates one artifact from truth and writes its file.
func (e *Engine) syncTarget(ctx context.Context, r *run, truth *ir.IR, want string, g Group, a Artifact) error {
	mod := &syntax.Module{}
	if e.store.Exists(a.File) {
		data, err := e.store.Read(a.File)
		if err != nil {
			return err
		}
		if mod, err = syntax.Parse(string(data)); err != nil {
			return errors.Wrapf(err, "parse %s", a.File)
		}
	}

	name := targetName(mod, g, a.Name, truth)
	addr, err := locate.ParseAddress(name)
	if err != nil {
		return errors.Wrapf(err, "target %s in %s", name, a.File)
	}
	existing, findErr := locate.Find(mod, addr)
	found := findErr == nil

	var node syntax.Node
	if found {
		node = existing.Node
	}
	def, err := e.emitTarget(truth, g, addr, node)
	if err != nil {
		return errors.Wrapf(err, "emit %s %s", g, addr)
	}
	if found {
		mod, err = locate.Rewrite(mod, addr, def)
	} else {
		mod, err = appendDef(mod, a.File, addr, def)
	}
	if err != nil {
		return err
	}

	data := emit.Render(mod, e.emit.File)
	got, shapeErr := e.shapeOf(data, g, name)
	if err := r.write(ctx, a.File, data, got); err != nil {
		return err
	}
	switch {
	case shapeErr != nil:
		r.warn("written artifact does not parse back", "file", a.File, "name", name, "error", shapeErr)
	case got != want:
		r.warn("written artifact differs from truth", "file", a.File, "name", name, "group", string(g))
	}
	return nil
}

// targetName picks the def a target artifact refers to.
func targetName(mod *syntax.Module, g Group, name string, truth *ir.IR) string {
	if name != "" {
		return name
	}
	switch g {
	case GroupArgparse:
		return emit.DefaultArgparseName
	case GroupClass:
		if cls, err := compiler.FindClass(mod, ""); err == nil {
			return cls.Name
		}
		return emit.DefaultClassName
	default:
		if fn, err := compiler.FindFunction(mod, ""); err == nil {
			return fn.Name
		}
		if truth.Name != "" && truth.Name != emit.DefaultArgparseName {
			return truth.Name
		}
		return emit.DefaultFunctionName
	}
}

// emitTarget renders truth in the form of group g, carrying over what the
// existing def has that the IR does not: class bases, and the kind and
// hand-written body of a function.
func (e *Engine) emitTarget(truth *ir.IR, g Group, addr locate.Address, existing syntax.Node) (syntax.Stmt, error) {
	o := e.emit
	last := addr[len(addr)-1]
	switch g {
	case GroupClass:
		opts := emit.ClassOptions{Name: last, EmitDefaultDoc: o.EmitDefaultDoc, WordWrap: o.WordWrap, Width: o.Width}
		if cls, ok := existing.(*syntax.ClassDef); ok {
			for _, b := range cls.Bases {
				opts.Bases = append(opts.Bases, syntax.FormatExpr(b))
			}
		}
		return emit.Class(truth, opts), nil
	case GroupArgparse:
		if len(addr) > 1 {
			return nil, errors.Newf("argparse function %s must be top-level", addr)
		}
		return emit.Argparse(truth, emit.ArgparseOptions{
			FunctionName:  last,
			CarryDefaults: o.CarryDefaults,
			DefaultHelp:   o.ArgparseDefaultDoc,
			WordWrap:      o.WordWrap,
			Width:         o.Width,
		}), nil
	}

	r := truth.Clone()
	r.Kind = ir.KindFunction
	if len(addr) > 1 {
		r.Kind = ir.KindSelf
	}
	var body []syntax.Stmt
	if fn, ok := existing.(*syntax.FuncDef); ok {
		r.Kind = compiler.KindOf(fn)
		body = keptBody(fn.Body)
	}
	return emit.Function(r, emit.FunctionOptions{
		Name:              last,
		InlineTypes:       o.InlineTypes,
		EmitDefaultDoc:    o.EmitDefaultDoc,
		EmitSeparatingTab: true,
		WordWrap:          o.WordWrap,
		Width:             o.Width,
		IndentLevel:       len(addr) - 1,
		Body:              body,
	}), nil
}

// keptBody returns body unless it is only a placeholder: pass, or a single
// return that the emitter regenerates from the return default.
func keptBody(body []syntax.Stmt) []syntax.Stmt {
	rest := syntax.WithoutDocstring(body)
	if len(rest) == 1 {
		switch rest[0].(type) {
		case *syntax.Pass, *syntax.Return:
			return nil
		}
	}
	return body
}

// appendDef adds def at the end of the module, or at the end of the
// owning class for a method address.
func appendDef(mod *syntax.Module, file string, addr locate.Address, def syntax.Stmt) (*syntax.Module, error) {
	if len(addr) == 1 {
		body := append(append([]syntax.Stmt(nil), mod.Body...), def)
		return &syntax.Module{Body: body}, nil
	}
	owner, err := locate.Find(mod, addr.Parent())
	if err != nil {
		return nil, NewTargetAddressError(file, addr.String(), err)
	}
	cls, ok := owner.Node.(*syntax.ClassDef)
	if !ok {
		return nil, NewTargetAddressError(file, addr.String(),
			errors.Wrapf(locate.ErrUnsupportedRewriteTarget, "%s is not a class", addr.Parent()))
	}
	cp := *cls
	cp.Body = append(append([]syntax.Stmt(nil), cls.Body...), def)
	return locate.Rewrite(mod, addr.Parent(), &cp)
}

// shapeOf parses rendered output back to IR and hashes its shape.
func (e *Engine) shapeOf(data []byte, g Group, name string) (string, error) {
	mod, err := syntax.Parse(string(data))
	if err != nil {
		return "", err
	}
	r, err := e.fromModule(mod, g, name)
	if err != nil {
		return "", err
	}
	return ir.ShapeHash(r)
}
