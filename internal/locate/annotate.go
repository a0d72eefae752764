package locate

import (
	"fmt"

	"github.com/roach88/doctrans/internal/syntax"
)

// StepKind says which child list a Step indexes.
type StepKind int

const (
	StepBody   StepKind = iota // a statement of a module, class or function body
	StepArg                    // a positional parameter, receiver included
	StepVararg                 // *args
	StepKwOnly                 // a keyword-only parameter
	StepKwarg                  // **kwargs
)

// Step is one edge from a node to a child.
type Step struct {
	Kind  StepKind
	Index int
}

// Location is an addressed node.
type Location struct {
	Address Address
	Path    []Step // from the module root
	Node    syntax.Node
	// Signature encloses a parameter; nil otherwise.
	Signature *syntax.FuncDef
	// ParamIndex is the parameter's position in its signature, not
	// counting a receiver. It is -1 for anything that is not a parameter.
	ParamIndex int
	// Default is the parameter's declared default, if any.
	Default syntax.Expr
}

// IsParam reports whether the location is a parameter.
func (l Location) IsParam() bool {
	return l.ParamIndex >= 0
}

// Index holds the addresses of one tree.
type Index struct {
	locs   []Location
	byAddr map[string]int
}

// Lookup returns the location at addr.
func (ix *Index) Lookup(addr Address) (Location, bool) {
	i, ok := ix.byAddr[addr.String()]
	if !ok {
		return Location{}, false
	}
	return ix.locs[i], true
}

// Locations returns every location in traversal order.
func (ix *Index) Locations() []Location {
	return append([]Location(nil), ix.locs...)
}

// Annotate walks mod once and addresses every named node and parameter.
// Within a def, parameters are visited before the body. When two nodes
// share an address the first one visited keeps it and later ones are not
// recorded.
func Annotate(mod *syntax.Module) *Index {
	ix := &Index{byAddr: map[string]int{}}
	ix.body(mod.Body, nil, nil)
	return ix
}

func (ix *Index) add(loc Location) bool {
	key := loc.Address.String()
	if _, dup := ix.byAddr[key]; dup {
		return false
	}
	ix.byAddr[key] = len(ix.locs)
	ix.locs = append(ix.locs, loc)
	return true
}

func (ix *Index) body(body []syntax.Stmt, parent Address, path []Step) {
	for i, s := range body {
		name, ok := syntax.StmtName(s)
		if !ok {
			continue
		}
		addr := parent.Child(name)
		p := childPath(path, Step{Kind: StepBody, Index: i})
		if !ix.add(Location{Address: addr, Path: p, Node: s, ParamIndex: -1}) {
			continue
		}
		switch s := s.(type) {
		case *syntax.ClassDef:
			ix.body(s.Body, addr, p)
		case *syntax.FuncDef:
			ix.params(s, addr, p)
			ix.body(s.Body, addr, p)
		}
	}
}

func (ix *Index) params(fn *syntax.FuncDef, parent Address, path []Step) {
	for _, ps := range Params(fn) {
		ix.add(Location{
			Address:    parent.Child(ps.Arg.Name),
			Path:       childPath(path, ps.Step),
			Node:       ps.Arg,
			Signature:  fn,
			ParamIndex: ps.Index,
			Default:    ps.Default,
		})
	}
}

// ParamSlot is one parameter of a signature with its default.
type ParamSlot struct {
	Arg     *syntax.Arg
	Step    Step
	Index   int // position not counting a receiver
	Default syntax.Expr
}

// Params lists the parameters of fn in declaration order, without the
// receiver of a method.
func Params(fn *syntax.FuncDef) []ParamSlot {
	a := fn.Args
	if a == nil {
		return nil
	}
	var out []ParamSlot
	next := func(arg *syntax.Arg, step Step, def syntax.Expr) {
		out = append(out, ParamSlot{Arg: arg, Step: step, Index: len(out), Default: def})
	}
	skip := 0
	if syntax.Receiver(fn) != "" {
		skip = 1
	}
	offset := len(a.Args) - len(a.Defaults)
	for i, arg := range a.Args {
		if i < skip {
			continue
		}
		var def syntax.Expr
		if i >= offset {
			def = a.Defaults[i-offset]
		}
		next(arg, Step{Kind: StepArg, Index: i}, def)
	}
	if a.Vararg != nil {
		next(a.Vararg, Step{Kind: StepVararg}, nil)
	}
	for i, arg := range a.KwOnly {
		var def syntax.Expr
		if i < len(a.KwDefaults) {
			def = a.KwDefaults[i]
		}
		next(arg, Step{Kind: StepKwOnly, Index: i}, def)
	}
	if a.Kwarg != nil {
		next(a.Kwarg, Step{Kind: StepKwarg}, nil)
	}
	return out
}

func childPath(path []Step, s Step) []Step {
	out := make([]Step, len(path), len(path)+1)
	copy(out, path)
	return append(out, s)
}

// Find resolves addr in mod.
func Find(mod *syntax.Module, addr Address) (Location, error) {
	if loc, ok := Annotate(mod).Lookup(addr); ok {
		return loc, nil
	}
	return Location{}, fmt.Errorf("%w: %s", ErrAddressNotFound, addr)
}
