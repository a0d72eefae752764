package ir

import (
	"strings"

	"github.com/roach88/doctrans/internal/typexpr"
)

// Kind mirrors how a callable is invoked.
type Kind string

const (
	KindFunction Kind = "function" // free function
	KindSelf     Kind = "self"     // bound to an instance
	KindCls      Kind = "cls"      // bound to the type
	KindStatic   Kind = "static"   // static method
)

// ValidKinds defines allowed kinds.
var ValidKinds = map[Kind]bool{
	KindFunction: true,
	KindSelf:     true,
	KindCls:      true,
	KindStatic:   true,
}

// ReturnName is the name carried by IR.Returns.
const ReturnName = "return_type"

// IR describes one callable's interface independent of the artifact it
// came from.
type IR struct {
	Name             string `json:"name,omitempty" yaml:"name,omitempty"`
	Kind             Kind   `json:"kind" yaml:"kind"`
	ShortDescription string `json:"short_description" yaml:"short_description"`
	LongDescription  string `json:"long_description" yaml:"long_description"`
	Params           Params `json:"params" yaml:"params"`
	Returns          *Param `json:"returns,omitempty" yaml:"returns,omitempty"`
}

// Param is one parameter, or the return value.
//
// Default is nil when absent. Literal defaults hold their value (a string
// default holds the unquoted text); expression defaults are wrapped in
// triple backticks, see CodeDefault.
type Param struct {
	Name     string  `json:"name" yaml:"name"`
	Typ      string  `json:"typ,omitempty" yaml:"typ,omitempty"`
	Doc      string  `json:"doc,omitempty" yaml:"doc,omitempty"`
	Default  *string `json:"default,omitempty" yaml:"default,omitempty"`
	Required bool    `json:"required" yaml:"required"`
}

// NewParam builds a normalized param. Catch-all keyword parameters are
// typed as a mapping and never required; otherwise a param is required
// unless its type is Optional.
func NewParam(name, typ, doc string, def *string) Param {
	p := Param{Name: name, Typ: strings.TrimSpace(typ), Doc: doc, Default: def}
	if IsCatchAll(p.Name, p.Typ) {
		p.Typ = "dict"
		if def != nil && (*def == "{}" || *def == CodeDefault("{}")) {
			p.Default = nil
		}
		return p
	}
	p.Required = !typexpr.IsOptional(typexpr.MustParse(p.Typ))
	return p
}

// Normalize re-derives Required and the catch-all typing after a field
// changed.
func (p Param) Normalize() Param {
	return NewParam(p.Name, p.Typ, p.Doc, p.Default)
}

// IsCatchAll reports whether a parameter collects arbitrary keyword
// arguments.
func IsCatchAll(name, typ string) bool {
	return strings.HasSuffix(name, "kwargs") || strings.HasPrefix(typ, "**")
}

// Type parses Typ; it is nil when Typ is empty.
func (p Param) Type() typexpr.Expr {
	return typexpr.MustParse(p.Typ)
}

// Params is an ordered parameter list with unique names.
type Params []Param

// Get returns the param named name.
func (ps Params) Get(name string) (Param, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Set replaces the param with the same name in place, or appends it.
func (ps Params) Set(p Param) Params {
	for i := range ps {
		if ps[i].Name == p.Name {
			out := append(Params(nil), ps...)
			out[i] = p
			return out
		}
	}
	return append(append(Params(nil), ps...), p)
}

// Names returns param names in order.
func (ps Params) Names() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

// Clone returns a deep copy.
func (r *IR) Clone() *IR {
	if r == nil {
		return nil
	}
	out := *r
	out.Params = make(Params, len(r.Params))
	for i, p := range r.Params {
		out.Params[i] = p.clone()
	}
	if r.Returns != nil {
		ret := r.Returns.clone()
		out.Returns = &ret
	}
	return &out
}

func (p Param) clone() Param {
	if p.Default != nil {
		d := *p.Default
		p.Default = &d
	}
	return p
}

// Ptr returns a pointer to s, for building defaults.
func Ptr(s string) *string {
	return &s
}

const codeFence = "```"

// CodeDefault wraps an expression default so it is not mistaken for a
// string literal.
func CodeDefault(expr string) string {
	return codeFence + expr + codeFence
}

// SplitCode reports whether def is an expression default and returns the
// expression.
func SplitCode(def string) (string, bool) {
	if len(def) >= 2*len(codeFence) && strings.HasPrefix(def, codeFence) && strings.HasSuffix(def, codeFence) {
		return def[len(codeFence) : len(def)-len(codeFence)], true
	}
	return def, false
}
