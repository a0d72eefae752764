package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/doctrans/internal/syntax"
)

// FindClass returns the top-level class called name. With an empty name
// the module must hold exactly one class; a name given twice is ambiguous.
func FindClass(mod *syntax.Module, name string) (*syntax.ClassDef, error) {
	var found []*syntax.ClassDef
	for _, s := range mod.Body {
		if c, ok := s.(*syntax.ClassDef); ok && (name == "" || c.Name == name) {
			found = append(found, c)
		}
	}
	return pick(found, "class", name)
}

// FindFunction returns the function called name. A dotted name
// "Class.method" selects a method. With an empty name the module must hold
// exactly one top-level function. Like classes, a name defined more than
// once is ambiguous.
func FindFunction(mod *syntax.Module, name string) (*syntax.FuncDef, error) {
	body := mod.Body
	if owner, method, ok := strings.Cut(name, "."); ok {
		cls, err := FindClass(mod, owner)
		if err != nil {
			return nil, err
		}
		body, name = cls.Body, method
	}
	var found []*syntax.FuncDef
	for _, s := range body {
		if fn, ok := s.(*syntax.FuncDef); ok && (name == "" || fn.Name == name) {
			found = append(found, fn)
		}
	}
	return pick(found, "function", name)
}

func pick[T any](found []T, kind, name string) (T, error) {
	var zero T
	switch {
	case len(found) == 1:
		return found[0], nil
	case len(found) > 1 && name != "":
		return zero, fmt.Errorf("%w: %s %q is defined %d times", ErrAmbiguousArtifact, kind, name, len(found))
	case len(found) > 1:
		return zero, fmt.Errorf("%w: %d %ss and no name given", ErrAmbiguousArtifact, len(found), kind)
	case name == "":
		return zero, fmt.Errorf("%w: no %s in module", ErrArtifactNotFound, kind)
	}
	return zero, fmt.Errorf("%w: %s %q", ErrArtifactNotFound, kind, name)
}
