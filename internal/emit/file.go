package emit

import (
	"github.com/roach88/doctrans/internal/store"
	"github.com/roach88/doctrans/internal/syntax"
)

// FileOptions control how a module is written.
type FileOptions struct {
	// SkipFormatting writes the compact layout instead of the canonical one.
	// Both parse back to the same tree.
	SkipFormatting bool
	// LegacyLiterals renders strings single-quoted.
	LegacyLiterals bool
}

// PrintOptions maps file options onto the printer.
func (o FileOptions) PrintOptions() syntax.PrintOptions {
	return syntax.PrintOptions{Compact: o.SkipFormatting, LegacyLiterals: o.LegacyLiterals}
}

// Render returns the source text of mod.
func Render(mod *syntax.Module, opts FileOptions) []byte {
	return []byte(syntax.Print(mod, opts.PrintOptions()))
}

// File renders mod and writes it to path.
func File(st store.Store, path string, mod *syntax.Module, opts FileOptions) error {
	return st.Write(path, Render(mod, opts))
}

// Module wraps statements into a module.
func Module(stmts ...syntax.Stmt) *syntax.Module {
	return &syntax.Module{Body: stmts}
}
