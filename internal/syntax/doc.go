// Package syntax reads and writes the artifact grammar: the subset of
// Python needed to express classes with annotated fields, functions and
// methods with typed signatures, and argparse registration functions.
//
// The tree is a closed set of node types (see ast.go). Statements the
// grammar does not model, such as imports or control flow, parse as *Raw
// and print back verbatim, re-indented to their new nesting level.
//
// Printing has two layouts. Canonical output uses four-space indentation,
// blank lines around definitions and explodes signatures or calls longer
// than LineWidth one item per line. Compact output drops blank lines and
// separator spaces. Both parse back to equal trees:
//
//	mod, _ := syntax.Parse(src)
//	a, _ := syntax.Parse(syntax.Print(mod, syntax.PrintOptions{}))
//	b, _ := syntax.Parse(syntax.Print(mod, syntax.PrintOptions{Compact: true}))
//	// a and b are structurally equal
//
// Trailing comments on code lines are not preserved.
package syntax
