// Package compiler reads syntax trees back into IR.
//
// There is one adapter per representation:
//
//   - FromClass reads a class whose docstring documents fields with :cvar
//     and whose body declares them;
//   - FromFunction reads a function or method signature and its docstring;
//   - FromArgparse reads a function that registers options on an argument
//     parser.
//
// Each adapter merges what the docstring says with what the tree says.
// The tree wins for types and defaults, the docstring for prose.
//
// FindClass and FindFunction pick the def an adapter reads from a module.
package compiler
