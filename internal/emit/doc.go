// Package emit turns IR into syntax trees: a class with one field per
// param, a function signature, and an argparse registration function.
// File writes a tree to a store, formatted or compact.
//
// All emitters render defaults through Value, which applies the quoting
// policy of the param's type: a str-like type gets a string literal, code
// defaults are parsed back into expressions.
package emit
