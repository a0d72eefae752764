// Package ir provides the intermediate representation every translation
// passes through.
//
// An IR is built fresh for each translation and is not persisted. The only
// internal import is typexpr, used to derive Param.Required from a type.
//
// Key constraints:
//   - Params keep declaration order; names are unique
//   - Required is false only for Optional types and catch-alls; a default
//     does not change it
//   - Catch-all keyword parameters are always typed "dict" and optional
//   - All JSON tags use snake_case
package ir
