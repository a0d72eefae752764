// Package docstring converts between documentation text and IR.
//
// Parse accepts three dialects and detects which one is in use:
//
//	field tag   :param name: doc / :type name: T / :return: / :rtype:
//	numpydoc    underlined "Parameters" and "Returns" sections
//	google      "Args:" and "Returns:" sections with "name (T): doc" entries
//
// Emit only writes the field tag dialect. Defaults are lifted out of prose
// by ExtractDefault, a textual heuristic that looks for phrases such as
// "Defaults to" and takes the token after it.
package docstring
