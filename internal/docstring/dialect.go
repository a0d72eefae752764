package docstring

import (
	"fmt"
	"strings"
)

// Dialect names a documentation convention.
type Dialect string

const (
	DialectAuto     Dialect = ""
	DialectFieldTag Dialect = "rest"     // :param x: / :type x: tag lines
	DialectNumpy    Dialect = "numpydoc" // underlined section headers
	DialectGoogle   Dialect = "google"   // "Args:" style section headers
	DialectPlain    Dialect = "plain"    // no recognized sections
)

// ValidDialects maps accepted spellings to dialects.
var ValidDialects = map[string]Dialect{
	"":         DialectAuto,
	"auto":     DialectAuto,
	"rest":     DialectFieldTag,
	"field":    DialectFieldTag,
	"numpy":    DialectNumpy,
	"numpydoc": DialectNumpy,
	"google":   DialectGoogle,
}

// ParseDialect resolves a user-supplied dialect name.
func ParseDialect(s string) (Dialect, error) {
	d, ok := ValidDialects[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, s)
	}
	return d, nil
}

var fieldTagPrefixes = []string{":param", ":cvar", ":type", ":return", ":returns", ":rtype", ":arg "}

var numpyHeaders = map[string]bool{
	"Parameters": true, "Params": true, "Other Parameters": true,
	"Returns": true, "Yields": true, "Raises": true, "Attributes": true,
	"See Also": true, "Notes": true, "Examples": true, "References": true,
}

var googleHeaders = map[string]bool{
	"Args:": true, "Arguments:": true, "Parameters:": true, "Params:": true,
	"Returns:": true, "Return:": true, "Yields:": true, "Raises:": true,
	"Attributes:": true, "Note:": true, "Notes:": true, "Example:": true,
	"Examples:": true,
}

// Detect classifies cleaned docstring lines. Field tags win over numpydoc
// underlines, which win over google headers.
func Detect(lines []string) Dialect {
	for _, l := range lines {
		t := strings.TrimSpace(l)
		for _, p := range fieldTagPrefixes {
			if strings.HasPrefix(t, p) {
				return DialectFieldTag
			}
		}
	}
	for i := range lines {
		if isNumpyHeader(lines, i) {
			return DialectNumpy
		}
	}
	for _, l := range lines {
		if googleHeaders[strings.TrimSpace(l)] {
			return DialectGoogle
		}
	}
	return DialectPlain
}

func isNumpyHeader(lines []string, i int) bool {
	if i+1 >= len(lines) || !numpyHeaders[strings.TrimSpace(lines[i])] {
		return false
	}
	u := strings.TrimSpace(lines[i+1])
	return len(u) >= 3 && strings.Trim(u, "-") == ""
}

// cleanLines splits a docstring into lines, strips the common indentation
// of every line after the first, and drops leading and trailing blank lines.
func cleanLines(text string) []string {
	text = strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\t", "    ")
	lines := strings.Split(text, "\n")
	margin := -1
	for _, l := range lines[1:] {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := indentOf(l)
		if margin < 0 || n < margin {
			margin = n
		}
	}
	lines[0] = strings.TrimSpace(lines[0])
	for i := 1; i < len(lines); i++ {
		l := strings.TrimRight(lines[i], " ")
		if margin > 0 {
			l = l[min(margin, indentOf(l)):]
		}
		lines[i] = l
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func indentOf(l string) int {
	return len(l) - len(strings.TrimLeft(l, " "))
}
