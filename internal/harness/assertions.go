package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	File     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion failed: %s", e.Type)
	if e.File != "" {
		fmt.Fprintf(&buf, " on %s", e.File)
	}
	fmt.Fprintf(&buf, "\n  expected: %s\n  actual: %s", e.Expected, e.Actual)
	return buf.String()
}

// evaluate checks one assertion against the final state of a run.
func evaluate(r *Result, a Assertion) error {
	content, exists := r.Files[a.File]
	switch a.Type {
	case AssertFileContains:
		if !strings.Contains(content, a.Text) {
			return &AssertionError{Type: a.Type, File: a.File, Expected: quote(a.Text), Actual: describe(content, exists)}
		}
	case AssertFileNotContains:
		if strings.Contains(content, a.Text) {
			return &AssertionError{Type: a.Type, File: a.File, Expected: "no " + quote(a.Text), Actual: describe(content, exists)}
		}
	case AssertFileEquals:
		if !exists || content != a.Text {
			return &AssertionError{Type: a.Type, File: a.File, Expected: quote(a.Text), Actual: describe(content, exists)}
		}
	case AssertFileAbsent:
		if exists {
			return &AssertionError{Type: a.Type, File: a.File, Expected: "no file", Actual: describe(content, exists)}
		}
	case AssertWarningCount:
		if len(r.Warnings) != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d warnings", a.Count),
				Actual:   fmt.Sprintf("%d warnings %q", len(r.Warnings), r.Warnings),
			}
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

func describe(content string, exists bool) string {
	if !exists {
		return "file does not exist"
	}
	return quote(content)
}
