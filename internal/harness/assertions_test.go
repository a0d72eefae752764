package harness

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	r := &Result{
		Files:    map[string]string{"a.py": "x = 1\n"},
		Warnings: []string{"written artifact differs from truth"},
	}

	tests := []struct {
		name string
		a    Assertion
		pass bool
	}{
		{"contains", Assertion{Type: AssertFileContains, File: "a.py", Text: "x = 1"}, true},
		{"contains missing text", Assertion{Type: AssertFileContains, File: "a.py", Text: "y"}, false},
		{"contains missing file", Assertion{Type: AssertFileContains, File: "b.py", Text: "x"}, false},
		{"not contains", Assertion{Type: AssertFileNotContains, File: "a.py", Text: "y"}, true},
		{"not contains present", Assertion{Type: AssertFileNotContains, File: "a.py", Text: "x"}, false},
		{"equals", Assertion{Type: AssertFileEquals, File: "a.py", Text: "x = 1\n"}, true},
		{"equals differs", Assertion{Type: AssertFileEquals, File: "a.py", Text: "x = 1"}, false},
		{"equals empty missing file", Assertion{Type: AssertFileEquals, File: "b.py"}, false},
		{"absent", Assertion{Type: AssertFileAbsent, File: "b.py"}, true},
		{"absent present", Assertion{Type: AssertFileAbsent, File: "a.py"}, false},
		{"warning count", Assertion{Type: AssertWarningCount, Count: 1}, true},
		{"warning count wrong", Assertion{Type: AssertWarningCount, Count: 0}, false},
		{"unknown", Assertion{Type: "final_state"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := evaluate(r, tt.a)
			if tt.pass {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAssertionError(t *testing.T) {
	r := &Result{Files: map[string]string{}}
	err := evaluate(r, Assertion{Type: AssertFileContains, File: "cli.py", Text: "--epochs"})

	var ae *AssertionError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "assertion failed: file_contains on cli.py\n"+
		"  expected: \"--epochs\"\n"+
		"  actual: file does not exist", ae.Error())
}
