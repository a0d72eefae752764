package docstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDefault(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantDoc string
		want    string // "" with noDef means no default
		noDef   bool
	}{
		{"bare word", "name of dataset. Defaults to mnist", "name of dataset.", "mnist", false},
		{"trailing period", "Defaults to 5.", "", "5", false},
		{"quoted", `the path. Defaults to "a b".`, "the path.", "a b", false},
		{"empty quotes", `Defaults to ""`, "", "", false},
		{"backticks", "Defaults to `np`", "", "np", false},
		{"fenced code", "Defaults to ```np.empty(0)``` always", "always", "```np.empty(0)```", false},
		{"bracketed", "Defaults to [1, 2], then more", "then more", "```[1, 2]```", false},
		{"default colon", "the count, default: 3", "the count", "3", false},
		{"sentence end kept", "Foo, defaults to 5.", "Foo.", "5", false},
		{"sentence end kept after quotes", `the path, defaults to "a b".`, "the path.", "a b", false},
		{"sentence end kept mid doc", "Foo, defaults to 5. More text.", "Foo. More text.", "5", false},
		{"question stays", "Why? Defaults to 5.", "Why?", "5", false},
		{"earliest phrase wins", "Defaults to a. Default: b", "Default: b", "a", false},
		{"phrase with nothing after", "Defaults to", "Defaults to", "", true},
		{"no phrase", "just words", "just words", "", true},
		{"unterminated quote", `Defaults to "oops`, `Defaults to "oops`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, def := ExtractDefault(tt.doc, nil, false)
			assert.Equal(t, tt.wantDoc, doc)
			if tt.noDef {
				assert.Nil(t, def)
				return
			}
			if assert.NotNil(t, def) {
				assert.Equal(t, tt.want, *def)
			}
		})
	}
}

func TestExtractDefaultKeepsPhrase(t *testing.T) {
	doc, def := ExtractDefault("name. Defaults to mnist", nil, true)
	assert.Equal(t, "name. Defaults to mnist", doc)
	if assert.NotNil(t, def) {
		assert.Equal(t, "mnist", *def)
	}
}

func TestInferType(t *testing.T) {
	tests := map[string]string{
		"5":            "int",
		"-3":           "int",
		"1_000":        "int",
		"0.5":          "float",
		"1e-3":         "float",
		"True":         "bool",
		"False":        "bool",
		"inf":          "str",
		"mnist":        "str",
		"```np.nan```": "",
	}
	for in, want := range tests {
		assert.Equal(t, want, InferType(in), in)
	}
}

func TestAppendDefault(t *testing.T) {
	assert.Equal(t, "name. Defaults to mnist", AppendDefault("name.", strPtr("mnist"), nil))
	assert.Equal(t, "name. Defaults to mnist", AppendDefault("name", strPtr("mnist"), nil))
	assert.Equal(t, "Defaults to 5", AppendDefault("", strPtr("5"), nil))
	assert.Equal(t, `Defaults to "a b"`, AppendDefault("", strPtr("a b"), nil))
	assert.Equal(t, `Defaults to ""`, AppendDefault("", strPtr(""), nil))
	assert.Equal(t, "x. Defaults to 1", AppendDefault("x. Defaults to 1", strPtr("2"), nil), "existing phrase wins")
	assert.Equal(t, "x.", AppendDefault("x.", nil, nil))
}

func strPtr(s string) *string {
	return &s
}
