package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/doctrans/internal/testutil"
)

const argparseModule = `def set_cli_args(argument_parser):
    argument_parser.add_argument("--epochs", type=int, help="passes over the data", default=10)
    return argument_parser
`

const twoDefs = `def train(epochs: int = 10):
    pass


def evaluate(split: str):
    pass
`

func parseJSON(t *testing.T, args ...string) ParseResult {
	t.Helper()
	stdout, _, err := execute(t, append([]string{"parse", "--format", "json"}, args...)...)
	require.NoError(t, err)
	var resp struct {
		Data ParseResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	return resp.Data
}

func TestParse_AutoKind(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"config.py": configClass,
		"cli.py":    argparseModule,
		"train.py":  twoDefs,
	})

	tests := []struct {
		file, name string
		kind       string
		param      string
	}{
		{"config.py", "", KindClass, "dataset_name"},
		{"cli.py", "", KindArgparse, "epochs"},
		{"train.py", "evaluate", KindFunction, "split"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			args := []string{filepath.Join(dir, tt.file)}
			if tt.name != "" {
				args = append(args, "--name", tt.name)
			}
			res := parseJSON(t, args...)
			assert.Equal(t, tt.kind, res.Kind)
			assert.Len(t, res.Hash, 64)
			require.NotNil(t, res.IR)
			_, ok := res.IR.Params.Get(tt.param)
			assert.True(t, ok, "param %s", tt.param)
		})
	}
}

func TestParse_Argparse(t *testing.T) {
	dir := writeTree(t, map[string]string{"cli.py": argparseModule})
	res := parseJSON(t, filepath.Join(dir, "cli.py"))

	epochs, ok := res.IR.Params.Get("epochs")
	require.True(t, ok)
	assert.Equal(t, "passes over the data", epochs.Doc)
	require.NotNil(t, epochs.Default)
	assert.Equal(t, "10", *epochs.Default)
}

func TestParse_Docstring(t *testing.T) {
	dir := writeTree(t, map[string]string{"doc.txt": testutil.FieldTagDocstring})
	res := parseJSON(t, filepath.Join(dir, "doc.txt"), "--kind", "docstring")

	assert.Equal(t, KindDocstring, res.Kind)
	name, ok := res.IR.Params.Get("dataset_name")
	require.True(t, ok)
	require.NotNil(t, name.Default)
	assert.Equal(t, "mnist", *name.Default)
}

func TestParse_Text(t *testing.T) {
	dir := writeTree(t, map[string]string{"config.py": configClass})
	stdout, _, err := execute(t, "parse", filepath.Join(dir, "config.py"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "class Config")
	assert.Contains(t, stdout, "PARAM")
	assert.Regexp(t, `dataset_name\s+str\s+true\s+-`, stdout)
	assert.Contains(t, stdout, "hash ")
}

func TestParse_Errors(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"train.py":  twoDefs,
		"broken.py": "def f(:\n",
	})

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"ambiguous", []string{filepath.Join(dir, "train.py")}, CodeAmbiguousArtifact},
		{"missing def", []string{filepath.Join(dir, "train.py"), "--name", "predict"}, CodeArtifactNotFound},
		{"syntax", []string{filepath.Join(dir, "broken.py")}, CodeSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, append([]string{"parse"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, stdout, "Error ["+tt.code+"]")
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
