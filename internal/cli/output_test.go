package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/doctrans/internal/compiler"
	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/engine"
	"github.com/roach88/doctrans/internal/locate"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.SuccessRun("run-1", map[string]string{"written": "cli.py"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-1", resp.RunID)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(CodeSyntax, "parse cli.py: unexpected token", map[string]int{"line": 3})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeSyntax, resp.Error.Code)
	assert.Equal(t, "parse cli.py: unexpected token", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_YAML(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "yaml",
		Writer: buf,
	}

	require.NoError(t, formatter.Success([]string{"a.py", "b.py"}))

	var resp struct {
		Status string   `yaml:"status"`
		Data   []string `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"a.py", "b.py"}, resp.Data)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	require.NoError(t, formatter.Success("nothing to write"))
	assert.Contains(t, buf.String(), "nothing to write")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	err := formatter.Error(CodeAddressNotFound, "no node at MyClass.x", map[string]string{"file": "mod.py"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [ADDRESS_NOT_FOUND]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	cause := errors.WithHint(errors.New("journal is locked"), "close the other doctrans process")
	err := formatter.Fail(ExitCommandError, cause)

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Error [ERROR]: journal is locked\n  hint: close the other doctrans process\n", buf.String())
}

func TestOutputFormatter_FailJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Fail(ExitFailure, engine.NewInsufficientArtifactsError("one artifact given", "config.py"))
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(engine.ErrCodeInsufficientArtifacts), resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Hints)
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			errBuf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    buf,
				ErrWriter: errBuf,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("Processing %s", "cli.py")

			assert.Empty(t, buf.String(), "structured output stays parseable")
			if tt.wantLog {
				assert.Contains(t, errBuf.String(), "Processing cli.py")
			} else {
				assert.Empty(t, errBuf.String())
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sync error", engine.NewInsufficientArtifactsError("x", "a.py"), string(engine.ErrCodeInsufficientArtifacts)},
		{"artifact not found", fmt.Errorf("%w: no class in module", compiler.ErrArtifactNotFound), CodeArtifactNotFound},
		{"ambiguous", errors.Wrap(fmt.Errorf("%w: 2 functions", compiler.ErrAmbiguousArtifact), "read"), CodeAmbiguousArtifact},
		{"malformed docstring", mustParseErr(t, ":param a"), CodeMalformedDocstring},
		{"unsupported dialect", mustDialectErr(t), CodeUnsupportedDialect},
		{"bad address", mustAddressErr(t), CodeGeneric},
		{"other", errors.New("disk full"), CodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func mustParseErr(t *testing.T, text string) error {
	t.Helper()
	_, err := docstring.Parse(text, docstring.ParseOptions{})
	require.Error(t, err)
	return err
}

func mustDialectErr(t *testing.T) error {
	t.Helper()
	_, err := docstring.ParseDialect("epytext")
	require.Error(t, err)
	return err
}

func mustAddressErr(t *testing.T) error {
	t.Helper()
	_, err := locate.ParseAddress("a..b")
	require.Error(t, err)
	return err
}

func TestExitError(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	e := NewExitError(ExitCommandError, "bad flags")
	assert.Equal(t, "bad flags", e.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(errors.Wrap(e, "outer")))

	w := WrapExitError(ExitFailure, "SYNTAX_ERROR", errors.New("unexpected token"))
	assert.Equal(t, "SYNTAX_ERROR: unexpected token", w.Error())
}
