package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/doctrans/internal/compiler"
	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/engine"
	"github.com/roach88/doctrans/internal/locate"
	"github.com/roach88/doctrans/internal/syntax"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Sync or scenario failure
	ExitCommandError = 2 // Command error (bad flags, unreadable config, etc.)
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles text, JSON, and YAML output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard structured response for CLI output.
type CLIResponse struct {
	Status string    `json:"status" yaml:"status"`                   // "ok" or "error"
	RunID  string    `json:"run_id,omitempty" yaml:"run_id,omitempty"` // sync run correlation
	Data   any       `json:"data,omitempty" yaml:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty" yaml:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string   `json:"code" yaml:"code"`
	Message string   `json:"message" yaml:"message"`
	Hints   []string `json:"hints,omitempty" yaml:"hints,omitempty"`
	Details any      `json:"details,omitempty" yaml:"details,omitempty"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	return f.SuccessRun("", data)
}

// SuccessRun is Success for output that belongs to a sync run.
func (f *OutputFormatter) SuccessRun(runID string, data any) error {
	if f.structured() {
		return f.encode(CLIResponse{Status: "ok", RunID: runID, Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	return f.emitError(&CLIError{Code: code, Message: message, Details: details})
}

// Fail reports err with its code and hints, and returns the ExitError the
// command should return.
func (f *OutputFormatter) Fail(exitCode int, err error) error {
	cliErr := &CLIError{
		Code:    ErrorCode(err),
		Message: err.Error(),
		Hints:   errors.GetAllHints(err),
	}
	if perr := f.emitError(cliErr); perr != nil {
		return perr
	}
	return WrapExitError(exitCode, cliErr.Code, err)
}

func (f *OutputFormatter) emitError(e *CLIError) error {
	if f.structured() {
		return f.encode(CLIResponse{Status: "error", Error: e})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", e.Code, e.Message)
	for _, h := range e.Hints {
		fmt.Fprintf(f.Writer, "  hint: %s\n", h)
	}
	if f.Verbose && e.Details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", e.Details)
	}
	return nil
}

func (f *OutputFormatter) structured() bool {
	return f.Format == FormatJSON || f.Format == FormatYAML
}

func (f *OutputFormatter) encode(v any) error {
	if f.Format == FormatYAML {
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// With structured formats, verbose logs go to ErrWriter to keep the output parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Error codes for failures that are not sync errors.
const (
	CodeArtifactNotFound   = "ARTIFACT_NOT_FOUND"
	CodeAmbiguousArtifact  = "AMBIGUOUS_ARTIFACT"
	CodeAddressNotFound    = "ADDRESS_NOT_FOUND"
	CodeUnsupportedRewrite = "UNSUPPORTED_REWRITE_TARGET"
	CodeMalformedDocstring = "MALFORMED_DOCSTRING"
	CodeUnsupportedDialect = "UNSUPPORTED_DIALECT"
	CodeSyntax             = "SYNTAX_ERROR"
	CodeGeneric            = "ERROR"
)

// ErrorCode classifies err for CLI output.
func ErrorCode(err error) string {
	var se *engine.SyncError
	switch {
	case errors.As(err, &se):
		return string(se.Code)
	case compiler.IsArtifactNotFound(err):
		return CodeArtifactNotFound
	case compiler.IsAmbiguousArtifact(err):
		return CodeAmbiguousArtifact
	case locate.IsAddressNotFound(err):
		return CodeAddressNotFound
	case locate.IsUnsupportedRewriteTarget(err):
		return CodeUnsupportedRewrite
	case docstring.IsMalformed(err):
		return CodeMalformedDocstring
	case docstring.IsUnsupportedDialect(err):
		return CodeUnsupportedDialect
	case syntax.IsSyntaxError(err):
		return CodeSyntax
	}
	return CodeGeneric
}
