package compiler

import (
	"errors"
	"fmt"
)

var (
	// ErrArtifactNotFound is returned when a module has no def of the
	// requested name or kind.
	ErrArtifactNotFound = errors.New("artifact not found")
	// ErrAmbiguousArtifact is returned when no name was given and the
	// module holds more than one candidate.
	ErrAmbiguousArtifact = errors.New("ambiguous artifact")
)

// CompileError reports a tree that does not describe an interface. Field
// names the offending part, e.g. "MyClass.docstring" or
// "set_cli_args.add_argument[2]".
type CompileError struct {
	Field   string
	Message string
	Err     error
}

func (e *CompileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// IsArtifactNotFound reports whether err is or wraps ErrArtifactNotFound.
func IsArtifactNotFound(err error) bool {
	return errors.Is(err, ErrArtifactNotFound)
}

// IsAmbiguousArtifact reports whether err is or wraps ErrAmbiguousArtifact.
func IsAmbiguousArtifact(err error) bool {
	return errors.Is(err, ErrAmbiguousArtifact)
}
