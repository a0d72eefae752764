package docstring

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocstring is wrapped by every *MalformedError.
	ErrMalformedDocstring = errors.New("malformed docstring")

	// ErrUnsupportedDialect is returned when emission is requested in a
	// dialect the emitter cannot produce.
	ErrUnsupportedDialect = errors.New("unsupported docstring dialect")
)

// MalformedError reports a line inside a recognized section that cannot be
// parsed. Line is 1-based within the cleaned docstring.
type MalformedError struct {
	Dialect Dialect
	Line    int
	Text    string
	Reason  string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s docstring line %d: %s: %q", e.Dialect, e.Line, e.Reason, e.Text)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformedDocstring
}

// IsMalformed reports whether err is (or wraps) a malformed docstring error.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedDocstring)
}

// IsUnsupportedDialect reports whether err is (or wraps) ErrUnsupportedDialect.
func IsUnsupportedDialect(err error) bool {
	return errors.Is(err, ErrUnsupportedDialect)
}
