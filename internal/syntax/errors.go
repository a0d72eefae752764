package syntax

import (
	"errors"
	"fmt"
)

// ErrSyntax is the sentinel wrapped by every *Error.
var ErrSyntax = errors.New("syntax error")

// Error reports source that the scanner or parser cannot accept.
type Error struct {
	Pos Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *Error) Unwrap() error {
	return ErrSyntax
}

// IsSyntaxError reports whether err is (or wraps) a syntax error.
func IsSyntaxError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
