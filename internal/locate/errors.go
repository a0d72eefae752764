package locate

import "errors"

var (
	// ErrAddressNotFound is returned when no node has the address.
	ErrAddressNotFound = errors.New("address not found")
	// ErrUnsupportedRewriteTarget is returned when the addressed node cannot
	// take the replacement.
	ErrUnsupportedRewriteTarget = errors.New("unsupported rewrite target")
	// ErrInvalidAddress is returned by ParseAddress for empty segments.
	ErrInvalidAddress = errors.New("invalid address")
)

// IsAddressNotFound reports whether err is or wraps ErrAddressNotFound.
func IsAddressNotFound(err error) bool {
	return errors.Is(err, ErrAddressNotFound)
}

// IsUnsupportedRewriteTarget reports whether err is or wraps
// ErrUnsupportedRewriteTarget.
func IsUnsupportedRewriteTarget(err error) bool {
	return errors.Is(err, ErrUnsupportedRewriteTarget)
}
