package locate

import (
	"fmt"
	"strings"
)

// Address is the name path of a node: enclosing class and function names,
// then the node's own name. A parameter's last segment is its name.
type Address []string

// ParseAddress splits a dotted address.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidAddress, s)
		}
	}
	return Address(parts), nil
}

// MustParseAddress is ParseAddress for literals known to be valid.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string {
	return strings.Join(a, ".")
}

// Equal reports whether a and b name the same path.
func (a Address) Equal(b Address) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Parent drops the last segment.
func (a Address) Parent() Address {
	if len(a) == 0 {
		return nil
	}
	return a[:len(a)-1]
}

// Child returns a new address with name appended.
func (a Address) Child(name string) Address {
	out := make(Address, len(a), len(a)+1)
	copy(out, a)
	return append(out, name)
}
