package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedRunIDGenerator(t *testing.T) {
	gen := NewFixedRunIDGenerator("run-42")
	for i := 0; i < 3; i++ {
		assert.Equal(t, "run-42", gen.Generate())
	}
	assert.Equal(t, DefaultRunID, NewFixedRunIDGenerator("").Generate())
}
