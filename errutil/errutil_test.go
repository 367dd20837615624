package errutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type wrapped struct {
	message string
	cause   error
}

func (w *wrapped) Error() string { return w.message }
func (w *wrapped) Unwrap() error { return w.cause }

func TestFlatten(t *testing.T) {
	// nil error
	assert.Empty(t, Flatten(nil))

	// error with no cause
	inner := errors.New("JSON element is not an array")
	chain := Flatten(inner)
	if assert.Len(t, chain, 1) {
		assert.Equal(t, inner, chain[0])
	}

	// two nesting levels: innermost cause first
	outer := &wrapped{message: "Unable to parse config file", cause: inner}
	chain = Flatten(outer)
	if assert.Len(t, chain, 2) {
		assert.Equal(t, inner, chain[0])
		assert.Equal(t, outer, chain[1])
	}
}

func TestMessages(t *testing.T) {
	// three nesting levels
	inner := errors.New("JSON element is not an array")
	middle := &wrapped{message: "Unable to parse config file", cause: inner}
	outer := &wrapped{message: "Unable to configure regulators", cause: middle}

	messages := Messages(outer)
	assert.Equal(t, []string{
		"JSON element is not an array",
		"Unable to parse config file",
		"Unable to configure regulators",
	}, messages)

	// fmt wrapped errors participate through errors.Unwrap
	err := fmt.Errorf("outer: %w", errors.New("inner"))
	messages = Messages(err)
	if assert.Len(t, messages, 2) {
		assert.Equal(t, "inner", messages[0])
		assert.Equal(t, "outer: inner", messages[1])
	}
}
