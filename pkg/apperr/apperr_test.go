package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(New(CodeNotFound, "missing")))
	assert.Equal(t, CodeStorage, CodeOf(errors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", New(CodeConflict, "busy"))
	assert.Equal(t, CodeConflict, CodeOf(wrapped))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, CodeStorage, "save failed")

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "save failed")
	assert.True(t, HasCode(err, CodeStorage))
	assert.False(t, HasCode(err, CodeNotFound))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "missing", MessageOf(New(CodeNotFound, "missing"), "fallback"))
	assert.Equal(t, "fallback", MessageOf(errors.New("plain"), "fallback"))
}
