package xerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	err := Wrap(ErrRemote, "failed to add item")
	assert.EqualError(t, err, "failed to add item: the store could not complete the request")
	assert.True(t, Is(err, ErrRemote))
	assert.False(t, Is(err, ErrUnauthenticated))
}

func TestMessageOrDefault(t *testing.T) {
	assert.Equal(t, "fallback", MessageOrDefault(nil, "fallback"))
	assert.Equal(t, "boom", MessageOrDefault(errors.New("boom"), "fallback"))
}
