package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusError struct {
	Code int
}

func (e *statusError) Error() string { return "status error" }

func TestWrap(t *testing.T) {
	t.Run("Success_PreservesChain", func(t *testing.T) {
		wrapped := Wrap(ErrInvalidInput, "batch too large")
		require.Error(t, wrapped)
		assert.Equal(t, "batch too large: invalid input", wrapped.Error())
		assert.True(t, Is(wrapped, ErrInvalidInput))
	})

	t.Run("Nil_ReturnsNil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrUnavailable, "attempt %d of %d", 3, 3)
	assert.Equal(t, "attempt 3 of 3: service unavailable", wrapped.Error())
	assert.True(t, errors.Is(wrapped, ErrUnavailable))
	assert.NoError(t, Wrapf(nil, "attempt %d", 1))
}

func TestAs(t *testing.T) {
	wrapped := Wrap(&statusError{Code: 503}, "remote call")

	var target *statusError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, 503, target.Code)
}

func TestJoin(t *testing.T) {
	joined := Join(ErrNotFound, nil, ErrConflict)
	assert.True(t, Is(joined, ErrNotFound))
	assert.True(t, Is(joined, ErrConflict))
	assert.NoError(t, Join(nil, nil))
}

func TestStandardErrors(t *testing.T) {
	tests := []struct {
		err  error
		text string
	}{
		{ErrNotFound, "not found"},
		{ErrConflict, "conflict"},
		{ErrInvalidInput, "invalid input"},
		{ErrUnauthorized, "unauthorized"},
		{ErrForbidden, "forbidden"},
		{ErrUnavailable, "service unavailable"},
		{ErrUnsupported, "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.text, tt.err.Error())
			assert.False(t, Is(tt.err, New(tt.text)))
		})
	}
}
