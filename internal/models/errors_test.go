package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineErrorCodes(t *testing.T) {
	assert.Equal(t, CodeNotFound, ErrNotFound("report").Code)
	assert.Equal(t, CodeConflict, ErrConflict("dup").Code)
	assert.Equal(t, CodeNotAuthorized, ErrNotAuthorized().Code)
	assert.Equal(t, CodeInvalidTransition, ErrInvalidTransition("closed", "resolved").Code)
	assert.Equal(t, CodeUpstreamDegraded, ErrUpstreamDegraded("scorer down").Code)
}

func TestInvalidTransitionCarriesState(t *testing.T) {
	err := ErrInvalidTransition("report already closed", "dismissed")
	assert.Equal(t, "dismissed", err.CurrentState)
	assert.Contains(t, err.Error(), "dismissed")
}

func TestAsEngineErrorUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", ErrConflict("already appealed"))

	ee, ok := AsEngineError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, ee.Code)

	_, ok = AsEngineError(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(ErrNotFound("case"), CodeNotFound))
	assert.False(t, IsCode(ErrNotFound("case"), CodeConflict))
	assert.False(t, IsCode(nil, CodeNotFound))
}
