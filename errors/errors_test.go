package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RetryableDetection(t *testing.T) {
	assert.True(t, New(ErrCodeServiceUnavailable, "down", http.StatusServiceUnavailable).Retryable)
	assert.False(t, New(ErrCodeInternal, "boom", http.StatusInternalServerError).Retryable)
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("server.port", "must be between 0 and 65535")
	assert.Equal(t, ErrCodeInvalidInput, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Equal(t, "server.port", err.Details["field"])
	assert.Equal(t, "INVALID_INPUT: Invalid input for server.port: must be between 0 and 65535", err.Error())
}

func TestInvalidInput_NoField(t *testing.T) {
	assert.Nil(t, InvalidInput("", "bad").Details)
}

func TestPayloadTooLarge(t *testing.T) {
	err := PayloadTooLarge(1024)
	assert.Equal(t, http.StatusRequestEntityTooLarge, err.HTTPStatus)
	assert.Equal(t, int64(1024), err.Details["limit_bytes"])
}

func TestInternal_UnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("nil map write")
	err := Internal(cause)

	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "cause: nil map write")
}

func TestAsAppError(t *testing.T) {
	orig := ServiceUnavailable("frontend")
	wrapped := fmt.Errorf("ready check: %w", orig)
	assert.Same(t, orig, AsAppError(wrapped))

	plain := AsAppError(fmt.Errorf("plain"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
}

func TestToResponse_JSONShape(t *testing.T) {
	body, err := json.Marshal(Internal(fmt.Errorf("hidden")).ToResponse())
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "INTERNAL_ERROR", decoded["error"]["code"])
	assert.Equal(t, false, decoded["error"]["retryable"])
	assert.NotContains(t, string(body), "hidden")
}
