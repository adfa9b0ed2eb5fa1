package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name      string
		sentinel  error
		status    int
		code      string
		retryable bool
	}{
		{"not found", ErrNotFound, http.StatusNotFound, ErrCodeNotFound, false},
		{"already exists", ErrAlreadyExists, http.StatusConflict, ErrCodeAlreadyExists, false},
		{"version conflict", ErrVersionConflict, http.StatusConflict, ErrCodeVersionConflict, true},
		{"validation", ErrValidation, http.StatusBadRequest, ErrCodeValidation, false},
		{"invalid operation", ErrInvalidOperation, http.StatusBadRequest, ErrCodeInvalidOperation, false},
		{"invalid account", ErrInvalidAccount, http.StatusBadRequest, ErrCodeInvalidAccount, false},
		{"invalid amount", ErrInvalidAmount, http.StatusBadRequest, ErrCodeInvalidAmount, false},
		{"store unavailable", ErrStoreUnavailable, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, true},
		{"database", ErrDatabase, http.StatusInternalServerError, ErrCodeDatabase, false},
		{"system", ErrSystem, http.StatusInternalServerError, ErrCodeSystemError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewError("something happened").
				WithHint("Something happened").
				Mark(tt.sentinel)

			assert.Equal(t, tt.status, HTTPStatusFromErr(err))
			assert.Equal(t, tt.code, CodeFromErr(err))
			assert.Equal(t, tt.retryable, IsRetryable(err))

			// marks survive further wrapping
			wrapped := fmt.Errorf("outer: %w", err)
			assert.Equal(t, tt.status, HTTPStatusFromErr(wrapped))
			assert.True(t, Is(wrapped, tt.sentinel))
		})
	}

	plain := fmt.Errorf("unmarked")
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromErr(plain))
	assert.Equal(t, ErrCodeSystemError, CodeFromErr(plain))
	assert.False(t, IsRetryable(plain))
}

func TestErrorBuilder(t *testing.T) {
	cause := fmt.Errorf("driver: connection reset")
	err := WithError(cause).
		WithHintf("Could not reach the %s store", "sqlite").
		Mark(ErrStoreUnavailable)

	assert.True(t, IsStoreUnavailable(err))
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "connection reset")
	assert.Contains(t, GetAllHints(err), "Could not reach the sqlite store")
}
