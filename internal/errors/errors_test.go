package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NewNotFoundError("card", "c1"), ErrCodeNotFound, http.StatusNotFound},
		{"validation", NewValidationError("term", "cannot be empty"), ErrCodeValidation, http.StatusBadRequest},
		{"internal", NewInternalError(cause), ErrCodeInternal, http.StatusInternalServerError},
		{"bad request", NewBadRequestError("invalid json"), ErrCodeBadRequest, http.StatusBadRequest},
		{"invalid grade", NewInvalidGradeError(cause), ErrCodeInvalidGrade, http.StatusBadRequest},
		{"conflict", NewConflictError("taken"), ErrCodeConflict, http.StatusConflict},
		{"unavailable", NewUnavailableError("busy", cause), ErrCodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Contains(t, tt.err.Error(), tt.code)
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "card not found: c1", NewNotFoundError("card", "c1").Message)
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("saving: %w", NewInternalError(cause))

	assert.ErrorIs(t, err, cause)
	assert.Same(t, As(err).Err, cause)
}

func TestAs(t *testing.T) {
	appErr := NewConflictError("taken")
	assert.Same(t, appErr, As(fmt.Errorf("wrapped: %w", appErr)))

	plain := errors.New("plain")
	got := As(plain)
	assert.Equal(t, ErrCodeInternal, got.Code)
	assert.ErrorIs(t, got, plain)
}
