package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without field",
			appErr: &AppError{
				Message: "something went wrong",
			},
			expected: "something went wrong",
		},
		{
			name: "with field",
			appErr: &AppError{
				Message: "must be positive",
				Field:   "count",
			},
			expected: "count: must be positive",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	t.Parallel()

	originalErr := errors.New("original error")
	appErr := &AppError{
		Err:     originalErr,
		Message: "wrapped error",
	}

	assert.Equal(t, originalErr, appErr.Unwrap())
	assert.True(t, errors.Is(appErr, originalErr))
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	err := NotFound("profile")

	assert.Equal(t, "profile not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBadRequest(t *testing.T) {
	t.Parallel()

	err := BadRequest("invalid input")

	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.True(t, errors.Is(err, ErrBadRequest))
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := ValidationError("seed", "must be a number")

	assert.Equal(t, "seed", err.Field)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestConfiguration(t *testing.T) {
	t.Parallel()

	err := Configuration("profiles.small.product_mix", "weights sum to 0.9")

	assert.Equal(t, "profiles.small.product_mix: weights sum to 0.9", err.Error())
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
}

func TestAssembly(t *testing.T) {
	t.Parallel()

	cause := errors.New("zip: write failed")
	err := Assembly(cause)

	assert.True(t, errors.Is(err, ErrAssembly))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrConfiguration))
	assert.Equal(t, "failed to assemble loan tape", GetMessage(err))
}

func TestGetStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", NotFound("tape"), http.StatusNotFound},
		{"wrapped app error", fmt.Errorf("loading: %w", BadRequest("x")), http.StatusBadRequest},
		{"sentinel not found", fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound},
		{"sentinel validation", ErrValidation, http.StatusBadRequest},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GetStatusCode(tt.err))
		})
	}
}

func TestGetMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "an internal error occurred", GetMessage(Internal(errors.New("db"))))
	assert.Equal(t, "tape not found", GetMessage(NotFound("tape")))
	assert.Equal(t, "plain", GetMessage(errors.New("plain")))
}
