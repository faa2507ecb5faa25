package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	cause := errors.New("disk on fire")

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"app error passes through", Validation("age", "age is required"), http.StatusBadRequest, CodeValidation},
		{"wrapped app error", fmt.Errorf("ctx: %w", Conflict(CodeEmailExists, "taken")), http.StatusConflict, CodeEmailExists},
		{"fiber not found", fiber.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"fiber method not allowed", fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, CodeNotFound},
		{"fiber unprocessable", fiber.ErrUnprocessableEntity, http.StatusUnprocessableEntity, CodeInvalidBody},
		{"fiber too many requests", fiber.ErrTooManyRequests, http.StatusTooManyRequests, CodeRateLimited},
		{"fiber 5xx hidden", fiber.ErrServiceUnavailable, http.StatusInternalServerError, CodeInternal},
		{"unknown error", cause, http.StatusInternalServerError, CodeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := From(tc.err)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.code, got.Code)
		})
	}
}

func TestInternal_KeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("db gone")
	err := Internal(cause)

	assert.Equal(t, "Internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "db gone")
}

func TestTooManyRequests(t *testing.T) {
	err := TooManyRequests("42")
	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.Equal(t, "42", err.RetryAfter)
}
