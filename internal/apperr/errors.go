// Package apperr defines the error taxonomy surfaced to API clients. Every
// fault that leaves a handler is converted to an *Error before it is rendered.
package apperr

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Machine-readable codes returned in the error envelope.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeInvalidBody           = "INVALID_BODY"
	CodeTokenMissing          = "TOKEN_MISSING"
	CodeTokenMalformed        = "TOKEN_MALFORMED"
	CodeTokenExpired          = "TOKEN_EXPIRED"
	CodeTokenInvalidSignature = "TOKEN_INVALID_SIGNATURE"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeEmailExists           = "EMAIL_EXISTS"
	CodeRateLimited           = "RATE_LIMIT_EXCEEDED"
	CodeNotFound              = "NOT_FOUND"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeInternal              = "INTERNAL_ERROR"
)

// LocalsKey is the Fiber locals key holding the *Error rendered for a request.
const LocalsKey = "app_error"

type Error struct {
	Status     int
	Code       string
	Message    string
	Field      string // json path of the offending input, validation only
	RetryAfter string // seconds, rate limiting only
	Err        error  // underlying cause, never sent to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(field, message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Field: field}
}

func InvalidBody(err error) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeInvalidBody, Message: "Invalid request body", Err: err}
}

func Unauthorized(code, message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Status: http.StatusConflict, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Message: message}
}

func TooManyRequests(retryAfter string) *Error {
	return &Error{
		Status:     http.StatusTooManyRequests,
		Code:       CodeRateLimited,
		Message:    "Too many requests, please try again later",
		RetryAfter: retryAfter,
	}
}

func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "Internal server error", Err: err}
}

// From normalises any error into an *Error. Fiber's own errors keep their
// status; anything unknown becomes an internal error.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch {
		case fiberErr.Code == fiber.StatusNotFound:
			return &Error{Status: fiberErr.Code, Code: CodeNotFound, Message: fiberErr.Message}
		case fiberErr.Code == fiber.StatusTooManyRequests:
			return TooManyRequests("")
		case fiberErr.Code < 500:
			return &Error{Status: fiberErr.Code, Code: codeForStatus(fiberErr.Code), Message: fiberErr.Message}
		}
	}

	return Internal(err)
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
		return CodeInvalidBody
	case fiber.StatusUnauthorized:
		return CodeTokenMissing
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return CodeNotFound
	default:
		return CodeValidation
	}
}
