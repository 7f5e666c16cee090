// internal/pkg/apperror/apperror.go
package apperror

import (
	"errors"
	"net/http"
)

// Error kinds shared by all domain services
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrPersistence  = errors.New("persistence failure")
)

// Error carries a client-safe message tagged with one of the kinds above
type Error struct {
	Kind    error
	Message string
}

// New creates a tagged error
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Validation is shorthand for New(ErrValidation, message)
func Validation(message string) *Error { return New(ErrValidation, message) }

// NotFound is shorthand for New(ErrNotFound, message)
func NotFound(message string) *Error { return New(ErrNotFound, message) }

// Forbidden is shorthand for New(ErrForbidden, message)
func Forbidden(message string) *Error { return New(ErrForbidden, message) }

// Unauthorized is shorthand for New(ErrUnauthorized, message)
func Unauthorized(message string) *Error { return New(ErrUnauthorized, message) }

// InvalidState is shorthand for New(ErrInvalidState, message)
func InvalidState(message string) *Error { return New(ErrInvalidState, message) }

// Persistence is shorthand for New(ErrPersistence, message). The message must
// not contain driver details.
func Persistence(message string) *Error { return New(ErrPersistence, message) }

// StatusCode maps an error to its HTTP status
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to clients
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
