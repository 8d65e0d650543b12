package errors

import (
	"errors"
	"net/http"
)

// Domain errors raised by the scheduling and appointment services. Handlers
// match them with errors.Is and translate to HTTP via StatusFor.
var (
	ErrNotFound          = errors.New("record not found")
	ErrSlotFull          = errors.New("schedule slot is full")
	ErrForbidden         = errors.New("operation not allowed for this user")
	ErrInvalidTransition = errors.New("invalid appointment status transition")
	ErrAuthRequired      = errors.New("authentication required")
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// FromError wraps a domain error in an HTTPError for the transport layer.
// Internal errors get a generic message so repository details never leak to
// the client.
func FromError(err error) *HTTPError {
	code := StatusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "Internal server error"
	}
	return NewHTTPError(code, message)
}

// StatusFor maps a domain error to its HTTP status code. Unknown errors map
// to 500 so repository faults never leak internals to the client.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSlotFull):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrAuthRequired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
