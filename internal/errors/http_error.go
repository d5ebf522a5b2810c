package errors

import (
	"errors"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(status int, code, message string) *HTTPError {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// Helpers for common errors
var (
	ErrBadRequest   = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, "BAD_REQUEST", msg) }
	ErrUnauthorized = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, "UNAUTHORIZED", msg) }
)

// FromError maps a domain error onto the HTTP status and code returned to clients.
func FromError(err error) *HTTPError {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, ErrNoCoordinates):
		return NewHTTPError(http.StatusBadRequest, "NO_COORDINATES", err.Error())
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, "FORBIDDEN", "forbidden")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, "CONFLICT", err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
