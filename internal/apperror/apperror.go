// Package apperror defines the HTTP-facing error taxonomy.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error with the HTTP status it maps to.
type Error struct {
	Status  int
	Title   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(status int, message string) *Error {
	return &Error{Status: status, Title: http.StatusText(status), Message: message}
}

func BadRequest(message string) *Error {
	return newError(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return newError(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return newError(http.StatusForbidden, message)
}

// NotFound creates a not found error for the named resource.
func NotFound(resource string) *Error {
	return newError(http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

func Conflict(message string) *Error {
	return newError(http.StatusConflict, message)
}

func UnsupportedMediaType(message string) *Error {
	return newError(http.StatusUnsupportedMediaType, message)
}

func TooManyRequests(message string) *Error {
	return newError(http.StatusTooManyRequests, message)
}

// Internal wraps err behind a generic message that is safe to show callers.
func Internal(err error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Title:   http.StatusText(http.StatusInternalServerError),
		Message: "An unexpected error occurred",
		Err:     err,
	}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
