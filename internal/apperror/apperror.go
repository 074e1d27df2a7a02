// Package apperror defines the operational error taxonomy for the API.
// Every user-facing failure is an *Error carrying a status code and a safe
// message; anything else is coerced to a generic 500 at the boundary.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a classified, operational failure.
type Error struct {
	Status  int    // HTTP status the boundary layer should emit
	Message string // safe, user-facing message
	Err     error  // wrapped cause, never shown to callers
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates a 400 error for malformed input.
func Validation(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Unauthorized creates a 401 error for authentication failures.
func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden creates a 403 error for ownership mismatches.
// The message never discloses whether the resource exists.
func Forbidden() *Error {
	return &Error{Status: http.StatusForbidden, Message: "Access denied"}
}

// NotFound creates a 404 error for an absent resource.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Conflict creates a 409 error for uniqueness violations.
func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// Internal wraps an unexpected failure as a 500 with a generic message.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Internal Server Error", Err: err}
}

// From classifies err: an *Error in the chain passes through unchanged,
// anything else becomes Internal. Never returns nil for a non-nil err.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsOperational reports whether err is a classified operational error,
// as opposed to an unexpected internal failure.
func IsOperational(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Status != http.StatusInternalServerError
}
