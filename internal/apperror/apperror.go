// Package apperror defines the error kinds shared by the service and HTTP layers.
// Services return *AppError values; handlers map the wrapped kind to a status code.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrConflict        = errors.New("conflict")
)

type AppError struct {
	Err     error  // kind, one of the sentinels above
	Message string // human-readable message, safe to show to clients
	Field   string // optional: offending input field
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks standing for the action.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

func InvalidArgument(field, message string) *AppError {
	return &AppError{
		Err:     ErrInvalidArgument,
		Message: message,
		Field:   field,
	}
}

func InvalidState(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidState,
		Message: message,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}
