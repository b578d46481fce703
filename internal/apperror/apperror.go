package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the five failure categories the API can report.
// Services wrap these (via the constructors below); handlers map them to
// HTTP status codes with errors.Is. The chain looks like:
//
//	service returns: fmt.Errorf("deleting bookmark: %w", apperror.NotFound(...))
//	which wraps:     AppError{Err: ErrNotFound, Message: "..."}
//	errors.Is walks: outer error → AppError → ErrNotFound ✓
var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// AppError is the typed error returned by services and repositories.
// It pairs one of the sentinel categories above with a human-readable
// message that is safe to show to API clients.
type AppError struct {
	Err     error  // category sentinel (ErrNotFound, ErrValidation, ...)
	Message string // human-readable error message
	Field   string // optional: field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed returns an AppError for malformed or missing input.
// HTTP handlers map this to 400 Bad Request.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthenticated returns an AppError for a missing, invalid, or expired
// credential. HTTP handlers map this to 401 Unauthorized.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// NotFound returns an AppError for a resource that does not exist.
// HTTP handlers map this to 404 Not Found. The id is usually an int64
// primary key, but lookups by other unique keys (e.g. email) pass those
// through unchanged.
func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
	}
}

// Conflict returns an AppError for a unique-constraint violation
// (e.g. a duplicate email on sign-up).
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}
