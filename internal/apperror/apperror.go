// Package apperror defines the application's error taxonomy.
//
// The service layer returns these domain errors; the handler layer maps
// them to HTTP responses (404 page, re-rendered form, and so on) with
// errors.Is / errors.As. Neither layer ever inspects error strings.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

// AppError carries a sentinel (for errors.Is) plus a human-readable
// message, and for validation errors the offending form field so the
// handler can re-render the form with the message attached to it.
type AppError struct {
	Err     error  // sentinel: ErrNotFound, ErrValidation, ...
	Message string // human-readable, safe to show the user
	Field   string // optional: form field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing entity lookup (post, user, group, follow edge).
// Handlers map it to the generic 404 page.
func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, key),
	}
}

// ValidationFailed reports user input that a mutation refused (the classic
// case here: an empty post or comment text).
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation, e.g. signing up with a taken
// username.
func Conflict(resource, key string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists: %s", resource, key),
	}
}

// Forbidden reports an operation the caller is not allowed to perform.
// Note that a non-author *editing* a post is NOT a Forbidden error — that
// path deliberately returns a tagged Denied outcome and redirects silently
// (see service.EditOutcome). Forbidden is for operations with no such
// soft-fail contract, like deleting someone else's post.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
