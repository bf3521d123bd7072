// Package apperr defines the error kinds the validation service surfaces.
//
// Callers branch on the kind with errors.Is and show the wrapped message;
// handlers map kinds to HTTP status codes. Wrap a kind with fmt.Errorf:
//
//	fmt.Errorf("template %q: %w", id, apperr.ErrNotFound)
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: template, request, or validator slot does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState: the operation is not legal in the current state
	// (inactive template, closed request, already-decided slot).
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation: a required input field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrConflict: an optimistic write lost to a concurrent writer and
	// retries were exhausted.
	ErrConflict = errors.New("write conflict")
)

// NotFound wraps ErrNotFound with a formatted message.
func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

// InvalidState wraps ErrInvalidState with a formatted message.
func InvalidState(format string, args ...any) error {
	return wrap(ErrInvalidState, format, args...)
}

// Validation wraps ErrValidation with a formatted message.
func Validation(format string, args ...any) error {
	return wrap(ErrValidation, format, args...)
}

// Conflict wraps ErrConflict with a formatted message.
func Conflict(format string, args ...any) error {
	return wrap(ErrConflict, format, args...)
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, kind)...)
}
