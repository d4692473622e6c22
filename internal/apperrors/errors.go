// Package apperrors defines the error taxonomy shared by the stores and
// the HTTP layer. Handlers translate these into status codes; everything
// else is wrapped and surfaced as a 500.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a lookup by an absent identifier.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a uniqueness violation not absorbed by dedupe
	// logic, or an attempt to re-review a terminal submission.
	ErrConflict = errors.New("conflict")

	// ErrStorageUnavailable signals that the blob backend is
	// unreachable or not configured. Upload and download features
	// degrade to reporting this explicitly.
	ErrStorageUnavailable = errors.New("object storage unavailable")
)

// ValidationError reports malformed or contradictory input with a
// message suitable for showing to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
