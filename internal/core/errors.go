package core

import (
	"errors"
	"fmt"
)

// ValidationError reports a structural precondition failure detected before
// any record is written. Callers can branch on it with errors.As or
// IsValidation.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// NewValidationError builds a ValidationError for the given operation.
func NewValidationError(op, format string, args ...any) *ValidationError {
	return &ValidationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
