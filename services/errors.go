package services

import "errors"

// ErrNotFound signals that a referenced id has no matching row.
var ErrNotFound = errors.New("record not found")

// ValidationError reports bad input shape or range; routes map it to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err is a validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
