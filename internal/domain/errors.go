package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a referenced record does not exist. Handlers
// translate it to a 404.
var ErrNotFound = errors.New("not found")

// ValidationError reports a rejected input, optionally naming the offending
// field. Handlers translate it to a 400 with a {message, field} body.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError for the given field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation reports whether err is (or wraps) a ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
