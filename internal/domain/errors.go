package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports a bad or missing request field.
// Its message is safe to return to callers.
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

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RemoteServiceError wraps a failure of the language model or embedding API.
// It is never surfaced to callers; services degrade to local results instead.
type RemoteServiceError struct {
	Op  string
	Err error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// NewRemoteServiceError wraps err as a failure of op.
func NewRemoteServiceError(op string, err error) *RemoteServiceError {
	return &RemoteServiceError{Op: op, Err: err}
}

// ErrRemoteUnavailable is returned when no remote credential is configured.
var ErrRemoteUnavailable = errors.New("remote service not configured")
