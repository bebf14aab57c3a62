package model

import "fmt"

// ValidationError reports a malformed or missing field on a transaction
// record. It is safe to show to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InternalComputationError wraps an unexpected failure during feature
// extraction or aggregation. Error() never exposes the cause; use Unwrap
// or Cause for logging.
type InternalComputationError struct {
	cause error
}

// NewInternalComputationError wraps cause.
func NewInternalComputationError(cause error) *InternalComputationError {
	return &InternalComputationError{cause: cause}
}

func (e *InternalComputationError) Error() string {
	return "internal computation error"
}

// Cause returns the wrapped failure.
func (e *InternalComputationError) Cause() error {
	return e.cause
}

func (e *InternalComputationError) Unwrap() error {
	return e.cause
}
