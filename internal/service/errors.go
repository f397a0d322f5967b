package service

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when an operation runs without a caller identity.
var ErrUnauthorized = errors.New("Unauthorized")

// ValidationError reports a missing or malformed input field. Message is
// meant to be shown to the caller as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a storage failure while writing a transaction.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "failed to store transaction: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// UpstreamError wraps a failure of an external rate or price provider.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
