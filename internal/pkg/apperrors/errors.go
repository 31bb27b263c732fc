package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. Every error surfaced to the HTTP layer wraps exactly one of these.
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrValidationFailed      = errors.New("validation failed")
)

// CustomError represents application-specific errors with a user facing message
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// NewNotFoundError reports a missing entity by its identifier
func NewNotFoundError(entity string, identifier interface{}) error {
	return NewCustomError(ErrResourceNotFound, fmt.Sprintf("%s with identifier '%v' not found", entity, identifier))
}

// NewAlreadyExistsError reports a uniqueness collision on one field
func NewAlreadyExistsError(entity, field string, value interface{}) error {
	return NewCustomError(ErrResourceAlreadyExists, fmt.Sprintf("%s with %s='%v' already exists", entity, field, value))
}

// NewUnauthorizedError creates an authentication failure
func NewUnauthorizedError(message string) error {
	return NewCustomError(ErrUnauthorized, message)
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message)
}

// NewValidationError creates a business rule violation
func NewValidationError(format string, args ...interface{}) error {
	return NewCustomError(ErrValidationFailed, fmt.Sprintf(format, args...))
}

// Message extracts the user facing message, if any
func Message(err error) (string, bool) {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message, true
	}
	return "", false
}
