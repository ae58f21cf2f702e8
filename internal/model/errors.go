package model

import (
	"errors"
	"fmt"
)

// Error categories. Every specific error in this package wraps exactly one of
// them, so handlers can map failures to responses with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateIdentity = errors.New("identity already exists")
	ErrAuthFailure       = errors.New("invalid username or password")
	ErrUnauthorized      = errors.New("not authenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidUpload     = errors.New("invalid upload")
	ErrInvalidIndex      = errors.New("invalid index")
	ErrStore             = errors.New("store error")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StoreError wraps a persistence failure. The result matches both ErrStore
// and the underlying cause.
func StoreError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
