package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the spot aggregate. The comment error
// deliberately covers both "missing" and "owned by someone else" so the
// response does not leak whether a foreign comment exists.
var (
	ErrSpotNotFound    = errors.New("spot not found")
	ErrCommentNotFound = errors.New("comment not found or not owned by user")
	ErrDuplicateSpot   = errors.New("a spot with this name and building already exists")
)

// ValidationError reports a malformed or out-of-range input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError for the named field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorf is NewValidationError with formatting.
func NewValidationErrorf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
