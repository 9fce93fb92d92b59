package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that the input data is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSearchEngineUnavailable indicates that the search engine could not
	// serve a request. It is fatal for the request being processed.
	ErrSearchEngineUnavailable = errors.New("search engine unavailable")

	// ErrInvalidModel indicates that a classifier artifact is malformed.
	ErrInvalidModel = errors.New("invalid model")
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NotFoundError provides details about a not found entity.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ExternalAPIError provides details about a failed call to the search engine.
type ExternalAPIError struct {
	Source     string
	Collection string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *ExternalAPIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s API error (collection %s): %s", e.Source, e.Collection, e.Message)
	}
	return fmt.Sprintf("%s API error (collection %s, status %d): %s", e.Source, e.Collection, e.StatusCode, e.Message)
}

// Unwrap returns the underlying cause error. Every ExternalAPIError also
// matches ErrSearchEngineUnavailable.
func (e *ExternalAPIError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrSearchEngineUnavailable}
	}
	return []error{ErrSearchEngineUnavailable, e.Cause}
}

// ModelError describes a classifier artifact that cannot be used.
type ModelError struct {
	Path   string
	Reason string
}

// Error implements the error interface.
func (e *ModelError) Error() string {
	return fmt.Sprintf("invalid model %s: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ModelError) Unwrap() error {
	return ErrInvalidModel
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
	}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewExternalAPIError creates a new ExternalAPIError.
func NewExternalAPIError(source, collection string, statusCode int, message string, cause error) *ExternalAPIError {
	return &ExternalAPIError{
		Source:     source,
		Collection: collection,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}

// NewModelError creates a new ModelError.
func NewModelError(path, reason string) *ModelError {
	return &ModelError{
		Path:   path,
		Reason: reason,
	}
}
