package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeStorage      ErrorCode = "STORAGE_ERROR"

	// Field-level validation errors
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// Quiz lifecycle errors
	CodeDuplicateSlug       ErrorCode = "DUPLICATE_SLUG"
	CodeConflict            ErrorCode = "CONFLICT"
	CodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	CodeUnsupportedQuizType ErrorCode = "UNSUPPORTED_QUIZ_TYPE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for common errors

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewQuizNotFoundError(slug string) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("quiz not found: %s", slug), nil)
}

func NewVersionNotFoundError(slug string, version int) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("version %d not found for quiz: %s", version, slug), nil)
}

func NewDuplicateSlugError(slug string) *DomainError {
	return NewError(CodeDuplicateSlug, fmt.Sprintf("slug already in use: %s", slug), nil)
}

func NewConflictError(slug string, expectedVersion int) *DomainError {
	err := NewError(CodeConflict, fmt.Sprintf("quiz %s was modified concurrently", slug), nil)
	err.Context = map[string]interface{}{"expected_version": expectedVersion}
	return err
}

func NewInvalidTransitionError(from, to Status) *DomainError {
	return NewError(CodeInvalidTransition, fmt.Sprintf("cannot transition quiz from %s to %s", from, to), nil)
}

func NewUnsupportedQuizTypeError(quizType string) *DomainError {
	return NewError(CodeUnsupportedQuizType, fmt.Sprintf("unsupported quiz type: %s", quizType), nil)
}

func NewValidationError(message string) *DomainError {
	return NewError(CodeValidation, message, nil)
}

func NewStorageError(message string, cause error) *DomainError {
	return NewError(CodeStorage, message, cause)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field-level request validation failures.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e[0].Error())
}

func NewMissingFieldError(field string) FieldError {
	return FieldError{
		Field:   field,
		Code:    string(CodeMissingField),
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewInvalidFormatError(field, value string) FieldError {
	return FieldError{
		Field:   field,
		Code:    string(CodeInvalidFormat),
		Message: fmt.Sprintf("invalid format for %s: %s", field, value),
	}
}
