package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInvalidAnswer indicates a submitted answer that does not match
	// any option of the active question
	ErrorTypeInvalidAnswer ErrorType = "INVALID_ANSWER"

	// ErrorTypeNoActiveQuestion indicates an operation that requires an active
	// question while no session is running or the cursor is exhausted
	ErrorTypeNoActiveQuestion ErrorType = "NO_ACTIVE_QUESTION"

	// ErrorTypeSessionTerminated indicates an operation attempted after the
	// session has been finalized
	ErrorTypeSessionTerminated ErrorType = "SESSION_TERMINATED"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from an external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error

	// Fields carries per-field validation messages for intake errors.
	Fields map[string]string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewFieldValidationError creates a validation error carrying per-field messages
func NewFieldValidationError(message string, fields map[string]string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Fields:  fields,
	}
}

// NewInvalidAnswerError creates a new invalid answer error
func NewInvalidAnswerError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidAnswer,
		Message: message,
	}
}

// NewNoActiveQuestionError creates a new no active question error
func NewNoActiveQuestionError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNoActiveQuestion,
		Message: message,
	}
}

// NewSessionTerminatedError creates a new session terminated error
func NewSessionTerminatedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeSessionTerminated,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// TypeOf returns the AppError type of err, or ErrorTypeInternal for plain errors.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}
