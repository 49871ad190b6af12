package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies failures surfaced to API and CLI callers.
type ErrorCode string

const (
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeStateConflict ErrorCode = "STATE_CONFLICT"
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	CodeDependency    ErrorCode = "DEPENDENCY_ERROR"
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
)

var statusByCode = map[ErrorCode]int{
	CodeValidation:    http.StatusBadRequest,
	CodeNotFound:      http.StatusNotFound,
	CodeStateConflict: http.StatusConflict,
	CodeUnauthorized:  http.StatusUnauthorized,
	CodeDependency:    http.StatusServiceUnavailable,
	CodeInternal:      http.StatusInternalServerError,
}

// AppError is the error type services return for anything a caller can act on.
type AppError struct {
	Code    ErrorCode
	Message string
	Field   string
	Details map[string]string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// NewValidationError reports a bad or missing input field.
func NewValidationError(field, message string) *AppError {
	return &AppError{Code: CodeValidation, Field: field, Message: message}
}

// NewValidationErrors reports several bad fields at once, keyed by field name.
func NewValidationErrors(details map[string]string) *AppError {
	return &AppError{Code: CodeValidation, Message: "Validation failed", Details: details}
}

// NewNotFoundError reports an unknown id for the named resource.
func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewStateConflictError(message string) *AppError {
	return &AppError{Code: CodeStateConflict, Message: message}
}

func NewDependencyError(message string, cause error) *AppError {
	return &AppError{Code: CodeDependency, Message: message, cause: cause}
}

// CodeOf returns the code of the first AppError in err's chain, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// StatusFor maps an error to the HTTP status the API should answer with.
func StatusFor(err error) int {
	if status, ok := statusByCode[CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}
