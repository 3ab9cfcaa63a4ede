package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors so callers can branch on the
// category without string matching.
type ErrorType string

const (
	ErrTypeUnsupportedFormat ErrorType = "UNSUPPORTED_FORMAT"
	ErrTypeNotFound          ErrorType = "NOT_FOUND"
	ErrTypeSchemaMismatch    ErrorType = "SCHEMA_MISMATCH"
	ErrTypeMissingInput      ErrorType = "MISSING_INPUT"
	ErrTypeParsing           ErrorType = "PARSING"
	ErrTypeStorage           ErrorType = "STORAGE"
	ErrTypeValidation        ErrorType = "VALIDATION"
	ErrTypeConfig            ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// NewUnsupportedFormatError reports a source file whose extension is outside
// the accepted set (csv, xlsx, xls).
func NewUnsupportedFormatError(suffix string) *AppError {
	return NewAppError(ErrTypeUnsupportedFormat, fmt.Sprintf("unsupported file type: %s", suffix), nil)
}

// NewNotFoundError reports a missing source path.
func NewNotFoundError(path string, cause error) *AppError {
	e := NewAppError(ErrTypeNotFound, fmt.Sprintf("file not found: %s", path), cause)
	return e.WithContext("path", path)
}

// NewSchemaMismatchError reports expected canonical columns absent after
// role detection.
func NewSchemaMismatchError(missing []string) *AppError {
	e := NewAppError(ErrTypeSchemaMismatch, fmt.Sprintf("missing expected columns: %v", missing), nil)
	return e.WithContext("missing_columns", missing)
}

// NewMissingInputError reports a stage invoked before its upstream input
// exists, e.g. diagnostics requested with no prior validation run.
func NewMissingInputError(message string) *AppError {
	return NewAppError(ErrTypeMissingInput, message, nil)
}

// NewParsingError reports an unreadable workbook or CSV.
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError reports a lineage or export write failure.
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}
