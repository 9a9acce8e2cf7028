package errors

import (
	"fmt"
)

// Error types for different categories of failures
const (
	// Input/Output errors
	ErrInputRead   = "INPUT_READ_ERROR"
	ErrOutputWrite = "OUTPUT_WRITE_ERROR"

	// CLI errors
	ErrUsage = "USAGE_ERROR"

	// Watch mode errors
	ErrWatch = "WATCH_ERROR"
)

// ObfuscatorError represents a structured error with type and context
type ObfuscatorError struct {
	Type    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *ObfuscatorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows error unwrapping
func (e *ObfuscatorError) Unwrap() error {
	return e.Cause
}

// New creates a new ObfuscatorError
func New(errorType, message string) *ObfuscatorError {
	return &ObfuscatorError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// Wrap creates a new ObfuscatorError wrapping an existing error
func Wrap(errorType, message string, cause error) *ObfuscatorError {
	return &ObfuscatorError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *ObfuscatorError) WithContext(key string, value interface{}) *ObfuscatorError {
	e.Context[key] = value
	return e
}

// GetContext returns context value by key
func (e *ObfuscatorError) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}

// NewInputError creates an input-related error
func NewInputError(path string, cause error) *ObfuscatorError {
	return Wrap(ErrInputRead, fmt.Sprintf("Failed to read input '%s'", path), cause).
		WithContext("path", path)
}

// NewOutputError creates an output-related error
func NewOutputError(path string, cause error) *ObfuscatorError {
	return Wrap(ErrOutputWrite, fmt.Sprintf("Failed to write output '%s'", path), cause).
		WithContext("path", path)
}

// NewUsageError creates an invalid-invocation error
func NewUsageError(message string) *ObfuscatorError {
	return New(ErrUsage, message)
}

// NewWatchError creates a watch-mode error
func NewWatchError(message string, cause error) *ObfuscatorError {
	return Wrap(ErrWatch, message, cause)
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType string) bool {
	if obfErr, ok := err.(*ObfuscatorError); ok {
		return obfErr.Type == errorType
	}
	return false
}
