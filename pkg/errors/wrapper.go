package errors

import (
	"fmt"
)

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// WrapWithType wraps an error with a specific error type
func WrapWithType(err error, errType ErrorType, code, message string) *AppError {
	appErr := New(errType, code, message)
	appErr.Err = err
	return appErr
}

// WrapInternal wraps an internal error
func WrapInternal(err error, message string) *AppError {
	return WrapWithType(err, ErrorTypeInternal, "INTERNAL_ERROR", message)
}

// WrapTimeout wraps a timeout error
func WrapTimeout(err error, operation string) *AppError {
	return WrapWithType(err, ErrorTypeTimeout, ErrTimeout.Code, ErrTimeout.Message).
		WithDetail("operation", operation)
}

// IsTransient determines if an error type is transient
func IsTransient(errType ErrorType) bool {
	switch errType {
	case ErrorTypeTransient, ErrorTypeTimeout, ErrorTypeRateLimit:
		return true
	default:
		return false
	}
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string) *AppError {
	return New(ErrorTypeValidation, code, message)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code, message string) *AppError {
	return New(ErrorTypeNotFound, code, message)
}

// NewInvalidOperationError creates a new invalid operation error
func NewInvalidOperationError(code, message string) *AppError {
	return New(ErrorTypeInvalidOperation, code, message)
}
