package errors

import (
	"errors"
	"net/http"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal server errors
	ErrorTypeInternal ErrorType = "internal"

	// ErrorTypeValidation represents invalid or missing input
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeNotFound represents resource not found errors
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeInvalidOperation represents an operation that is not defined
	// for the current state of a resource
	ErrorTypeInvalidOperation ErrorType = "invalid_operation"

	// ErrorTypeConflict represents resource conflict errors
	ErrorTypeConflict ErrorType = "conflict"

	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeTimeout represents timeout errors
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeTransient represents transient errors that can be retried
	ErrorTypeTransient ErrorType = "transient"
)

// AppError represents an application error with additional context
type AppError struct {
	Type       ErrorType         `json:"type"`
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Err        error             `json:"-"`
	Retryable  bool              `json:"retryable"`
	StatusCode int               `json:"-"`
}

// Error implements the error interface. The message is returned verbatim so
// that callers can surface it to clients unchanged.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same type and code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Type == t.Type
}

// WithDetail returns a copy of the error carrying an extra detail
func (e *AppError) WithDetail(key, value string) *AppError {
	cp := *e
	cp.Details = make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

// New creates a new AppError with the status code implied by its type
func New(errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:       errType,
		Code:       code,
		Message:    message,
		StatusCode: statusForType(errType),
		Retryable:  IsTransient(errType),
	}
}

// Common error instances
var (
	// ErrInternalServer represents a generic internal server error
	ErrInternalServer = New(ErrorTypeInternal, "INTERNAL_ERROR", "An internal server error occurred")

	// ErrNotFound represents a generic not found error
	ErrNotFound = New(ErrorTypeNotFound, "NOT_FOUND", "Resource not found")

	// ErrRateLimit represents a rate limit error
	ErrRateLimit = New(ErrorTypeRateLimit, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")

	// ErrTimeout represents a timeout error
	ErrTimeout = New(ErrorTypeTimeout, "TIMEOUT", "Request timeout")

	// ErrServiceUnavailable represents a transient dependency failure
	ErrServiceUnavailable = New(ErrorTypeTransient, "SERVICE_UNAVAILABLE", "Service temporarily unavailable")
)

func statusForType(errType ErrorType) int {
	switch errType {
	case ErrorTypeValidation, ErrorTypeInvalidOperation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case ErrorTypeTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AsAppError extracts the first AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetType returns the error type
func GetType(err error) ErrorType {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	if appErr, ok := AsAppError(err); ok && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	return statusForType(ClassifyError(err))
}
