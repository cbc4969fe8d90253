package errors

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"strings"
	"syscall"
)

// ClassifyError maps an arbitrary error onto the application taxonomy.
// Errors that match nothing are internal.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}

	if appErr, ok := AsAppError(err); ok {
		return appErr.Type
	}

	// Context errors
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorTypeInternal
	}

	// Database errors
	if errors.Is(err, sql.ErrNoRows) {
		return ErrorTypeNotFound
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return ErrorTypeInternal
	}

	// Network errors
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTypeTimeout
	}

	var syscallErr syscall.Errno
	if errors.As(err, &syscallErr) {
		switch syscallErr {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED:
			return ErrorTypeTransient
		case syscall.ETIMEDOUT:
			return ErrorTypeTimeout
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "broken pipe") {
		return ErrorTypeTransient
	}

	return ErrorTypeInternal
}

// ToAppError returns err's AppError, or wraps a foreign error in the
// AppError its classification implies. operation names the failing call.
func ToAppError(err error, operation string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	switch ClassifyError(err) {
	case ErrorTypeTimeout:
		return WrapTimeout(err, operation)
	case ErrorTypeNotFound:
		return WrapWithType(err, ErrorTypeNotFound, ErrNotFound.Code, ErrNotFound.Message)
	case ErrorTypeTransient:
		return WrapWithType(err, ErrorTypeTransient, ErrServiceUnavailable.Code, ErrServiceUnavailable.Message)
	default:
		return WrapInternal(err, ErrInternalServer.Message)
	}
}

// ShouldRetry determines if an error should be retried
func ShouldRetry(err error) bool {
	return IsTransient(ClassifyError(err))
}
