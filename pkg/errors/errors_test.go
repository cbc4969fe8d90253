package errors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorReturnsMessageVerbatim(t *testing.T) {
	err := NewInvalidOperationError("ZERO", "Committed Capital cannot be zero when calculating TVPI.")
	assert.Equal(t, "Committed Capital cannot be zero when calculating TVPI.", err.Error())

	wrapped := WrapInternal(errors.New("boom"), "query failed")
	assert.Equal(t, "query failed: boom", wrapped.Error())
}

func TestAppError_IsMatchesTypeAndCode(t *testing.T) {
	sentinel := NewNotFoundError("INVESTMENT_NOT_FOUND", "Investment not found.")
	specific := NewNotFoundError("INVESTMENT_NOT_FOUND", "Investment with ID 7 not found.")
	other := NewNotFoundError("OTHER_NOT_FOUND", "Other not found.")

	assert.True(t, errors.Is(specific, sentinel))
	assert.True(t, errors.Is(fmt.Errorf("lookup: %w", specific), sentinel))
	assert.False(t, errors.Is(other, sentinel))
}

func TestAppError_WithDetailDoesNotMutateReceiver(t *testing.T) {
	base := NewValidationError("BAD", "bad input")
	withDetail := base.WithDetail("field", "name")

	assert.Empty(t, base.Details)
	assert.Equal(t, "name", withDetail.Details["field"])
}

func TestNew_StatusCodes(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    int
	}{
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypeInvalidOperation, http.StatusBadRequest},
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeConflict, http.StatusConflict},
		{ErrorTypeRateLimit, http.StatusTooManyRequests},
		{ErrorTypeTimeout, http.StatusGatewayTimeout},
		{ErrorTypeTransient, http.StatusServiceUnavailable},
		{ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.errType, "X", "x").StatusCode)
		})
	}
}

func TestGetStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetStatusCode(fmt.Errorf("wrapped: %w", ErrNotFound)))
	assert.Equal(t, http.StatusNotFound, GetStatusCode(sql.ErrNoRows))
	assert.Equal(t, http.StatusInternalServerError, GetStatusCode(errors.New("something odd")))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ""},
		{"app error", NewValidationError("BAD", "bad input"), ErrorTypeValidation},
		{"deadline", context.DeadlineExceeded, ErrorTypeTimeout},
		{"canceled", context.Canceled, ErrorTypeInternal},
		{"no rows", fmt.Errorf("get: %w", sql.ErrNoRows), ErrorTypeNotFound},
		{"conn refused errno", syscall.ECONNREFUSED, ErrorTypeTransient},
		{"conn refused text", errors.New("dial tcp: connection refused"), ErrorTypeTransient},
		{"unknown", errors.New("unexpected"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"app error kept", ErrNotFound, "NOT_FOUND", http.StatusNotFound},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), "TIMEOUT", http.StatusGatewayTimeout},
		{"no rows", sql.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connection refused"), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},
		{"unknown", errors.New("unexpected"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err, "GET /api/investments")
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode)
			assert.ErrorIs(t, appErr, tt.err)
		})
	}

	assert.Nil(t, ToAppError(nil, "noop"))
	assert.Equal(t, "GET /api/investments",
		ToAppError(context.DeadlineExceeded, "GET /api/investments").Details["operation"])
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))
	assert.NoError(t, Wrapf(nil, "ignored %d", 1))

	wrapped := Wrapf(sql.ErrNoRows, "failed to get investment %d", 7)
	assert.Equal(t, "failed to get investment 7: sql: no rows in result set", wrapped.Error())
	assert.ErrorIs(t, Wrap(wrapped, "outer"), sql.ErrNoRows)
}

func TestShouldRetry(t *testing.T) {
	assert.True(t, ShouldRetry(errors.New("read: connection reset by peer")))
	assert.True(t, ShouldRetry(context.DeadlineExceeded))
	assert.False(t, ShouldRetry(ErrNotFound))
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(fmt.Errorf("outer: %w", ErrTimeout))
	require.True(t, ok)
	assert.Equal(t, "TIMEOUT", appErr.Code)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}
