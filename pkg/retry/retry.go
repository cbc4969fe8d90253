package retry

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/investment-service/investment_service/pkg/errors"
)

// RetryConfig holds configuration for retry behavior
type RetryConfig struct {
	MaxAttempts int           // Maximum number of attempts, including the first
	BaseDelay   time.Duration // Base delay between retries
	MaxDelay    time.Duration // Maximum delay between retries
	Multiplier  float64       // Backoff multiplier
}

// DefaultConfig returns a default retry configuration
func DefaultConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
	}
}

// RetryableFunc represents a function that can be retried
type RetryableFunc func() error

// IsRetryableFunc determines if an error should trigger a retry
type IsRetryableFunc func(error) bool

// WithExponentialBackoff retries a function with exponential backoff
func WithExponentialBackoff(
	ctx context.Context,
	config RetryConfig,
	fn RetryableFunc,
	isRetryable IsRetryableFunc,
) error {
	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if !isRetryable(err) {
			return fmt.Errorf("non-retryable error: %w", err)
		}

		if attempt == config.MaxAttempts {
			break
		}

		delay := CalculateExponential(config.BaseDelay, config.Multiplier, attempt, config.MaxDelay)

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled by context: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", config.MaxAttempts, lastErr)
}

var temporaryPatterns = []string{
	"connection refused",
	"timeout",
	"temporary failure",
	"service unavailable",
	"too many requests",
	"network is unreachable",
	"no route to host",
	"connection reset",
	"the database system is starting up",
}

// IsTemporaryError is a common retry predicate for temporary/transient errors
func IsTemporaryError(err error) bool {
	if err == nil {
		return false
	}
	if apperrors.ShouldRetry(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range temporaryPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
