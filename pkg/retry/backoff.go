package retry

import (
	"math"
	"time"
)

// CalculateExponential calculates exponential backoff without jitter.
// Attempt numbering starts at 1.
func CalculateExponential(initialBackoff time.Duration, multiplier float64, attempt int, maxBackoff time.Duration) time.Duration {
	if attempt <= 0 {
		return 0
	}

	backoff := float64(initialBackoff) * math.Pow(multiplier, float64(attempt-1))

	if maxBackoff > 0 && backoff > float64(maxBackoff) {
		backoff = float64(maxBackoff)
	}

	return time.Duration(backoff)
}
