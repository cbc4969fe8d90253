package ratelimit

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/investment-service/investment_service/pkg/errors"
	"github.com/investment-service/investment_service/pkg/metrics"
)

// KeyFunc extracts the rate limit key from the request
type KeyFunc func(*gin.Context) string

// Middleware creates a rate limiting middleware. Limiter failures let the
// request through.
func Middleware(limiter Limiter, keyFunc KeyFunc, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		if key == "" {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("Rate limit check failed, allowing request",
				zap.Error(err),
				zap.String("key", key))
			c.Next()
			return
		}

		if !allowed {
			metrics.RecordRateLimitHit(c.FullPath())
			logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))

			c.AbortWithStatusJSON(apperrors.ErrRateLimit.StatusCode, gin.H{
				"code":       apperrors.ErrRateLimit.Code,
				"message":    apperrors.ErrRateLimit.Message,
				"statusCode": apperrors.ErrRateLimit.StatusCode,
				"timestamp":  time.Now().UTC(),
			})
			return
		}

		if remaining, err := limiter.GetRemaining(c.Request.Context(), key); err == nil {
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		}

		c.Next()
	}
}

// IPKeyFunc extracts IP address from request
func IPKeyFunc(c *gin.Context) string {
	return c.ClientIP()
}
