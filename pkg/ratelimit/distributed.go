package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Limiter defines rate limiting behavior
type Limiter interface {
	// Allow checks if a request should be allowed
	Allow(ctx context.Context, key string) (bool, error)

	// GetRemaining returns remaining quota
	GetRemaining(ctx context.Context, key string) (int64, error)
}

// Config defines rate limiter configuration
type Config struct {
	// Limit is the maximum number of requests allowed
	Limit int64

	// Window is the time window for the rate limit
	Window time.Duration

	// KeyPrefix is prepended to all Redis keys
	KeyPrefix string
}

// DistributedLimiter shares a sliding-window quota between service
// instances through a Redis sorted set per key
type DistributedLimiter struct {
	redis  *redis.Client
	config Config
	logger *zap.Logger
}

// NewDistributedLimiter creates a new distributed rate limiter
func NewDistributedLimiter(client *redis.Client, config Config, logger *zap.Logger) *DistributedLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "investment-service:ratelimit"
	}

	return &DistributedLimiter{
		redis:  client,
		config: config,
		logger: logger,
	}
}

// PerIPLimiter creates a rate limiter for per-IP limits
func PerIPLimiter(client *redis.Client, limit int64, window time.Duration, logger *zap.Logger) *DistributedLimiter {
	return NewDistributedLimiter(client, Config{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "investment-service:ratelimit:ip",
	}, logger)
}

// Allow records one request for key and reports whether it fits the window
func (l *DistributedLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.makeKey(key)
	now := time.Now()
	windowStart := now.Add(-l.config.Window)

	pipe := l.redis.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	pipe.ZAdd(ctx, redisKey, &redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.config.Window*2)

	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Error("Failed to execute rate limit pipeline",
			zap.Error(err),
			zap.String("key", key))
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	currentCount := countCmd.Val()
	allowed := currentCount <= l.config.Limit
	if !allowed {
		l.logger.Debug("Rate limit exceeded",
			zap.String("key", key),
			zap.Int64("current", currentCount),
			zap.Int64("limit", l.config.Limit))
	}

	return allowed, nil
}

// GetRemaining returns remaining quota
func (l *DistributedLimiter) GetRemaining(ctx context.Context, key string) (int64, error) {
	windowStart := time.Now().Add(-l.config.Window)

	count, err := l.redis.ZCount(ctx, l.makeKey(key),
		fmt.Sprintf("%d", windowStart.UnixNano()),
		"+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get remaining quota: %w", err)
	}

	remaining := l.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (l *DistributedLimiter) makeKey(key string) string {
	return fmt.Sprintf("%s:%s", l.config.KeyPrefix, key)
}
