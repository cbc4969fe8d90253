package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/investment-service/investment_service/pkg/circuitbreaker"
	"github.com/investment-service/investment_service/pkg/metrics"
)

// Cache is the minimal key/value contract the repository decorator needs
type Cache interface {
	// Get returns the stored value and whether the key was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// RedisCache is a Cache backed by a single Redis node. Every call goes
// through a circuit breaker so a dead Redis fails fast.
type RedisCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
	prefix  string
}

// NewRedisCache wraps an existing client
func NewRedisCache(client *redis.Client, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client:  client,
		breaker: circuitbreaker.New("redis-cache", circuitbreaker.DefaultConfig(), logger),
		logger:  logger,
		prefix:  "investment-service:",
	}
}

// NewRedisClient creates a client and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	defer func() { metrics.RecordRedisOperation("get", time.Since(start).Seconds()) }()

	result, err := rc.breaker.Execute(func() (interface{}, error) {
		val, err := rc.client.Get(ctx, rc.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			// A miss is not a failure for the breaker.
			return nil, nil
		}
		return val, err
	})
	if err != nil {
		return nil, false, err
	}
	if result == nil {
		return nil, false, nil
	}
	return result.([]byte), true, nil
}

func (rc *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	defer func() { metrics.RecordRedisOperation("set", time.Since(start).Seconds()) }()

	_, err := rc.breaker.Execute(func() (interface{}, error) {
		return nil, rc.client.Set(ctx, rc.prefix+key, value, ttl).Err()
	})
	return err
}

func (rc *RedisCache) Del(ctx context.Context, key string) error {
	start := time.Now()
	defer func() { metrics.RecordRedisOperation("del", time.Since(start).Seconds()) }()

	_, err := rc.breaker.Execute(func() (interface{}, error) {
		return nil, rc.client.Del(ctx, rc.prefix+key).Err()
	})
	return err
}
