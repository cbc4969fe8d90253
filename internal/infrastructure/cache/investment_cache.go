package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/investment-service/investment_service/internal/domain/entities"
	"github.com/investment-service/investment_service/internal/domain/repositories"
	"github.com/investment-service/investment_service/pkg/metrics"
	"github.com/investment-service/investment_service/pkg/retry"
)

var _ repositories.InvestmentRepository = (*CachedInvestmentRepository)(nil)

// invalidationRetry bounds how long Delete keeps trying to evict a key
var invalidationRetry = retry.RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   10 * time.Millisecond,
	MaxDelay:    100 * time.Millisecond,
	Multiplier:  2.0,
}

// CachedInvestmentRepository decorates an InvestmentRepository with a
// read-through cache for single lookups. Cache failures are logged and
// never surface to callers.
//
// A key whose eviction failed after a delete is tombstoned locally for one
// TTL, so lookups skip the cache until the stale entry has expired.
type CachedInvestmentRepository struct {
	inner  repositories.InvestmentRepository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger

	mu         sync.Mutex
	tombstones map[int64]time.Time
}

// NewCachedInvestmentRepository creates the decorator
func NewCachedInvestmentRepository(inner repositories.InvestmentRepository, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedInvestmentRepository {
	return &CachedInvestmentRepository{
		inner:      inner,
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
		tombstones: make(map[int64]time.Time),
	}
}

func investmentKey(id int64) string {
	return fmt.Sprintf("investment:%d", id)
}

// GetByID serves from cache when possible and populates it on a miss
func (r *CachedInvestmentRepository) GetByID(ctx context.Context, id int64) (*entities.Investment, error) {
	if r.tombstoned(id) {
		metrics.RecordCacheLookup("bypass")
		return r.inner.GetByID(ctx, id)
	}

	key := investmentKey(id)
	raw, found, err := r.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.RecordCacheLookup("error")
		r.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	case found:
		var inv entities.Investment
		if err := json.Unmarshal(raw, &inv); err == nil {
			metrics.RecordCacheLookup("hit")
			return &inv, nil
		}
		metrics.RecordCacheLookup("error")
		r.logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
	default:
		metrics.RecordCacheLookup("miss")
	}

	inv, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.store(ctx, inv)
	return inv, nil
}

// List always reads from the underlying repository
func (r *CachedInvestmentRepository) List(ctx context.Context) ([]*entities.Investment, error) {
	return r.inner.List(ctx)
}

// Create writes through to the cache after a successful insert
func (r *CachedInvestmentRepository) Create(ctx context.Context, investment *entities.Investment) (*entities.Investment, error) {
	created, err := r.inner.Create(ctx, investment)
	if err != nil {
		return nil, err
	}

	r.store(ctx, created)
	return created, nil
}

// Delete evicts the cached entry before and after removing the record.
// When the second eviction keeps failing the id is tombstoned.
func (r *CachedInvestmentRepository) Delete(ctx context.Context, id int64) error {
	key := investmentKey(id)
	if err := r.cache.Del(ctx, key); err != nil {
		r.logger.Warn("Cache invalidation failed before delete", zap.String("key", key), zap.Error(err))
	}

	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}

	err := retry.WithExponentialBackoff(ctx, invalidationRetry, func() error {
		return r.cache.Del(ctx, key)
	}, func(error) bool { return true })
	if err != nil {
		r.logger.Warn("Cache invalidation failed, bypassing cache for key",
			zap.String("key", key),
			zap.Duration("ttl", r.ttl),
			zap.Error(err),
		)
		r.tombstone(id)
	}
	return nil
}

func (r *CachedInvestmentRepository) tombstone(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tombstones[id] = time.Now().Add(r.ttl)
}

func (r *CachedInvestmentRepository) tombstoned(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for k, until := range r.tombstones {
		if now.After(until) {
			delete(r.tombstones, k)
		}
	}
	_, ok := r.tombstones[id]
	return ok
}

func (r *CachedInvestmentRepository) store(ctx context.Context, inv *entities.Investment) {
	raw, err := json.Marshal(inv)
	if err != nil {
		r.logger.Warn("Failed to encode investment for cache", zap.Int64("investment_id", inv.ID), zap.Error(err))
		return
	}

	key := investmentKey(inv.ID)
	if err := r.cache.Set(ctx, key, raw, r.ttl); err != nil {
		r.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
