package di

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/investment-service/investment_service/internal/domain/repositories"
	"github.com/investment-service/investment_service/internal/domain/services/investment"
	"github.com/investment-service/investment_service/internal/infrastructure/cache"
	"github.com/investment-service/investment_service/internal/infrastructure/config"
	infrarepos "github.com/investment-service/investment_service/internal/infrastructure/repositories"
	"github.com/investment-service/investment_service/pkg/health"
	"github.com/investment-service/investment_service/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Logger *logger.Logger
	ZapLog *zap.Logger

	// Repositories
	InvestmentRepo repositories.InvestmentRepository

	// Domain Services
	InvestmentService *investment.Service

	HealthChecker *health.HealthChecker
}

// NewContainer creates a new dependency injection container. db must be
// non-nil when the postgres storage driver is configured.
func NewContainer(ctx context.Context, cfg *config.Config, db *sqlx.DB, log *logger.Logger) (*Container, error) {
	container := &Container{
		Config:        cfg,
		DB:            db,
		Logger:        log,
		ZapLog:        log.Zap(),
		HealthChecker: health.NewHealthChecker(10 * time.Second),
	}

	if err := container.initializeStorage(); err != nil {
		return nil, err
	}
	container.initializeCache(ctx)

	container.InvestmentService = investment.NewService(container.InvestmentRepo, log)

	return container, nil
}

func (c *Container) initializeStorage() error {
	switch c.Config.Storage.Driver {
	case config.StorageDriverPostgres:
		if c.DB == nil {
			return fmt.Errorf("storage driver %q requires a database connection", c.Config.Storage.Driver)
		}
		c.InvestmentRepo = infrarepos.NewPostgresInvestmentRepository(c.DB, c.ZapLog)
		c.HealthChecker.Register(health.NewDatabaseChecker(c.DB.DB, 5*time.Second))
	case config.StorageDriverMemory, "":
		c.InvestmentRepo = infrarepos.NewMemoryInvestmentRepository()
		c.HealthChecker.Register(health.NewTimeoutChecker(
			health.NewFuncChecker("storage", func(ctx context.Context) error {
				return ctx.Err()
			}),
			2*time.Second,
		))
	default:
		return fmt.Errorf("unknown storage driver %q", c.Config.Storage.Driver)
	}

	c.Logger.Infow("Investment storage initialized", "driver", c.Config.Storage.Driver)
	return nil
}

// initializeCache wraps the store with the Redis read-through cache. An
// unreachable Redis leaves the store undecorated.
func (c *Container) initializeCache(ctx context.Context) {
	if !c.Config.Redis.Enabled {
		return
	}

	client, err := cache.NewRedisClient(ctx, c.Config.Redis.Addr(), c.Config.Redis.Password, c.Config.Redis.DB)
	if err != nil {
		c.Logger.Warnw("Redis unavailable, running without cache", "addr", c.Config.Redis.Addr(), "error", err)
		return
	}

	c.Redis = client
	ttl := time.Duration(c.Config.Redis.CacheTTL) * time.Second
	c.InvestmentRepo = cache.NewCachedInvestmentRepository(
		c.InvestmentRepo,
		cache.NewRedisCache(client, c.ZapLog),
		ttl,
		c.ZapLog,
	)
	c.HealthChecker.Register(health.NewRedisChecker(client, 3*time.Second))

	c.Logger.Infow("Investment cache enabled", "addr", c.Config.Redis.Addr(), "ttl", ttl)
}

// Close releases connections owned by the container. The database handle
// belongs to the caller.
func (c *Container) Close() error {
	if c.Redis != nil {
		return c.Redis.Close()
	}
	return nil
}
