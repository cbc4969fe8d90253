package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/investment-service/investment_service/internal/infrastructure/config"
	"github.com/investment-service/investment_service/pkg/metrics"
	"github.com/investment-service/investment_service/pkg/retry"
)

// NewConnection opens a PostgreSQL pool, retrying while the server is
// still coming up.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var db *sqlx.DB

	retryCfg := retry.RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Multiplier:  2.0,
	}

	err := retry.WithExponentialBackoff(ctx, retryCfg, func() error {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		conn, err := sqlx.ConnectContext(connectCtx, "postgres", cfg.URL)
		if err != nil {
			return err
		}
		db = conn
		return nil
	}, retry.IsTemporaryError)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	return db, nil
}

// RecordPoolStats publishes connection pool gauges
func RecordPoolStats(db *sqlx.DB) {
	stats := db.Stats()
	metrics.UpdateDatabaseConnections(stats.OpenConnections, stats.Idle, stats.InUse)
}
