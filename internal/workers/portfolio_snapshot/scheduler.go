package portfolio_snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/investment-service/investment_service/internal/domain/entities"
	"github.com/investment-service/investment_service/internal/infrastructure/database"
	"github.com/investment-service/investment_service/pkg/metrics"
)

// SnapshotService produces the portfolio aggregate
type SnapshotService interface {
	PortfolioSnapshot(ctx context.Context) (*entities.PortfolioSnapshot, error)
}

// Config configures the snapshot scheduler
type Config struct {
	// Cron expression, descriptors such as "@every 1m" are accepted
	Schedule string
	Timeout  time.Duration
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		Schedule: "@every 1m",
		Timeout:  30 * time.Second,
	}
}

// zapCronLogger wraps zap.Logger to implement cron's logger interface
type zapCronLogger struct {
	logger *zap.Logger
}

func (l *zapCronLogger) Printf(format string, args ...interface{}) {
	l.logger.Sugar().Debugf(format, args...)
}

// Scheduler periodically publishes portfolio totals as Prometheus gauges
type Scheduler struct {
	cron    *cron.Cron
	service SnapshotService
	db      *sqlx.DB
	config  Config
	logger  *zap.Logger
	tracer  trace.Tracer

	mu           sync.RWMutex
	entryID      cron.EntryID
	running      bool
	lastRun      time.Time
	lastSnapshot *entities.PortfolioSnapshot
	lastErr      error
}

// NewScheduler creates a new snapshot scheduler. db is optional and only
// used to publish connection pool statistics.
func NewScheduler(service SnapshotService, db *sqlx.DB, config Config, logger *zap.Logger) *Scheduler {
	if config.Schedule == "" {
		config.Schedule = DefaultConfig().Schedule
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC), cron.WithLogger(cron.VerbosePrintfLogger(&zapCronLogger{logger: logger}))),
		service: service,
		db:      db,
		config:  config,
		logger:  logger,
		tracer:  otel.Tracer("portfolio-snapshot"),
	}
}

// Start begins the scheduled job execution
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	if s.entryID == 0 {
		id, err := s.cron.AddFunc(s.config.Schedule, func() {
			_, _ = s.RunOnce(context.Background())
		})
		if err != nil {
			return fmt.Errorf("failed to add cron job: %w", err)
		}
		s.entryID = id
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("Portfolio snapshot scheduler started", zap.String("schedule", s.config.Schedule))
	return nil
}

// Stop halts the scheduled job execution and waits for a running job
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler is not running")
	}
	s.running = false
	s.mu.Unlock()

	// a job in flight needs s.mu, so wait without holding it
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
		s.logger.Info("Portfolio snapshot scheduler stopped")
	case <-time.After(30 * time.Second):
		s.logger.Warn("Portfolio snapshot scheduler stop timed out")
	}

	return nil
}

// RunOnce takes a single snapshot and publishes it
func (s *Scheduler) RunOnce(ctx context.Context) (*entities.PortfolioSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "scheduler.portfolio_snapshot")
	defer span.End()

	start := time.Now()
	snap, err := s.service.PortfolioSnapshot(ctx)

	s.mu.Lock()
	s.lastRun = start
	s.lastErr = err
	if err == nil {
		s.lastSnapshot = snap
	}
	s.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordSnapshotRun("failed")
		s.logger.Error("Portfolio snapshot failed", zap.Error(err))
		return nil, err
	}

	metrics.UpdatePortfolio(
		snap.InvestmentCount,
		snap.TotalCommitted.InexactFloat64(),
		snap.TotalDistributed.InexactFloat64(),
		snap.TotalNetAssetValue.InexactFloat64(),
		snap.PooledTVPI.InexactFloat64(),
	)
	metrics.RecordSnapshotRun("success")
	if s.db != nil {
		database.RecordPoolStats(s.db)
	}

	span.SetAttributes(
		attribute.Int("investment_count", snap.InvestmentCount),
		attribute.String("pooled_tvpi", snap.PooledTVPI.String()),
	)
	s.logger.Debug("Portfolio snapshot published",
		zap.Int("investment_count", snap.InvestmentCount),
		zap.String("total_committed", snap.TotalCommitted.String()),
		zap.String("pooled_tvpi", snap.PooledTVPI.String()),
		zap.Int("zero_committed", snap.ZeroCommittedCount),
		zap.Duration("duration", time.Since(start)),
	)

	return snap, nil
}

// Status represents the current status of the scheduler
type Status struct {
	Running      bool                        `json:"running"`
	Schedule     string                      `json:"schedule"`
	LastRun      time.Time                   `json:"lastRun"`
	NextRun      time.Time                   `json:"nextRun"`
	LastSnapshot *entities.PortfolioSnapshot `json:"lastSnapshot,omitempty"`
	LastError    string                      `json:"lastError,omitempty"`
}

// GetStatus returns the current status of the scheduler
func (s *Scheduler) GetStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := Status{
		Running:      s.running,
		Schedule:     s.config.Schedule,
		LastRun:      s.lastRun,
		LastSnapshot: s.lastSnapshot,
	}
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
	}
	if entries := s.cron.Entries(); len(entries) > 0 {
		status.NextRun = entries[0].Next
	}
	return status
}
