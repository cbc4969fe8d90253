package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/investment-service/investment_service/internal/domain/entities"
	"github.com/investment-service/investment_service/internal/domain/repositories"
	apperrors "github.com/investment-service/investment_service/pkg/errors"
	"github.com/investment-service/investment_service/pkg/metrics"
	"github.com/investment-service/investment_service/pkg/tracing"
)

const investmentsTable = "investments"

const investmentColumns = `id, name, committed_capital, distributed_capital,
	current_net_asset_value, created_at, updated_at`

var _ repositories.InvestmentRepository = (*PostgresInvestmentRepository)(nil)

// PostgresInvestmentRepository implements the investment repository using PostgreSQL
type PostgresInvestmentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgresInvestmentRepository creates a new investment repository
func NewPostgresInvestmentRepository(db *sqlx.DB, logger *zap.Logger) *PostgresInvestmentRepository {
	return &PostgresInvestmentRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves an investment by ID
func (r *PostgresInvestmentRepository) GetByID(ctx context.Context, id int64) (*entities.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1`

	ctx, span := tracing.StartDBSpan(ctx, tracing.DBSpanConfig{Operation: "SELECT", Table: investmentsTable})
	start := time.Now()

	inv := &entities.Investment{}
	err := r.db.GetContext(ctx, inv, query, id)

	metrics.RecordDatabaseQuery("select", investmentsTable, time.Since(start).Seconds())
	tracing.EndDBSpan(span, err, -1)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.InvestmentNotFound(id)
		}
		r.logger.Error("Failed to get investment", zap.Error(err), zap.Int64("investment_id", id))
		return nil, apperrors.Wrapf(err, "failed to get investment %d", id)
	}

	return inv, nil
}

// List retrieves all investments ordered by ID
func (r *PostgresInvestmentRepository) List(ctx context.Context) ([]*entities.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments ORDER BY id`

	ctx, span := tracing.StartDBSpan(ctx, tracing.DBSpanConfig{Operation: "SELECT", Table: investmentsTable})
	start := time.Now()

	investments := make([]*entities.Investment, 0)
	err := r.db.SelectContext(ctx, &investments, query)

	metrics.RecordDatabaseQuery("select", investmentsTable, time.Since(start).Seconds())
	tracing.EndDBSpan(span, err, int64(len(investments)))

	if err != nil {
		r.logger.Error("Failed to list investments", zap.Error(err))
		return nil, apperrors.Wrap(err, "failed to list investments")
	}

	return investments, nil
}

// Create inserts an investment and returns the stored row with its assigned ID
func (r *PostgresInvestmentRepository) Create(ctx context.Context, investment *entities.Investment) (*entities.Investment, error) {
	if investment == nil {
		return nil, entities.ErrInvalidInvestment
	}
	// NUMERIC(28,10) would round or overflow anything wider
	if err := investment.CheckAmountBounds(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO investments (
			name, committed_capital, distributed_capital, current_net_asset_value,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $5
		)
		RETURNING ` + investmentColumns

	ctx, span := tracing.StartDBSpan(ctx, tracing.DBSpanConfig{Operation: "INSERT", Table: investmentsTable})
	start := time.Now()

	created := &entities.Investment{}
	err := r.db.QueryRowxContext(ctx, query,
		investment.Name,
		investment.CommittedCapital,
		investment.DistributedCapital,
		investment.CurrentNetAssetValue,
		time.Now().UTC(),
	).StructScan(created)

	metrics.RecordDatabaseQuery("insert", investmentsTable, time.Since(start).Seconds())
	tracing.EndDBSpan(span, err, 1)

	if err != nil {
		r.logger.Error("Failed to create investment", zap.Error(err), zap.String("name", investment.Name))
		return nil, apperrors.Wrap(err, "failed to create investment")
	}

	r.logger.Debug("Investment created", zap.Int64("investment_id", created.ID))
	return created, nil
}

// Delete removes an investment by ID
func (r *PostgresInvestmentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM investments WHERE id = $1`

	ctx, span := tracing.StartDBSpan(ctx, tracing.DBSpanConfig{Operation: "DELETE", Table: investmentsTable})
	start := time.Now()

	var rowsAffected int64 = -1
	result, err := r.db.ExecContext(ctx, query, id)
	if err == nil {
		rowsAffected, err = result.RowsAffected()
	}

	metrics.RecordDatabaseQuery("delete", investmentsTable, time.Since(start).Seconds())
	tracing.EndDBSpan(span, err, rowsAffected)

	if err != nil {
		r.logger.Error("Failed to delete investment", zap.Error(err), zap.Int64("investment_id", id))
		return apperrors.Wrapf(err, "failed to delete investment %d", id)
	}
	if rowsAffected == 0 {
		return entities.InvestmentNotFound(id)
	}

	return nil
}
