package repositories

import (
	"context"

	"github.com/investment-service/investment_service/internal/domain/entities"
)

// InvestmentRepository defines the interface for investment persistence.
//
// GetByID and Delete return an error matching entities.ErrInvestmentNotFound
// for unknown ids. List returns an empty slice, never nil, when nothing is
// stored. Create rejects a nil investment with entities.ErrInvalidInvestment
// and returns the stored record with its assigned ID. Implementations must be
// safe for concurrent use.
type InvestmentRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Investment, error)
	List(ctx context.Context) ([]*entities.Investment, error)
	Create(ctx context.Context, investment *entities.Investment) (*entities.Investment, error)
	Delete(ctx context.Context, id int64) error
}
