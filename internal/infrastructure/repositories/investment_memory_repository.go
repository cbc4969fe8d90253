package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/investment-service/investment_service/internal/domain/entities"
	"github.com/investment-service/investment_service/internal/domain/repositories"
)

var _ repositories.InvestmentRepository = (*MemoryInvestmentRepository)(nil)

// MemoryInvestmentRepository keeps investments in process memory.
// Records are copied on the way in and out.
type MemoryInvestmentRepository struct {
	mu          sync.RWMutex
	investments map[int64]*entities.Investment
	nextID      int64
	now         func() time.Time
}

// NewMemoryInvestmentRepository creates an empty in-memory repository
func NewMemoryInvestmentRepository() *MemoryInvestmentRepository {
	return &MemoryInvestmentRepository{
		investments: make(map[int64]*entities.Investment),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GetByID retrieves an investment by ID
func (r *MemoryInvestmentRepository) GetByID(ctx context.Context, id int64) (*entities.Investment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.investments[id]
	if !ok {
		return nil, entities.InvestmentNotFound(id)
	}
	return inv.Clone(), nil
}

// List returns every stored investment ordered by ID
func (r *MemoryInvestmentRepository) List(ctx context.Context) ([]*entities.Investment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Investment, 0, len(r.investments))
	for _, inv := range r.investments {
		result = append(result, inv.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Create stores a copy of the investment under a newly assigned ID.
// Any ID already set on the argument is ignored.
func (r *MemoryInvestmentRepository) Create(ctx context.Context, investment *entities.Investment) (*entities.Investment, error) {
	if investment == nil {
		return nil, entities.ErrInvalidInvestment
	}
	if err := investment.CheckAmountBounds(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := investment.Clone()
	stored.ID = r.nextID
	now := r.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.investments[stored.ID] = stored

	return stored.Clone(), nil
}

// Delete removes an investment. Its ID is never handed out again.
func (r *MemoryInvestmentRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.investments[id]; !ok {
		return entities.InvestmentNotFound(id)
	}
	delete(r.investments, id)
	return nil
}
