package investment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/investment-service/investment_service/internal/domain/entities"
	apperrors "github.com/investment-service/investment_service/pkg/errors"
	"github.com/investment-service/investment_service/pkg/logger"
)

// MockInvestmentRepository is a mock implementation of InvestmentRepository
type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) GetByID(ctx context.Context, id int64) (*entities.Investment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) List(ctx context.Context) ([]*entities.Investment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) Create(ctx context.Context, investment *entities.Investment) (*entities.Investment, error) {
	args := m.Called(ctx, investment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService() (*Service, *MockInvestmentRepository) {
	repo := new(MockInvestmentRepository)
	return NewService(repo, logger.NewNop()), repo
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateTVPI_Success(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(1)).Return(&entities.Investment{
		ID:                   1,
		Name:                 "Tech Startup Fund",
		CommittedCapital:     dec("1000000"),
		DistributedCapital:   dec("200000"),
		CurrentNetAssetValue: dec("1500000"),
	}, nil)

	result, err := service.CalculateTVPI(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.InvestmentID)
	assert.True(t, dec("1.7").Equal(result.TVPI))
	repo.AssertExpectations(t)
}

func TestCalculateTVPI_ZeroCommittedCapital(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(2)).Return(&entities.Investment{
		ID:                   2,
		Name:                 "Empty Fund",
		CommittedCapital:     decimal.Zero,
		DistributedCapital:   dec("200000"),
		CurrentNetAssetValue: dec("1500000"),
	}, nil)

	result, err := service.CalculateTVPI(ctx, 2)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, entities.ErrZeroCommittedCapital)
	assert.Equal(t, "Committed Capital cannot be zero when calculating TVPI.", err.Error())
}

func TestCalculateTVPI_NotFound(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(7)).Return(nil, entities.InvestmentNotFound(7))

	_, err := service.CalculateTVPI(ctx, 7)
	assert.ErrorIs(t, err, entities.ErrInvestmentNotFound)
}

func TestInvalidIDsNeverReachRepository(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	for _, id := range []int64{0, -1} {
		_, err := service.GetInvestment(ctx, id)
		assert.ErrorIs(t, err, entities.ErrInvalidInvestmentID)

		_, err = service.CalculateTVPI(ctx, id)
		assert.ErrorIs(t, err, entities.ErrInvalidInvestmentID)

		err = service.DeleteInvestment(ctx, id)
		assert.ErrorIs(t, err, entities.ErrInvalidInvestmentID)
		assert.Equal(t, "Investment ID must be greater than 0", err.Error())
	}

	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCreateInvestment_Success(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(inv *entities.Investment) bool {
		return inv.Name == "Tech Startup Fund" && inv.ID == 0 && inv.CommittedCapital.Equal(dec("1000000"))
	})).Return(&entities.Investment{
		ID:                   1,
		Name:                 "Tech Startup Fund",
		CommittedCapital:     dec("1000000"),
		DistributedCapital:   dec("200000"),
		CurrentNetAssetValue: dec("1500000"),
	}, nil)

	created, err := service.CreateInvestment(ctx, &CreateInvestmentInput{
		Name:                 "  Tech Startup Fund ",
		CommittedCapital:     dec("1000000"),
		DistributedCapital:   dec("200000"),
		CurrentNetAssetValue: dec("1500000"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	repo.AssertExpectations(t)
}

func TestCreateInvestment_RejectedBeforeRepository(t *testing.T) {
	tests := []struct {
		name    string
		input   *CreateInvestmentInput
		wantMsg string
	}{
		{"nil input", nil, "Investment object cannot be null"},
		{"empty name", &CreateInvestmentInput{Name: "", CommittedCapital: dec("100")}, "Investment name is required"},
		{"blank name", &CreateInvestmentInput{Name: "   ", CommittedCapital: dec("100")}, "Investment name is required"},
		{"negative committed", &CreateInvestmentInput{Name: "Fund", CommittedCapital: dec("-0.01")}, "Committed capital cannot be negative"},
		{"huge negative exponent", &CreateInvestmentInput{Name: "Fund", CommittedCapital: dec("1e-5000000")},
			"Committed capital must have at most 10 decimal places and 18 integer digits"},
		{"too many decimal places", &CreateInvestmentInput{Name: "Fund", CommittedCapital: dec("1"), DistributedCapital: dec("0.00000000001")},
			"Distributed capital must have at most 10 decimal places and 18 integer digits"},
		{"too many integer digits", &CreateInvestmentInput{Name: "Fund", CommittedCapital: dec("1"), CurrentNetAssetValue: dec("1000000000000000000")},
			"Current net asset value must have at most 10 decimal places and 18 integer digits"},
		{"huge positive exponent", &CreateInvestmentInput{Name: "Fund", CommittedCapital: dec("1e400")},
			"Committed capital must have at most 10 decimal places and 18 integer digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newTestService()

			created, err := service.CreateInvestment(context.Background(), tt.input)

			assert.Nil(t, created)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetType(err))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateInvestment_AmountsAtStoragePrecisionAccepted(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*entities.Investment")).
		Return(&entities.Investment{ID: 9, Name: "Edge"}, nil)

	_, err := service.CreateInvestment(ctx, &CreateInvestmentInput{
		Name:                 "Edge",
		CommittedCapital:     dec("999999999999999999.9999999999"),
		DistributedCapital:   dec("0.0000000001"),
		CurrentNetAssetValue: dec("12.50000000000000000000"),
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreateInvestment_ZeroCommittedAllowed(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*entities.Investment")).
		Return(&entities.Investment{ID: 4, Name: "Seed"}, nil)

	created, err := service.CreateInvestment(ctx, &CreateInvestmentInput{Name: "Seed"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
}

func TestCreateInvestment_RepositoryError(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()
	dbErr := errors.New("connection lost")

	repo.On("Create", ctx, mock.AnythingOfType("*entities.Investment")).Return(nil, dbErr)

	_, err := service.CreateInvestment(ctx, &CreateInvestmentInput{Name: "Fund", CommittedCapital: dec("1")})
	assert.ErrorIs(t, err, dbErr)
}

func TestDeleteInvestment(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	repo.On("Delete", ctx, int64(3)).Return(nil)
	repo.On("Delete", ctx, int64(4)).Return(entities.InvestmentNotFound(4))

	assert.NoError(t, service.DeleteInvestment(ctx, 3))
	assert.ErrorIs(t, service.DeleteInvestment(ctx, 4), entities.ErrInvestmentNotFound)
	repo.AssertExpectations(t)
}

func TestListInvestments_Empty(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	repo.On("List", ctx).Return([]*entities.Investment{}, nil)

	list, err := service.ListInvestments(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestPortfolioSnapshot(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	repo.On("List", ctx).Return([]*entities.Investment{
		{ID: 1, CommittedCapital: dec("500000"), DistributedCapital: dec("100000"), CurrentNetAssetValue: dec("600000")},
		{ID: 2, CommittedCapital: dec("500000"), DistributedCapital: dec("0"), CurrentNetAssetValue: dec("300000")},
	}, nil)

	snap, err := service.PortfolioSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.InvestmentCount)
	assert.True(t, dec("1").Equal(snap.PooledTVPI))
	assert.Equal(t, fixed, snap.TakenAt)
}
