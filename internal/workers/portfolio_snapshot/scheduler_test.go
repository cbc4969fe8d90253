package portfolio_snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/investment-service/investment_service/internal/domain/entities"
)

type MockSnapshotService struct {
	mock.Mock
}

func (m *MockSnapshotService) PortfolioSnapshot(ctx context.Context) (*entities.PortfolioSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PortfolioSnapshot), args.Error(1)
}

func TestScheduler_RunOnce(t *testing.T) {
	svc := new(MockSnapshotService)
	snap := &entities.PortfolioSnapshot{
		InvestmentCount:    2,
		TotalCommitted:     decimal.NewFromInt(1000),
		TotalDistributed:   decimal.NewFromInt(500),
		TotalNetAssetValue: decimal.NewFromInt(700),
		PooledTVPI:         decimal.RequireFromString("1.2"),
		TakenAt:            time.Now().UTC(),
	}
	svc.On("PortfolioSnapshot", mock.Anything).Return(snap, nil).Once()

	s := NewScheduler(svc, nil, DefaultConfig(), zaptest.NewLogger(t))

	got, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	status := s.GetStatus()
	assert.Equal(t, snap, status.LastSnapshot)
	assert.Empty(t, status.LastError)
	assert.False(t, status.LastRun.IsZero())
	svc.AssertExpectations(t)
}

func TestScheduler_RunOnceFailure(t *testing.T) {
	svc := new(MockSnapshotService)
	svc.On("PortfolioSnapshot", mock.Anything).Return(nil, errors.New("store offline")).Once()

	s := NewScheduler(svc, nil, DefaultConfig(), zaptest.NewLogger(t))

	_, err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Equal(t, "store offline", s.GetStatus().LastError)
}

func TestScheduler_StartStop(t *testing.T) {
	svc := new(MockSnapshotService)
	s := NewScheduler(svc, nil, Config{Schedule: "@every 1h"}, zaptest.NewLogger(t))

	require.NoError(t, s.Start())
	assert.Error(t, s.Start())

	status := s.GetStatus()
	assert.True(t, status.Running)
	assert.True(t, status.NextRun.After(time.Now()))

	require.NoError(t, s.Stop())
	assert.Error(t, s.Stop())
	assert.False(t, s.GetStatus().Running)
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewScheduler(new(MockSnapshotService), nil, Config{Schedule: "not a cron"}, zaptest.NewLogger(t))
	assert.Error(t, s.Start())
}
