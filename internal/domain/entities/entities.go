package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// TVPIResult is the response for a TVPI calculation
type TVPIResult struct {
	InvestmentID int64           `json:"investmentId"`
	TVPI         decimal.Decimal `json:"tvpi"`
}

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"statusCode"`
	Timestamp  time.Time `json:"timestamp"`
}

// PortfolioSnapshot aggregates every stored investment at a point in time
type PortfolioSnapshot struct {
	InvestmentCount    int             `json:"investmentCount"`
	TotalCommitted     decimal.Decimal `json:"totalCommitted"`
	TotalDistributed   decimal.Decimal `json:"totalDistributed"`
	TotalNetAssetValue decimal.Decimal `json:"totalNetAssetValue"`
	PooledTVPI         decimal.Decimal `json:"pooledTvpi"`
	ZeroCommittedCount int             `json:"zeroCommittedCount"`
	TakenAt            time.Time       `json:"takenAt"`
}

// NewPortfolioSnapshot sums the capital figures of the given investments.
// PooledTVPI is total value over total committed, and stays zero when
// nothing is committed.
func NewPortfolioSnapshot(investments []*Investment, takenAt time.Time) *PortfolioSnapshot {
	snap := &PortfolioSnapshot{
		TotalCommitted:     decimal.Zero,
		TotalDistributed:   decimal.Zero,
		TotalNetAssetValue: decimal.Zero,
		PooledTVPI:         decimal.Zero,
		TakenAt:            takenAt,
	}
	for _, inv := range investments {
		if inv == nil {
			continue
		}
		snap.InvestmentCount++
		snap.TotalCommitted = snap.TotalCommitted.Add(inv.CommittedCapital)
		snap.TotalDistributed = snap.TotalDistributed.Add(inv.DistributedCapital)
		snap.TotalNetAssetValue = snap.TotalNetAssetValue.Add(inv.CurrentNetAssetValue)
		if inv.CommittedCapital.IsZero() {
			snap.ZeroCommittedCount++
		}
	}
	if snap.TotalCommitted.IsPositive() {
		snap.PooledTVPI = snap.TotalNetAssetValue.Add(snap.TotalDistributed).Div(snap.TotalCommitted)
	}
	return snap
}
