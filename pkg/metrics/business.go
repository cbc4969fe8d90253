package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Investment lifecycle metrics
	InvestmentsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "investment_investments_created_total",
			Help: "Total number of investments created",
		},
	)

	InvestmentsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "investment_investments_deleted_total",
			Help: "Total number of investments deleted",
		},
	)

	TVPICalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "investment_tvpi_calculations_total",
			Help: "Total number of TVPI calculations",
		},
		[]string{"result"}, // success, zero_committed, or the failure's error type
	)

	// Portfolio gauges, refreshed by the snapshot worker
	PortfolioInvestmentsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "investment_portfolio_investments",
			Help: "Number of stored investments",
		},
	)

	PortfolioCapitalGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "investment_portfolio_capital",
			Help: "Portfolio capital totals",
		},
		[]string{"kind"}, // committed, distributed, nav
	)

	PortfolioTVPIGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "investment_portfolio_tvpi",
			Help: "Pooled TVPI across all investments",
		},
	)

	SnapshotRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "investment_portfolio_snapshot_runs_total",
			Help: "Total number of portfolio snapshot runs",
		},
		[]string{"status"},
	)
)

// RecordInvestmentCreated increments the created counter
func RecordInvestmentCreated() {
	InvestmentsCreatedTotal.Inc()
}

// RecordInvestmentDeleted increments the deleted counter
func RecordInvestmentDeleted() {
	InvestmentsDeletedTotal.Inc()
}

// RecordTVPICalculation records the outcome of a TVPI calculation
func RecordTVPICalculation(result string) {
	TVPICalculationsTotal.WithLabelValues(result).Inc()
}

// UpdatePortfolio sets the portfolio gauges. Values are approximations for
// dashboards only.
func UpdatePortfolio(count int, committed, distributed, nav, tvpi float64) {
	PortfolioInvestmentsGauge.Set(float64(count))
	PortfolioCapitalGauge.WithLabelValues("committed").Set(committed)
	PortfolioCapitalGauge.WithLabelValues("distributed").Set(distributed)
	PortfolioCapitalGauge.WithLabelValues("nav").Set(nav)
	PortfolioTVPIGauge.Set(tvpi)
}

// RecordSnapshotRun records a snapshot worker run
func RecordSnapshotRun(status string) {
	SnapshotRunsTotal.WithLabelValues(status).Inc()
}
