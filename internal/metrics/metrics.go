// Package metrics provides the centralized Prometheus registry for the betting engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BetsPlacedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchside",
		Name:      "bets_placed_total",
		Help:      "Total number of bets accepted by the bookmaker",
	})
	BetsExcludedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchside",
		Name:      "bets_excluded_total",
		Help:      "Total number of fixtures excluded for lack of value",
	})
	BetsStakeTooLowTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchside",
		Name:      "bets_stake_too_low_total",
		Help:      "Total number of fixtures whose stake fell below the bookmaker minimum",
	})
	BetsFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchside",
		Name:      "bets_failed_total",
		Help:      "Total number of bet placements rejected by the bookmaker",
	})
	BetsSettledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchside",
		Name:      "bets_settled_total",
		Help:      "Total number of bets settled",
	})
	FixturesEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchside",
		Name:      "fixtures_evaluated_total",
		Help:      "Total number of fixtures run through the decision engine",
	})
	NegativeDrawProbTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchside",
		Name:      "negative_draw_prob_total",
		Help:      "Total number of evaluations producing a negative residual draw probability",
	})
)

// Gauge metrics
var (
	LeagueBankroll = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pitchside",
		Name:      "league_bankroll",
		Help:      "Current bankroll per league in currency units",
	}, []string{"league"})
	ConsolidatedBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitchside",
		Name:      "consolidated_bankroll",
		Help:      "Total bankroll across all leagues",
	})
)

// Histogram metrics
var (
	MarketVig = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitchside",
		Name:      "market_vig",
		Help:      "Bookmaker overround observed on quoted 1X2 markets",
		Buckets:   []float64{0.01, 0.02, 0.03, 0.04, 0.05, 0.075, 0.1, 0.15},
	})
	BetPlacementLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitchside",
		Name:      "bet_placement_latency_seconds",
		Help:      "Latency of bet placement operations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(BetsPlacedTotal)
		registry.MustRegister(BetsExcludedTotal)
		registry.MustRegister(BetsStakeTooLowTotal)
		registry.MustRegister(BetsFailedTotal)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(FixturesEvaluatedTotal)
		registry.MustRegister(NegativeDrawProbTotal)

		registry.MustRegister(LeagueBankroll)
		registry.MustRegister(ConsolidatedBankroll)

		registry.MustRegister(MarketVig)
		registry.MustRegister(BetPlacementLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordBetPlaced records an accepted bet placement.
func RecordBetPlaced() {
	BetsPlacedTotal.Inc()
}

// RecordBetExcluded records a fixture excluded for lack of value.
func RecordBetExcluded() {
	BetsExcludedTotal.Inc()
}

// RecordStakeTooLow records a stake below the bookmaker minimum.
func RecordStakeTooLow() {
	BetsStakeTooLowTotal.Inc()
}

// RecordBetFailed records a rejected placement.
func RecordBetFailed() {
	BetsFailedTotal.Inc()
}

// RecordBetSettled records a settlement.
func RecordBetSettled() {
	BetsSettledTotal.Inc()
}

// RecordFixtureEvaluated records one pass through the decision engine.
func RecordFixtureEvaluated(vig float64) {
	FixturesEvaluatedTotal.Inc()
	MarketVig.Observe(vig)
}

// RecordNegativeDrawProb records a negative residual draw probability.
func RecordNegativeDrawProb() {
	NegativeDrawProbTotal.Inc()
}

// UpdateLeagueBankroll updates one league's bankroll gauge.
func UpdateLeagueBankroll(league string, amount float64) {
	LeagueBankroll.WithLabelValues(league).Set(amount)
}

// UpdateConsolidatedBankroll updates the consolidated bankroll gauge.
func UpdateConsolidatedBankroll(amount float64) {
	ConsolidatedBankroll.Set(amount)
}
