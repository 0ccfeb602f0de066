// Package metrics provides the centralized Prometheus metrics registry for the evaluation engine.
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
	EvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "best_bet_nfl",
		Name:      "evaluations_total",
		Help:      "Total number of single bet evaluations by market",
	}, []string{"market"})
	ParlayEvaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "best_bet_nfl",
		Name:      "parlay_evaluations_total",
		Help:      "Total number of parlay evaluations",
	})
	BatchEvaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "best_bet_nfl",
		Name:      "batch_evaluations_total",
		Help:      "Total number of batch evaluations",
	})
	EvaluationErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "best_bet_nfl",
		Name:      "evaluation_errors_total",
		Help:      "Total number of failed evaluations",
	})
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "best_bet_nfl",
		Name:      "provider_requests_total",
		Help:      "Total number of statistics provider requests by endpoint",
	}, []string{"endpoint"})
	ProviderErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "best_bet_nfl",
		Name:      "provider_errors_total",
		Help:      "Total number of failed provider requests by endpoint",
	}, []string{"endpoint"})
	ResolverMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "best_bet_nfl",
		Name:      "resolver_misses_total",
		Help:      "Total number of entity resolution misses by entity kind",
	}, []string{"kind"})
	DegradedPredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "best_bet_nfl",
		Name:      "degraded_predictions_total",
		Help:      "Total number of predictions that fell back to the market-implied prior",
	})
)

// Gauge metrics
var (
	CacheHitRatio = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "best_bet_nfl",
		Name:      "cache_hit_ratio",
		Help:      "Hit ratio for each memoization cache",
	}, []string{"cache"})
	CacheEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "best_bet_nfl",
		Name:      "cache_entries",
		Help:      "Number of entries in each memoization cache",
	}, []string{"cache"})
)

// Histogram metrics
var (
	EvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "best_bet_nfl",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of single bet evaluations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "best_bet_nfl",
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of provider requests in seconds by endpoint",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(EvaluationsTotal)
		registry.MustRegister(ParlayEvaluationsTotal)
		registry.MustRegister(BatchEvaluationsTotal)
		registry.MustRegister(EvaluationErrorsTotal)
		registry.MustRegister(ProviderRequestsTotal)
		registry.MustRegister(ProviderErrorsTotal)
		registry.MustRegister(ResolverMissesTotal)
		registry.MustRegister(DegradedPredictionsTotal)

		// Register gauge metrics
		registry.MustRegister(CacheHitRatio)
		registry.MustRegister(CacheEntries)

		// Register histogram metrics
		registry.MustRegister(EvaluationDuration)
		registry.MustRegister(ProviderRequestDuration)
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

// RecordEvaluation records a completed single bet evaluation.
func RecordEvaluation(market string, durationSeconds float64) {
	EvaluationsTotal.WithLabelValues(market).Inc()
	EvaluationDuration.Observe(durationSeconds)
}

// RecordParlayEvaluation records a completed parlay evaluation.
func RecordParlayEvaluation() {
	ParlayEvaluationsTotal.Inc()
}

// RecordBatchEvaluation records a completed batch evaluation.
func RecordBatchEvaluation() {
	BatchEvaluationsTotal.Inc()
}

// RecordEvaluationError records a failed evaluation.
func RecordEvaluationError() {
	EvaluationErrorsTotal.Inc()
}

// RecordProviderRequest records a provider request and its duration.
func RecordProviderRequest(endpoint string, durationSeconds float64) {
	ProviderRequestsTotal.WithLabelValues(endpoint).Inc()
	ProviderRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordProviderError records a failed provider request.
func RecordProviderError(endpoint string) {
	ProviderErrorsTotal.WithLabelValues(endpoint).Inc()
}

// RecordResolverMiss records an entity resolution miss.
func RecordResolverMiss(kind string) {
	ResolverMissesTotal.WithLabelValues(kind).Inc()
}

// RecordDegradedPrediction records a fallback to the market-implied prior.
func RecordDegradedPrediction() {
	DegradedPredictionsTotal.Inc()
}

// UpdateCacheStats updates the cache gauges for a named cache.
func UpdateCacheStats(name string, entries int, hitRatio float64) {
	CacheEntries.WithLabelValues(name).Set(float64(entries))
	CacheHitRatio.WithLabelValues(name).Set(hitRatio)
}
