// Package metrics provides the centralized Prometheus metrics registry for
// the pricing engine.
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
	DecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yudor",
		Name:      "decisions_total",
		Help:      "Total number of decisions produced, by class",
	}, []string{"class"})
	ModelFitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "yudor",
		Name:      "model_fits_total",
		Help:      "Total number of successful model fits",
	})
	ModelFitFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "yudor",
		Name:      "model_fit_failures_total",
		Help:      "Total number of failed model fits",
	})
	FixturesPricedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "yudor",
		Name:      "fixtures_priced_total",
		Help:      "Total number of fixtures priced",
	})
	DataSourceRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yudor",
		Name:      "datasource_requests_total",
		Help:      "Total number of upstream data source requests, by source and status",
	}, []string{"source", "status"})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "yudor",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of circuit breaker trips",
	})
)

// Gauge metrics
var (
	CachedModels = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "yudor",
		Name:      "cached_models",
		Help:      "Number of fitted models currently cached",
	})
	ConnectedStreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "yudor",
		Name:      "connected_stream_clients",
		Help:      "Number of connected decision stream clients",
	})
	LastConfidenceScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "yudor",
		Name:      "last_confidence_score",
		Help:      "Confidence score of the most recent decision per league",
	}, []string{"league"})
)

// Histogram metrics
var (
	PricingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "yudor",
		Name:      "pricing_duration_seconds",
		Help:      "Duration of a full pricing pipeline run in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	ModelFitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "yudor",
		Name:      "model_fit_duration_seconds",
		Help:      "Duration of model fitting in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(DecisionsTotal)
		registry.MustRegister(ModelFitsTotal)
		registry.MustRegister(ModelFitFailuresTotal)
		registry.MustRegister(FixturesPricedTotal)
		registry.MustRegister(DataSourceRequestsTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		// Register gauge metrics
		registry.MustRegister(CachedModels)
		registry.MustRegister(ConnectedStreamClients)
		registry.MustRegister(LastConfidenceScore)

		// Register histogram metrics
		registry.MustRegister(PricingDuration)
		registry.MustRegister(ModelFitDuration)
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

// NewPricingTimer starts a timer observing into PricingDuration.
func NewPricingTimer() *prometheus.Timer {
	return prometheus.NewTimer(PricingDuration)
}

// RecordModelFit records a successful fit and its duration.
func RecordModelFit(durationSeconds float64) {
	ModelFitsTotal.Inc()
	ModelFitDuration.Observe(durationSeconds)
}

// RecordModelFitFailure records a failed fit attempt.
func RecordModelFitFailure() {
	ModelFitFailuresTotal.Inc()
}

// RecordFixturePriced records one priced fixture.
func RecordFixturePriced() {
	FixturesPricedTotal.Inc()
}

// RecordDataSourceRequest records an upstream request outcome.
func RecordDataSourceRequest(source, status string) {
	DataSourceRequestsTotal.WithLabelValues(source, status).Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}

// UpdateCachedModels updates the cached model count gauge.
func UpdateCachedModels(count float64) {
	CachedModels.Set(count)
}

// UpdateStreamClients updates the connected stream client gauge.
func UpdateStreamClients(count float64) {
	ConnectedStreamClients.Set(count)
}

// UpdateLastConfidence updates the last confidence gauge for a league.
func UpdateLastConfidence(league string, score float64) {
	LastConfidenceScore.WithLabelValues(league).Set(score)
}
