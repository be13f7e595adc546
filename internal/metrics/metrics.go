// Package metrics exposes Prometheus metrics for import runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for the runs counter.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeEmpty   = "empty"
)

// Metrics tracks import activity. Use New to get an instance backed by its
// own registry so tests and multiple services do not collide.
type Metrics struct {
	registry *prometheus.Registry

	runs        *prometheus.CounterVec
	created     prometheus.Counter
	updated     prometheus.Counter
	runDuration prometheus.Histogram
}

// New creates a Metrics instance with a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	m := &Metrics{registry: registry}

	m.runs = auto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ffcv_import_runs_total",
			Help: "Import runs by outcome.",
		},
		[]string{"outcome"},
	)
	m.created = auto.NewCounter(prometheus.CounterOpts{
		Name: "ffcv_import_fixtures_created_total",
		Help: "Calendar entries created by the importer.",
	})
	m.updated = auto.NewCounter(prometheus.CounterOpts{
		Name: "ffcv_import_fixtures_updated_total",
		Help: "Calendar entries updated by the importer.",
	})
	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ffcv_import_run_duration_seconds",
		Help:    "Wall-clock duration of import runs.",
		Buckets: prometheus.DefBuckets,
	})

	return m
}

// Registry returns the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRun records the outcome of one import run.
func (m *Metrics) RecordRun(outcome string, created, updated int, seconds float64) {
	m.runs.WithLabelValues(outcome).Inc()
	m.created.Add(float64(created))
	m.updated.Add(float64(updated))
	m.runDuration.Observe(seconds)
}
