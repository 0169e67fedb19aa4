package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects prometheus metrics for the graph execution engine.
// A nil or disabled Metrics accepts every recording call as a no-op, so
// callers never need to guard.
type Metrics struct {
	config MetricsConfig

	solvesTotal       *prometheus.CounterVec
	solveDuration     *prometheus.HistogramVec
	cycleIterations   prometheus.Histogram
	nonConvergence    prometheus.Counter
	sweepSamplesTotal prometheus.Counter
	signaturesStored  prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		solvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solves_total",
				Help:      "Total number of graph solves by outcome",
			},
			[]string{"status"},
		),
		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solve_duration_seconds",
				Help:      "Duration of graph solves in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		cycleIterations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cycle_iterations",
				Help:      "Iterations needed by cyclic blocks per solve",
				Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
			},
		),
		nonConvergence: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "non_convergence_total",
				Help:      "Total cyclic blocks that exhausted their iteration budget",
			},
		),
		sweepSamplesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweep_samples_total",
				Help:      "Total sweep samples solved",
			},
		),
		signaturesStored: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "signatures_stored",
				Help:      "Current number of signatures in the library",
			},
		),
	}

	registry.MustRegister(
		m.solvesTotal,
		m.solveDuration,
		m.cycleIterations,
		m.nonConvergence,
		m.sweepSamplesTotal,
		m.signaturesStored,
	)

	return m, nil
}

// enabled reports whether recording should happen.
func (m *Metrics) enabled() bool {
	return m != nil && m.config.Enabled
}

// RecordSolve records one solve attempt with its outcome and duration.
func (m *Metrics) RecordSolve(status string, d time.Duration) {
	if !m.enabled() {
		return
	}
	m.solvesTotal.WithLabelValues(status).Inc()
	m.solveDuration.WithLabelValues(status).Observe(d.Seconds())
}

// ObserveCycleIterations records how many iterations a solve's cyclic
// block ran. Zero (pure DAG) is not observed.
func (m *Metrics) ObserveCycleIterations(n int) {
	if !m.enabled() || n == 0 {
		return
	}
	m.cycleIterations.Observe(float64(n))
}

// RecordNonConvergence counts a cyclic block that hit its iteration cap.
func (m *Metrics) RecordNonConvergence() {
	if !m.enabled() {
		return
	}
	m.nonConvergence.Inc()
}

// AddSweepSamples counts solved sweep samples.
func (m *Metrics) AddSweepSamples(n int) {
	if !m.enabled() {
		return
	}
	m.sweepSamplesTotal.Add(float64(n))
}

// SetSignaturesStored reports the current library size.
func (m *Metrics) SetSignaturesStored(n int) {
	if !m.enabled() {
		return
	}
	m.signaturesStored.Set(float64(n))
}

// Handler returns an HTTP handler exposing the metrics, or nil when
// metrics are disabled.
func (m *Metrics) Handler() http.Handler {
	if !m.enabled() {
		return nil
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
