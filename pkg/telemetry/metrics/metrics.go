package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "titan"

// Metrics holds all gateway instrumentation, registered against a private
// registry so tests never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec

	providerAttemptsTotal *prometheus.CounterVec
	escalationsTotal      *prometheus.CounterVec
	turnsCompletedTotal   *prometheus.CounterVec
	turnAttempts          prometheus.Histogram
}

// New creates and registers all gateway metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests handled",
			},
			[]string{"route", "method", "status"},
		),

		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"route"},
		),

		providerAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_attempts_total",
				Help:      "Backend attempts by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),

		escalationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "escalations_total",
				Help:      "Retry escalation steps applied",
			},
			[]string{"step"},
		),

		turnsCompletedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "turns_completed_total",
				Help:      "Successful turns by serving provider",
			},
			[]string{"provider"},
		),

		turnAttempts: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "turn_attempts",
				Help:      "Backend attempts consumed per successful turn",
				Buckets:   []float64{1, 2, 3},
			},
		),
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.providerAttemptsTotal,
		m.escalationsTotal,
		m.turnsCompletedTotal,
		m.turnAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(route, method, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, method, status).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// EscalationApplied implements the session observer contract.
func (m *Metrics) EscalationApplied(step string) {
	if m == nil {
		return
	}
	m.escalationsTotal.WithLabelValues(step).Inc()
}

// BackendError implements the session observer contract.
func (m *Metrics) BackendError(providerID string) {
	if m == nil {
		return
	}
	m.providerAttemptsTotal.WithLabelValues(providerID, "error").Inc()
}

// TurnCompleted implements the session observer contract.
func (m *Metrics) TurnCompleted(providerID string, attempts int) {
	if m == nil {
		return
	}
	m.providerAttemptsTotal.WithLabelValues(providerID, "success").Inc()
	m.turnsCompletedTotal.WithLabelValues(providerID).Inc()
	m.turnAttempts.Observe(float64(attempts))
}

// Handler returns the scrape endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
