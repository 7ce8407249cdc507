package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus counters and histograms for every
// deliberation stage. A nil *Metrics is safe to call every method on, so
// callers that run with metrics disabled don't need a guard at every call
// site (the teacher's pkg/observability follows the same nil-receiver
// idiom).
type Metrics struct {
	registry *prometheus.Registry

	stageCalls    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewMetrics builds a Metrics instance from Config. Returns nil if metrics
// are disabled, so the caller can pass the result straight through without
// branching.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	cfg.SetDefaults()

	m := &Metrics{registry: prometheus.NewRegistry()}

	m.stageCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "stage",
			Name:      "calls_total",
			Help:      "Total number of deliberation stage calls, by mode, phase, and outcome",
		},
		[]string{"mode", "phase", "outcome"},
	)

	m.stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "stage",
			Name:      "duration_seconds",
			Help:      "Deliberation stage duration in seconds, by mode and phase",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~205s
		},
		[]string{"mode", "phase"},
	)

	m.registry.MustRegister(m.stageCalls, m.stageDuration)
	return m
}

// RecordStage records one completed stage call: its outcome ("ok",
// "skipped", or "error") and its wall-clock duration.
func (m *Metrics) RecordStage(mode, phase, outcome string, d time.Duration) {
	if m == nil || phase == "" {
		return
	}
	m.stageCalls.WithLabelValues(mode, phase, outcome).Inc()
	m.stageDuration.WithLabelValues(mode, phase).Observe(d.Seconds())
}

// Handler returns the Prometheus scrape handler. A disabled/nil Metrics
// returns 503 rather than panicking, so it can be mounted unconditionally.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry, or nil if disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
