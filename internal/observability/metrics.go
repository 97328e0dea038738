package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the dashboard.
type Metrics struct {
	APIRequests        *prometheus.CounterVec   // labels: resource, outcome={success,error,unauthorized}
	APIRequestDuration *prometheus.HistogramVec // labels: resource
	PageFallbacks      *prometheus.CounterVec   // labels: page
	PageStaleResponses *prometheus.CounterVec   // labels: page
	Logins             *prometheus.CounterVec   // labels: outcome={success,rejected,invalid}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.APIRequests,
		m.APIRequestDuration,
		m.PageFallbacks,
		m.PageStaleResponses,
		m.Logins,
	)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// NewUnregisteredMetrics creates Metrics for short-lived processes, such as
// the CLI, that never expose a /metrics endpoint.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water_dashboard",
			Name:      "api_requests_total",
			Help:      "Monitoring API requests by resource and outcome.",
		}, []string{"resource", "outcome"}),
		APIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "water_dashboard",
			Name:      "api_request_duration_seconds",
			Help:      "Monitoring API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"resource"}),
		PageFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water_dashboard",
			Name:      "page_fallbacks_total",
			Help:      "Page loads that substituted the fallback dataset after a failed fetch.",
		}, []string{"page"}),
		PageStaleResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water_dashboard",
			Name:      "page_stale_responses_total",
			Help:      "Fetch results discarded because a newer fetch had been issued.",
		}, []string{"page"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water_dashboard",
			Name:      "logins_total",
			Help:      "Login form submissions by outcome.",
		}, []string{"outcome"}),
	}
}
