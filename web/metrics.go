package web

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is an optional dispatcher observer (off by default, per
// SPEC_FULL's domain-stack table): when set on a Dispatcher, every dispatch
// records a request count and a latency observation keyed by method and
// matched pattern.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics builds a Metrics registered against reg. Pass
// prometheus.NewRegistry() (or prometheus.DefaultRegisterer wrapped
// accordingly) rather than nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mizu_web_requests_total",
			Help: "Total dispatched requests, by method, pattern, and status.",
		}, []string{"method", "pattern", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mizu_web_request_duration_seconds",
			Help:    "Dispatch latency, by method and pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "pattern"}),
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

func (m *Metrics) observe(method, pattern, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, pattern, status).Inc()
	m.latency.WithLabelValues(method, pattern).Observe(d.Seconds())
}
