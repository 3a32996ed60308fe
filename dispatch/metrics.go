// SPDX-License-Identifier: MIT

package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "lawt"

// Metrics records compute outcomes. A nil *Metrics records nothing.
type Metrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	modelAvailable prometheus.Gauge
}

// NewMetrics creates the compute collectors and registers them with reg.
// It panics if registration fails, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "compute_requests_total",
			Help:      "Compute calls by operation, method and outcome.",
		}, []string{"operation", "method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "compute_duration_seconds",
			Help:      "Wall time of compute calls, from decode to envelope.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"operation", "method"}),
		modelAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "model_backend_available",
			Help:      "1 when the model backend initialized, 0 otherwise.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.modelAvailable)

	return m
}

// observe records one finished call. Callers pass "unknown" for operations
// outside compute.Operations.
func (m *Metrics) observe(op, method, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, method, outcome).Inc()
	m.duration.WithLabelValues(op, method).Observe(took.Seconds())
}

// SetModelAvailable publishes the model backend's initialization outcome.
func (m *Metrics) SetModelAvailable(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.modelAvailable.Set(1)
		return
	}
	m.modelAvailable.Set(0)
}
