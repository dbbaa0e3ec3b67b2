// Package metrics holds the Prometheus collectors of the HTTP server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request and stream statistics. A nil *Metrics is a no-op.
type Metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	openStreams prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		openStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sse_streams_open",
			Help: "Number of open server-sent event streams.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.openStreams)
	return m
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// StreamOpened increments the open stream gauge.
func (m *Metrics) StreamOpened() {
	if m == nil {
		return
	}
	m.openStreams.Inc()
}

// StreamClosed decrements the open stream gauge.
func (m *Metrics) StreamClosed() {
	if m == nil {
		return
	}
	m.openStreams.Dec()
}
