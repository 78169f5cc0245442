// Package metrics exposes the Prometheus collectors for the API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the HTTP and cache collectors.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	cacheResults    *prometheus.CounterVec
	storeErrors     prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metascan_http_requests_total",
			Help: "HTTP requests processed, by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "metascan_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metascan_http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
		cacheResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metascan_response_cache_results_total",
			Help: "Response cache lookups, by resource and result.",
		}, []string{"resource", "result"}),
		storeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metascan_store_errors_total",
			Help: "Unrecoverable store query failures.",
		}),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.inFlight, m.cacheResults, m.storeErrors)
	return m
}

// IncrementInFlight marks a request as started.
func (m *Metrics) IncrementInFlight() { m.inFlight.Inc() }

// DecrementInFlight marks a request as finished.
func (m *Metrics) DecrementInFlight() { m.inFlight.Dec() }

// RecordHTTPRequest records one completed request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordCacheResult records a response cache lookup outcome ("hit"/"miss").
func (m *Metrics) RecordCacheResult(resource, result string) {
	m.cacheResults.WithLabelValues(resource, result).Inc()
}

// RecordStoreError records an unrecoverable store failure.
func (m *Metrics) RecordStoreError() { m.storeErrors.Inc() }
