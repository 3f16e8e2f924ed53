// Package metrics provides Prometheus metrics for the referee assignment services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for a service process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Peer Coordination Metrics - probes and lookups against dependency services
	peerProbes       *prometheus.CounterVec
	peerProbeLatency *prometheus.HistogramVec
	peerLookups      *prometheus.CounterVec

	// Business Quality Metrics
	validationFailures *prometheus.CounterVec
	storageErrors      prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "refassign",
		subsystem:        "service",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	if !m.enabled {
		return m
	}

	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.peerProbes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "peer_probes_total",
		Help:      "Health probes issued against dependency services by outcome.",
	}, []string{"peer", "outcome"})

	m.peerProbeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "peer_probe_latency_ms",
		Help:      "Round-trip latency of dependency health probes in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"peer"})

	m.peerLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "peer_lookups_total",
		Help:      "Entity lookups issued against dependency services by outcome.",
	}, []string{"peer", "outcome"})

	m.validationFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_failures_total",
		Help:      "Referential validation failures by cause.",
	}, []string{"cause"})

	m.storageErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "storage_errors_total",
		Help:      "Local persistence failures.",
	})

	return m
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordHTTPRequest increments the request counter for an endpoint.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.httpRequests == nil {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes a request's duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method string, durationMs float64) {
	if globalManager.httpRequestDuration == nil {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// RecordPeerProbe records one health probe outcome ("reachable" or "unreachable").
func RecordPeerProbe(peer, outcome string, latencyMs float64) {
	if globalManager.peerProbes == nil {
		return
	}
	globalManager.peerProbes.WithLabelValues(peer, outcome).Inc()
	globalManager.peerProbeLatency.WithLabelValues(peer).Observe(latencyMs)
}

// RecordPeerLookup records one entity lookup outcome ("ok", "not_found" or "fault").
func RecordPeerLookup(peer, outcome string) {
	if globalManager.peerLookups == nil {
		return
	}
	globalManager.peerLookups.WithLabelValues(peer, outcome).Inc()
}

// RecordValidationFailure counts a referential validation failure by cause.
func RecordValidationFailure(cause string) {
	if globalManager.validationFailures == nil {
		return
	}
	globalManager.validationFailures.WithLabelValues(cause).Inc()
}

// RecordStorageError counts a local persistence failure.
func RecordStorageError() {
	if globalManager.storageErrors == nil {
		return
	}
	globalManager.storageErrors.Inc()
}
