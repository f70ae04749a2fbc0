// Package metrics provides Prometheus collectors for the Plagiarism Review Service.
// Tracks detection engine call outcomes and HTTP request handling so operators
// can watch the engine's availability from the review side.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles all collectors of the review service. Collectors are
// registered in the default Prometheus registry on construction.
type Metrics struct {
	engineRequests *prometheus.CounterVec
	engineLatency  *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
}

// New creates a Metrics instance and registers all collectors in the global
// Prometheus registry. Call at most once per process.
func New() *Metrics {
	return &Metrics{
		engineRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "review_engine_requests_total",
				Help: "Detection engine API calls by endpoint and outcome.",
			},
			[]string{"endpoint", "outcome"},
		),
		engineLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "review_engine_request_duration_seconds",
				Help:    "Detection engine API call latency by endpoint.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		httpRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "review_http_requests_total",
				Help: "Handled HTTP requests by route and status code.",
			},
			[]string{"route", "status"},
		),
		httpLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "review_http_request_duration_seconds",
				Help:    "HTTP request handling latency by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// Engine call outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable" // Transport failure or timeout
	OutcomeBadPayload  = "bad_payload" // Decode or validation failure
	OutcomeBadStatus   = "bad_status"  // Non-2xx response
)

// RecordEngineCall records one detection engine API call.
func (m *Metrics) RecordEngineCall(endpoint, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.engineRequests.WithLabelValues(endpoint, outcome).Inc()
	m.engineLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordHTTPRequest records one handled HTTP request.
func (m *Metrics) RecordHTTPRequest(route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, status).Inc()
	m.httpLatency.WithLabelValues(route).Observe(duration.Seconds())
}
