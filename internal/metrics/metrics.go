// Package metrics exposes Prometheus collectors for outbound HTTP calls and
// vote submissions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "metavote"

// Submission outcomes.
const (
	OutcomeAccepted    = "accepted"
	OutcomeRejected    = "rejected"
	OutcomeUnreachable = "unreachable"
	OutcomeChainRead   = "chain_read"
	OutcomeDiscovery   = "discovery"
	OutcomeSigning     = "signing"
	OutcomeInvalid     = "invalid"
	OutcomeConfig      = "configuration"
	OutcomeBusy        = "in_flight"
	OutcomeCancelled   = "cancelled"
	OutcomeError       = "error"
)

// Metrics holds every collector of the process on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestCount    *prometheus.CounterVec
	requestErrors   *prometheus.CounterVec

	submissions        *prometheus.CounterVec
	submissionDuration *prometheus.HistogramVec
	retries            prometheus.Counter
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http_client",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http_client",
			Name:      "requests_total",
			Help:      "Number of outbound HTTP requests.",
		}, []string{"method", "path", "status"}),
		requestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http_client",
			Name:      "request_errors_total",
			Help:      "Number of outbound HTTP requests that failed or returned a non-2xx status.",
		}, []string{"method", "path"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Vote submissions by outcome.",
		}, []string{"outcome"}),
		submissionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time from encoding a vote to the relay's answer.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"outcome"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submission_retries_total",
			Help:      "Pipeline restarts after a transient failure.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.requestCount,
		m.requestErrors,
		m.submissions,
		m.submissionDuration,
		m.retries,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordRequestDuration(method, path string, statusCode int, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, path, strconv.Itoa(statusCode)).Observe(duration.Seconds())
}

func (m *Metrics) RecordRequestCount(method, path string, statusCode int) {
	m.requestCount.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
}

func (m *Metrics) RecordRequestError(method, path string) {
	m.requestErrors.WithLabelValues(method, path).Inc()
}

// RecordSubmission counts one finished pipeline run.
func (m *Metrics) RecordSubmission(outcome string, duration time.Duration) {
	m.submissions.WithLabelValues(outcome).Inc()
	m.submissionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordRetry counts one pipeline restart.
func (m *Metrics) RecordRetry() {
	m.retries.Inc()
}
