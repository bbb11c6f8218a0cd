// Package metrics exposes Prometheus instrumentation for analysis runs.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "gowc"

// Metrics groups the collectors updated by the analysis engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	InputsProcessed  prometheus.Counter
	InputsFailed     prometheus.Counter
	TokensCounted    prometheus.Counter
	BytesRead        prometheus.Counter
	AnalysisDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		InputsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "inputs_processed_total",
			Help:      "Inputs read and analyzed successfully.",
		}),
		InputsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "inputs_failed_total",
			Help:      "Inputs that could not be read.",
		}),
		TokensCounted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tokens_counted_total",
			Help:      "Whitespace-delimited tokens seen across all inputs.",
		}),
		BytesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "bytes_read_total",
			Help:      "Bytes of input text analyzed.",
		}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of complete analysis runs.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
	}
}

// ObserveInput records one successfully analyzed input.
func (m *Metrics) ObserveInput(bytes, tokens int) {
	if m == nil {
		return
	}
	m.InputsProcessed.Inc()
	m.BytesRead.Add(float64(bytes))
	m.TokensCounted.Add(float64(tokens))
}

// ObserveFailure records one unreadable input.
func (m *Metrics) ObserveFailure() {
	if m == nil {
		return
	}
	m.InputsFailed.Inc()
}

// ObserveAnalysis records the duration of a complete run.
func (m *Metrics) ObserveAnalysis(d time.Duration) {
	if m == nil {
		return
	}
	m.AnalysisDuration.Observe(d.Seconds())
}

// HTTP groups the collectors updated by the API server.
type HTTP struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewHTTP creates the HTTP collectors and registers them with reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	factory := promauto.With(reg)
	return &HTTP{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveRequest records one served request.
func (h *HTTP) ObserveRequest(method, route string, code int, d time.Duration) {
	if h == nil {
		return
	}
	h.Requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
