package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
	OutcomeUpstream    = "upstream_error"
	OutcomeTimeout     = "timeout"
)

// Metrics owns a private registry so tests and multiple servers never
// collide on the global one. A nil *Metrics records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	fetches     *prometheus.CounterVec
	tracksTried prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by path, method and status.",
		}, []string{"path", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transcript_fetch_total",
			Help: "Transcript fetches by outcome.",
		}, []string{"outcome"}),
		tracksTried: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "transcript_tracks_tried",
			Help:    "Caption tracks attempted per fetch.",
			Buckets: []float64{0, 1, 2, 3, 5, 8},
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.fetches,
		m.tracksTried,
	)
	return m
}

func (m *Metrics) ObserveRequest(path, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(path).Observe(d.Seconds())
}

func (m *Metrics) ObserveFetch(outcome string, tracksTried int) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(outcome).Inc()
	m.tracksTried.Observe(float64(tracksTried))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// FetchCount returns the counter for one outcome.
func (m *Metrics) FetchCount(outcome string) prometheus.Counter {
	return m.fetches.WithLabelValues(outcome)
}

// RequestCount returns the counter for one path, method and status.
func (m *Metrics) RequestCount(path, method string, status int) prometheus.Counter {
	return m.requests.WithLabelValues(path, method, strconv.Itoa(status))
}
