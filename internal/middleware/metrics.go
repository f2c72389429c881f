package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

// Metrics holds the prometheus collectors for the HTTP layer and the
// verification pipeline. It implements verification.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	RequestsInProgress prometheus.Gauge
	SubmissionsTotal   *prometheus.CounterVec
	VerdictsTotal      *prometheus.CounterVec
	FailuresTotal      prometheus.Counter
	ClassifySeconds    prometheus.Histogram
}

// NewMetrics registers all collectors on a fresh registry together with the
// go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verify_http_requests_total",
			Help: "HTTP requests by status code.",
		}, []string{"status"}),
		RequestsInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "verify_http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verify_submissions_total",
			Help: "Accepted verification submissions by input kind.",
		}, []string{"kind"}),
		VerdictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verify_verdicts_total",
			Help: "Completed classifications by verdict status.",
		}, []string{"status"}),
		FailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verify_classification_failures_total",
			Help: "Classifications that ended in an error.",
		}),
		ClassifySeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "verify_classification_seconds",
			Help:    "Time spent classifying one submission.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
	}
	reg.MustRegister(
		m.RequestsTotal,
		m.RequestsInProgress,
		m.SubmissionsTotal,
		m.VerdictsTotal,
		m.FailuresTotal,
		m.ClassifySeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Submitted(kind domain.Kind) {
	m.SubmissionsTotal.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) Classified(status domain.Status, took time.Duration) {
	m.VerdictsTotal.WithLabelValues(string(status)).Inc()
	m.ClassifySeconds.Observe(took.Seconds())
}

func (m *Metrics) Failed(took time.Duration) {
	m.FailuresTotal.Inc()
	m.ClassifySeconds.Observe(took.Seconds())
}

// Middleware tracks request counts by status code.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.RequestsInProgress.Inc()
		defer m.RequestsInProgress.Dec()

		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		m.RequestsTotal.WithLabelValues(strconv.Itoa(wrapped.statusCode)).Inc()
	})
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer returns the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }
