package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/qmulcost/internal/metrics"
)

// Metrics tracks HTTP traffic on the registry of a metrics.Recorder, so
// /metrics exposes request counters next to the estimation metrics.
type Metrics struct {
	recorder *metrics.Recorder
	handler  http.Handler

	activeRequests prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// NewMetrics registers the HTTP collectors on rec's registry. A nil rec
// gets a fresh Recorder.
func NewMetrics(rec *metrics.Recorder) *Metrics {
	if rec == nil {
		rec = metrics.NewRecorder()
	}
	m := &Metrics{
		recorder: rec,
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "qmulcost",
			Name:      "active_requests",
			Help:      "HTTP requests currently being served.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qmulcost",
			Name:      "requests_total",
			Help:      "HTTP requests served, by path and status code.",
		}, []string{"path", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "qmulcost",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
	reg := rec.Registry()
	reg.MustRegister(m.activeRequests, m.requestsTotal, m.latency)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return m
}

// Recorder returns the recorder backing the HTTP collectors.
func (m *Metrics) Recorder() *metrics.Recorder { return m.recorder }

// IncrementActiveRequests marks a request as started.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks a request as finished.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// ObserveRequest counts one finished request.
func (m *Metrics) ObserveRequest(path string, code int, seconds float64) {
	m.requestsTotal.WithLabelValues(path, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(path).Observe(seconds)
}

// WritePrometheus serves the registry in the Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
