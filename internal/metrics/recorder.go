// Package metrics exposes Prometheus instrumentation for estimation runs.
// Each Recorder owns its registry, so concurrent tests and sweeps never
// collide on the global default registerer.
package metrics

import (
	"errors"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
)

const namespace = "qmulcost"

// Recorder collects counters and timings for cost-model and profiler runs.
type Recorder struct {
	registry *prometheus.Registry

	estimations *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	evaluations *prometheus.CounterVec
	cacheHits   *prometheus.CounterVec

	profileVisits prometheus.Counter
	profileShapes prometheus.Gauge
}

// NewRecorder creates a recorder on a fresh registry that also carries the
// Go runtime collector.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		estimations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimations_total",
			Help:      "Number of completed estimates by operation and series.",
		}, []string{"operation", "series"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimation_failures_total",
			Help:      "Number of failed estimates by operation.",
		}, []string{"operation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "estimation_duration_seconds",
			Help:      "Wall time of a single estimate or sweep.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"operation"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_evaluations_total",
			Help:      "Recursion nodes computed by the cost model.",
		}, []string{"series"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_cache_hits_total",
			Help:      "Recursion nodes answered from the cost model memo.",
		}, []string{"series"}),
		profileVisits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profiler_visits_total",
			Help:      "Recursion nodes visited by the node profiler.",
		}),
		profileShapes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "profiler_shapes",
			Help:      "Distinct node shapes currently held in the profiler registry.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		r.estimations,
		r.failures,
		r.duration,
		r.evaluations,
		r.cacheHits,
		r.profileVisits,
		r.profileShapes,
	)
	return r
}

// Registry returns the underlying Prometheus registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveEstimate records the outcome of one estimate.
func (r *Recorder) ObserveEstimate(operation, series string, d time.Duration, err error) {
	r.duration.WithLabelValues(operation).Observe(d.Seconds())
	if err != nil {
		r.failures.WithLabelValues(operation).Inc()
		return
	}
	r.estimations.WithLabelValues(operation, series).Inc()
}

// ObserveModelWork adds cost-model work counters for one series.
func (r *Recorder) ObserveModelWork(series string, evaluations, cacheHits uint64) {
	r.evaluations.WithLabelValues(series).Add(float64(evaluations))
	r.cacheHits.WithLabelValues(series).Add(float64(cacheHits))
}

// ObserveProfile records profiler visits and the current number of shapes.
func (r *Recorder) ObserveProfile(visits uint64, shapes int) {
	r.profileVisits.Add(float64(visits))
	r.profileShapes.Set(float64(shapes))
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	var errs []error
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
