package metrics

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveEstimate(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.ObserveEstimate("qubits", "Default", time.Millisecond, nil)
	r.ObserveEstimate("qubits", "Default", 2*time.Millisecond, nil)
	r.ObserveEstimate("gates", "Toom-3", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.estimations.WithLabelValues("qubits", "Default")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.estimations.WithLabelValues("gates", "Toom-3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures.WithLabelValues("gates")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
}

func TestRecorder_ObserveModelWorkAndProfile(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.ObserveModelWork("Karatsuba", 40, 12)
	r.ObserveModelWork("Karatsuba", 2, 1)
	r.ObserveProfile(9, 5)
	r.ObserveProfile(30, 11)

	assert.Equal(t, 42.0, testutil.ToFloat64(r.evaluations.WithLabelValues("Karatsuba")))
	assert.Equal(t, 13.0, testutil.ToFloat64(r.cacheHits.WithLabelValues("Karatsuba")))
	assert.Equal(t, 39.0, testutil.ToFloat64(r.profileVisits))
	assert.Equal(t, 11.0, testutil.ToFloat64(r.profileShapes), "gauge holds the latest shape count")
}

func TestRecorder_WriteText(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.ObserveEstimate("sweep", "all", time.Second, nil)
	r.ObserveProfile(3, 2)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))

	body := buf.String()
	assert.Contains(t, body, "qmulcost_estimations_total")
	assert.Contains(t, body, "qmulcost_profiler_visits_total 3")
	assert.Contains(t, body, "go_goroutines")
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	t.Parallel()
	a, b := NewRecorder(), NewRecorder()
	a.ObserveProfile(5, 1)

	assert.NotSame(t, a.Registry(), b.Registry())
	assert.Equal(t, 0.0, testutil.ToFloat64(b.profileVisits))
}
