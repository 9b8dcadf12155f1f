package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode parses the single JSON log line in buf.
func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	return entry
}

func TestFieldHelpers(t *testing.T) {
	t.Parallel()
	cause := errors.New("base case 5 reached")

	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"string", String("policy", "Toom-3"), "policy", "Toom-3"},
		{"int", Int("n", 4095), "n", 4095},
		{"uint64", Uint64("visits", 18446744073709551615), "visits", uint64(18446744073709551615)},
		{"float64", Float64("epsilon", 1e-6), "epsilon", 1e-6},
		{"error", Err(cause), "error", cause},
		{"nil error", Err(nil), "error", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.key, tt.field.Key)
			assert.Equal(t, tt.value, tt.field.Value)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewLogger(&buf, "sweep").Info("series evaluated", String("series", "Karatsuba"), Int("points", 4094))

	entry := decode(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "sweep", entry["component"])
	assert.Equal(t, "series evaluated", entry["message"])
	assert.Equal(t, "Karatsuba", entry["series"])
	assert.InDelta(t, 4094, entry["points"], 0)
	assert.Contains(t, entry, "time")
}

func TestNewDefaultLogger(t *testing.T) {
	t.Parallel()
	require.NotNil(t, NewDefaultLogger())
}

func TestZerologAdapter_Levels(t *testing.T) {
	t.Parallel()

	t.Run("debug is filtered by the logger level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		a := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.InfoLevel))
		a.Debug("model work", Uint64("evaluations", 12))
		assert.Empty(t, buf.String())

		a.Info("run finished", String("mode", "qubits"))
		assert.Equal(t, "qubits", decode(t, &buf)["mode"])
	})

	t.Run("debug is written at debug level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		a := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.DebugLevel))
		a.Debug("model work", Uint64("cache_hits", 7))
		entry := decode(t, &buf)
		assert.Equal(t, "debug", entry["level"])
		assert.InDelta(t, 7, entry["cache_hits"], 0)
	})

	t.Run("error carries the cause and fields", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		a := NewZerologAdapter(zerolog.New(&buf))
		a.Error("run failed", errors.New("invalid policy \"strassen\""), String("mode", "gates"))
		entry := decode(t, &buf)
		assert.Equal(t, "error", entry["level"])
		assert.Equal(t, `invalid policy "strassen"`, entry["error"])
		assert.Equal(t, "gates", entry["mode"])
	})
}

func TestZerologAdapter_PrintfPrintln(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	a := NewZerologAdapter(zerolog.New(&buf))

	a.Printf("padded %d to %d", 7, 8)
	assert.Equal(t, "padded 7 to 8", decode(t, &buf)["message"])

	buf.Reset()
	a.Println("k", 3)
	assert.Equal(t, "k 3", strings.TrimSpace(decode(t, &buf)["message"].(string)))
}

func TestApplyFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	applyFields(zl.Info(), []Field{
		{Key: "s", Value: "x"},
		{Key: "i", Value: 3},
		{Key: "i64", Value: int64(-4)},
		{Key: "u", Value: uint64(5)},
		{Key: "f", Value: 0.25},
		{Key: "b", Value: true},
		{Key: "e", Value: errors.New("boom")},
		{Key: "other", Value: []int{2, 3}},
	}).Msg("fields")

	entry := decode(t, &buf)
	assert.Equal(t, "x", entry["s"])
	assert.InDelta(t, 3, entry["i"], 0)
	assert.InDelta(t, -4, entry["i64"], 0)
	assert.InDelta(t, 5, entry["u"], 0)
	assert.InDelta(t, 0.25, entry["f"], 0)
	assert.Equal(t, true, entry["b"])
	assert.Equal(t, "boom", entry["e"])
	assert.Equal(t, []any{2.0, 3.0}, entry["other"])
}

func TestZerologAdapter_Zerolog(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	a := NewZerologAdapter(zerolog.New(&buf))
	zl := a.Zerolog()
	zl.Info().Int("n", 9).Msg("direct")
	assert.InDelta(t, 9, decode(t, &buf)["n"], 0)

	var _ Logger = a
}
