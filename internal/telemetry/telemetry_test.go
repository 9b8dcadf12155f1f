package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

// Init replaces the global provider, so this test does not run in parallel.
func TestInit_ExportsSpansOnShutdown(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Init(&buf, "v1.2.3", "run-42")
	require.NoError(t, err)

	_, span := otel.Tracer("qmulcost.test").Start(context.Background(), "estimate")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	out := buf.String()
	assert.Contains(t, out, `"Name":"estimate"`)
	assert.Contains(t, out, "run-42")
	assert.Contains(t, out, "v1.2.3")
}
