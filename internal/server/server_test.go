package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/qmulcost/internal/cost"
	"github.com/agbru/qmulcost/internal/metrics"
	"github.com/agbru/qmulcost/internal/policy"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(Config{}, metrics.NewRecorder(), newTestLogger())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp
}

func TestHandleQubits(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)

	tests := []struct {
		query string
		want  float64
	}{
		{"n=8", 20},
		{"n=8&policy=karatsuba", 20},
		{"n=8&method=trivial", 16},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got EstimateResponse
			resp := getJSON(t, ts.URL+"/qubits?"+tt.query, &got)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "qubits", got.Quantity)
			assert.Equal(t, 8, got.N)
			assert.Equal(t, tt.want, got.Value)
		})
	}
}

func TestHandleGates(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)

	var got EstimateResponse
	resp := getJSON(t, ts.URL+"/gates?n=10&method=trivial&epsilon=0.5", &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "T gates", got.Quantity)
	assert.Equal(t, 0.5, got.Epsilon)
	assert.InDelta(t, 345.0, got.Value, 1e-9)

	var dflt EstimateResponse
	getJSON(t, ts.URL+"/gates?n=8", &dflt)
	assert.Equal(t, 1e-6, dflt.Epsilon, "the configured tolerance applies when omitted")
	assert.Positive(t, dflt.Value)
}

func TestHandleResolve(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)

	tests := []struct {
		query     string
		padded, k int
	}{
		{"n=9", 9, 3},
		{"n=8", 8, 2},
		{"n=7", 8, 2},
		{"n=9&policy=karatsuba", 10, 2},
		{"n=8&policy=toom-3", 9, 3},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got ResolveResponse
			getJSON(t, ts.URL+"/resolve?"+tt.query, &got)
			assert.Equal(t, tt.padded, got.Padded)
			assert.Equal(t, tt.k, got.K)
		})
	}
}

func TestHandleProfile(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)

	var got ProfileResponse
	resp := getJSON(t, ts.URL+"/profile?from=7&to=7&top=2", &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "adaptive", got.Selection)
	require.Len(t, got.Nodes, 2)
	assert.Equal(t, ProfileNode{Kind: "base-2", N: 2, Cost: 4, Count: 3, Share: float64(3) / float64(got.Visits)}, got.Nodes[0])
	assert.Equal(t, "base-3", got.Nodes[1].Kind)
	assert.Greater(t, got.Shapes, 2)
}

func TestHandlers_RejectBadInput(t *testing.T) {
	t.Parallel()
	s, ts := newTestServer(t)
	s.config.Security.MaxBitWidth = 1000
	s.config.Security.MaxRangeSizes = 50

	tests := []struct {
		path   string
		status int
	}{
		{"/qubits", http.StatusBadRequest},
		{"/qubits?n=abc", http.StatusBadRequest},
		{"/qubits?n=1", http.StatusBadRequest},
		{"/qubits?n=1001", http.StatusBadRequest},
		{"/qubits?n=8&policy=strassen", http.StatusBadRequest},
		{"/gates?n=8&epsilon=2", http.StatusBadRequest},
		{"/gates?n=8&epsilon=tiny", http.StatusBadRequest},
		{"/resolve?n=1", http.StatusBadRequest},
		{"/profile?from=10&to=5", http.StatusBadRequest},
		{"/profile?from=2&to=100", http.StatusBadRequest},
		{"/profile?split=4", http.StatusBadRequest},
		{"/profile?top=-1", http.StatusBadRequest},
		{"/profile?from=300000000&to=300000000", http.StatusBadRequest},
		{"/profile?from=990&to=1001", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var got ErrorResponse
			resp := getJSON(t, ts.URL+tt.path, &got)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, got.Error)
		})
	}
}

func TestHandleProfile_BitWidthLimit(t *testing.T) {
	t.Parallel()
	s := New(Config{Security: SecurityConfig{MaxProfileBitWidth: 64}}, metrics.NewRecorder(), newTestLogger())

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"at the limit", "from=64&to=64", http.StatusOK},
		{"above the limit", "from=65&to=65", http.StatusBadRequest},
		{"range ending above the limit", "from=2&to=65", http.StatusBadRequest},
		{"far above the limit", "from=300000000&to=300000000", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			req := httptest.NewRequest(http.MethodGet, "/profile?"+tt.query, nil).WithContext(ctx)
			rec := httptest.NewRecorder()

			start := time.Now()
			s.handleProfile(rec, req)
			assert.Less(t, time.Since(start), time.Second)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status == http.StatusBadRequest {
				assert.Contains(t, rec.Body.String(), "profile limit of 64")
			}
		})
	}
}

func TestHandlers_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/qubits?n=8", "text/plain", http.NoBody)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestServer_SharesModelsAcrossRequests(t *testing.T) {
	t.Parallel()
	s, ts := newTestServer(t)

	var got EstimateResponse
	getJSON(t, ts.URL+"/qubits?n=300", &got)
	getJSON(t, ts.URL+"/qubits?n=600", &got)

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Len(t, s.models, 1)
	for _, m := range s.models {
		assert.Positive(t, m.Stats().CacheHits, "the second request reuses memoized subproblems")
	}
}

func TestServer_BoundsModelCache(t *testing.T) {
	t.Parallel()
	const limit = 40
	s := New(Config{MaxCachedResults: limit}, metrics.NewRecorder(), newTestLogger())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	for i := 1; i <= 50; i++ {
		var got EstimateResponse
		url := fmt.Sprintf("%s/gates?n=64&epsilon=%g", ts.URL, 1/float64(i+1))
		resp := getJSON(t, url, &got)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		s.mu.Lock()
		for _, m := range s.models {
			assert.LessOrEqual(t, m.CacheSize(), limit, "after request %d", i)
		}
		s.mu.Unlock()
	}

	var got EstimateResponse
	getJSON(t, ts.URL+"/gates?n=64&epsilon=0.5", &got)
	assert.InDelta(t, gateCountAt(t, 64, 0.5), got.Value, 1e-9, "a reset model gives the same result")
}

func gateCountAt(t *testing.T, n int, eps float64) float64 {
	t.Helper()
	m, err := cost.NewModel(policy.Default)
	require.NoError(t, err)
	v, err := m.GateCount(n, eps, cost.Recursive)
	require.NoError(t, err)
	return v
}

func TestServer_ServeAndShutdown(t *testing.T) {
	t.Parallel()
	s := New(Config{}, metrics.NewRecorder(), newTestLogger())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	base := "http://" + ln.Addr().String()
	var health HealthResponse
	getJSON(t, base+"/health", &health)
	assert.Equal(t, "ok", health.Status)

	resp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `qmulcost_requests_total{code="200",path="/health"} 1`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_StartRejectsBadAddress(t *testing.T) {
	t.Parallel()
	s := New(Config{Addr: "not-an-address"}, nil, nil)
	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-an-address")
}
