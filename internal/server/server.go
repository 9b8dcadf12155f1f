// Package server exposes the cost model and the node profiler over HTTP,
// with Prometheus metrics on /metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/qmulcost/internal/cost"
	apperrors "github.com/agbru/qmulcost/internal/errors"
	"github.com/agbru/qmulcost/internal/logging"
	"github.com/agbru/qmulcost/internal/metrics"
	"github.com/agbru/qmulcost/internal/policy"
)

var tracer = otel.Tracer("qmulcost.server")

// DefaultMaxCachedResults bounds the memo of each shared cost model.
const DefaultMaxCachedResults = 100_000

// Timeouts applied to the underlying http.Server.
const (
	DefaultRequestTimeout = 30 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address, such as ":8080".
	Addr string
	// Epsilon is the tolerance used by /gates when the request omits it.
	Epsilon float64
	// RequestTimeout bounds the handling of a single request.
	RequestTimeout time.Duration
	// MaxCachedResults bounds the memo of each shared model. A model whose
	// memo grows past it is reset after the request that filled it.
	MaxCachedResults int
	Security         SecurityConfig
}

// Server answers estimation requests. Cost models are kept per policy so
// their memos are shared across requests; access to them is serialized.
type Server struct {
	config  Config
	metrics *Metrics
	logger  logging.Logger
	zlog    zerolog.Logger

	mu     sync.Mutex
	models map[policy.Policy]*cost.Model
}

// New creates a server that records on rec. A nil logger discards output.
func New(cfg Config, rec *metrics.Recorder, logger logging.Logger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = cost.DefaultEpsilon
	}
	if cfg.MaxCachedResults <= 0 {
		cfg.MaxCachedResults = DefaultMaxCachedResults
	}
	if cfg.Security.MaxBitWidth <= 0 {
		cfg.Security.MaxBitWidth = DefaultSecurityConfig().MaxBitWidth
	}
	if cfg.Security.MaxRangeSizes <= 0 {
		cfg.Security.MaxRangeSizes = DefaultSecurityConfig().MaxRangeSizes
	}
	if cfg.Security.MaxProfileBitWidth <= 0 {
		cfg.Security.MaxProfileBitWidth = DefaultSecurityConfig().MaxProfileBitWidth
	}
	s := &Server{
		config:  cfg,
		metrics: NewMetrics(rec),
		logger:  logger,
		zlog:    zerolog.Nop(),
		models:  make(map[policy.Policy]*cost.Model),
	}
	if s.logger == nil {
		s.logger = logging.NewZerologAdapter(zerolog.Nop())
	}
	if z, ok := logger.(interface{ Zerolog() zerolog.Logger }); ok {
		s.zlog = z.Zerolog()
	}
	return s
}

// Handler returns the routed handler with security and metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	routes := map[string]http.HandlerFunc{
		"/qubits":  s.handleQubits,
		"/gates":   s.handleGates,
		"/resolve": s.handleResolve,
		"/profile": s.handleProfile,
		"/health":  s.handleHealth,
		"/metrics": s.handleMetrics,
	}
	for path, h := range routes {
		mux.Handle(path, SecurityMiddleware(s.config.Security, s.metricsMiddleware(h)))
	}
	return mux
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := s.Listen(ctx)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Listen opens the configured TCP address. A ":0" port picks a free one;
// the listener's Addr reports it.
func (s *Server) Listen(ctx context.Context) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.Addr)
	if err != nil {
		return nil, apperrors.NewConfigError("listening on %s: %v", s.config.Addr, err)
	}
	return ln, nil
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. A clean shutdown returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           http.TimeoutHandler(s.Handler(), s.config.RequestTimeout, `{"error":"request timed out"}`),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server shutdown failed", err)
		return err
	}
	<-errCh
	s.logger.Info("server stopped")
	return nil
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware tracks in-flight requests, counts responses by status
// and wraps each request in a span.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		ctx, span := tracer.Start(r.Context(), "http "+r.URL.Path, trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.path", r.URL.Path),
		))
		defer span.End()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
		s.metrics.ObserveRequest(r.URL.Path, rec.status, time.Since(start).Seconds())
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// allowGet answers 405 for anything but GET and HEAD.
func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	return false
}

// model returns the shared cost model for p. The caller must hold s.mu.
func (s *Server) model(p policy.Policy) (*cost.Model, error) {
	if m, ok := s.models[p]; ok {
		return m, nil
	}
	m, err := cost.NewModel(p, cost.WithLogger(s.zlog))
	if err != nil {
		return nil, err
	}
	s.models[p] = m
	return m, nil
}

// fail writes err as JSON with a status matching its exit-code class.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch apperrors.ExitCodeFor(err) {
	case apperrors.ExitErrorConfig:
		status = http.StatusBadRequest
	case apperrors.ExitErrorTimeout, apperrors.ExitErrorCanceled:
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", err, logging.String("path", r.URL.Path))
	} else {
		s.logger.Debug("request rejected", logging.String("path", r.URL.Path), logging.Err(err))
	}
	trace.SpanFromContext(r.Context()).RecordError(err)
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// intParam reads an integer query parameter, falling back to def when it
// is absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ValidationError{Field: name, Message: "not an integer: " + strconv.Quote(raw)}
	}
	return v, nil
}

func stringParam(r *http.Request, name, def string) string {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}
	return def
}
