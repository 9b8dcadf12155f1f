package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/agbru/qmulcost/internal/cost"
	apperrors "github.com/agbru/qmulcost/internal/errors"
	"github.com/agbru/qmulcost/internal/logging"
	"github.com/agbru/qmulcost/internal/policy"
	"github.com/agbru/qmulcost/internal/profiler"
	"github.com/agbru/qmulcost/internal/sweep"
)

// EstimateResponse is the body of /qubits and /gates.
type EstimateResponse struct {
	Quantity string  `json:"quantity"`
	N        int     `json:"n"`
	Policy   string  `json:"policy"`
	Method   string  `json:"method"`
	Epsilon  float64 `json:"epsilon,omitempty"`
	Value    float64 `json:"value"`
	Micros   int64   `json:"duration_us"`
}

// ResolveResponse is the body of /resolve.
type ResolveResponse struct {
	N      int    `json:"n"`
	Policy string `json:"policy"`
	Padded int    `json:"padded"`
	K      int    `json:"k"`
}

// ProfileNode is one report row of /profile.
type ProfileNode struct {
	Kind  string  `json:"kind"`
	N     int     `json:"n"`
	K     int     `json:"k,omitempty"`
	Cost  int     `json:"cost"`
	Count uint64  `json:"count"`
	Share float64 `json:"share"`
}

// ProfileResponse is the body of /profile.
type ProfileResponse struct {
	Selection string        `json:"selection"`
	From      int           `json:"from"`
	To        int           `json:"to"`
	Step      int           `json:"step"`
	Visits    uint64        `json:"visits"`
	Shapes    int           `json:"shapes"`
	Nodes     []ProfileNode `json:"nodes"`
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse carries the message of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

type estimateRequest struct {
	n      int
	policy policy.Policy
	method cost.Method
}

func (s *Server) parseEstimate(r *http.Request) (estimateRequest, error) {
	var req estimateRequest
	var err error
	if r.URL.Query().Get("n") == "" {
		return req, apperrors.ValidationError{Field: "n", Message: "required"}
	}
	if req.n, err = intParam(r, "n", 0); err != nil {
		return req, err
	}
	if req.n > s.config.Security.MaxBitWidth {
		return req, apperrors.ValidationError{
			Field:   "n",
			Message: "bit width exceeds the limit of " + strconv.Itoa(s.config.Security.MaxBitWidth),
		}
	}
	if req.policy, err = policy.Parse(stringParam(r, "policy", "default")); err != nil {
		return req, err
	}
	if req.method, err = cost.ParseMethod(stringParam(r, "method", "toom-cook")); err != nil {
		return req, err
	}
	return req, nil
}

func (s *Server) handleQubits(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	req, err := s.parseEstimate(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	v, d, err := s.estimate("qubits", req.policy, func(m *cost.Model) (float64, error) {
		q, err := m.QubitCount(req.n, req.method)
		return float64(q), err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, EstimateResponse{
		Quantity: "qubits", N: req.n, Policy: req.policy.String(), Method: req.method.String(),
		Value: v, Micros: d.Microseconds(),
	})
}

func (s *Server) handleGates(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	req, err := s.parseEstimate(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	eps := s.config.Epsilon
	if raw := r.URL.Query().Get("epsilon"); raw != "" {
		if eps, err = strconv.ParseFloat(raw, 64); err != nil {
			s.fail(w, r, apperrors.ValidationError{Field: "epsilon", Message: "not a number: " + strconv.Quote(raw)})
			return
		}
	}
	v, d, err := s.estimate("gates", req.policy, func(m *cost.Model) (float64, error) {
		return m.GateCount(req.n, eps, req.method)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, EstimateResponse{
		Quantity: "T gates", N: req.n, Policy: req.policy.String(), Method: req.method.String(),
		Epsilon: eps, Value: v, Micros: d.Microseconds(),
	})
}

// estimate runs fn on the shared model for p and records the outcome.
func (s *Server) estimate(op string, p policy.Policy, fn func(*cost.Model) (float64, error)) (float64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.model(p)
	if err != nil {
		return 0, 0, err
	}
	before := m.Stats()
	start := time.Now()
	v, err := fn(m)
	d := time.Since(start)

	rec := s.metrics.Recorder()
	rec.ObserveEstimate(op, p.String(), d, err)
	after := m.Stats()
	rec.ObserveModelWork(p.String(), after.Evaluations-before.Evaluations, after.CacheHits-before.CacheHits)
	if size := m.CacheSize(); size > s.config.MaxCachedResults {
		s.logger.Debug("model cache reset", logging.String("policy", p.String()), logging.Int("entries", size))
		m.Reset()
	}
	return v, d, err
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	req, err := s.parseEstimate(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if req.n < cost.MinBitWidth {
		s.fail(w, r, apperrors.ValidationError{Field: "n", Message: "bit width must be at least 2"})
		return
	}
	padded, k, err := req.policy.Resolve(req.n)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ResolveResponse{N: req.n, Policy: req.policy.String(), Padded: padded, K: k})
}

// handleProfile runs a fresh profiler over the requested range. Each
// request gets its own registry, so no locking is needed.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	rng, sel, top, err := s.parseProfile(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	p, err := profiler.New(sel)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p.SetLogger(s.zlog)
	ctx := r.Context()
	start := time.Now()
	for _, n := range rng.Sizes() {
		if err := ctx.Err(); err != nil {
			s.fail(w, r, err)
			return
		}
		if _, err := p.Estimate(n); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	reg := p.Registry()
	rec := s.metrics.Recorder()
	rec.ObserveEstimate("profile", sel.String(), time.Since(start), nil)
	rec.ObserveProfile(reg.Visits(), reg.Len())

	resp := ProfileResponse{
		Selection: sel.String(),
		From:      rng.From,
		To:        rng.To,
		Step:      rng.Step,
		Visits:    reg.Visits(),
		Shapes:    reg.Len(),
		Nodes:     []ProfileNode{},
	}
	for _, e := range p.Top(top) {
		share := 0.0
		if resp.Visits > 0 {
			share = float64(e.Count) / float64(resp.Visits)
		}
		resp.Nodes = append(resp.Nodes, ProfileNode{
			Kind: e.Node.Kind.String(), N: e.Node.N, K: e.Node.K, Cost: e.Node.Cost,
			Count: e.Count, Share: share,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) parseProfile(r *http.Request) (sweep.Range, profiler.Selection, int, error) {
	var rng sweep.Range
	var err error
	if rng.From, err = intParam(r, "from", cost.MinBitWidth); err != nil {
		return rng, 0, 0, err
	}
	if rng.To, err = intParam(r, "to", rng.From); err != nil {
		return rng, 0, 0, err
	}
	if rng.Step, err = intParam(r, "step", 1); err != nil {
		return rng, 0, 0, err
	}
	if err := rng.Validate(); err != nil {
		return rng, 0, 0, err
	}
	if limit := min(s.config.Security.MaxProfileBitWidth, s.config.Security.MaxBitWidth); rng.To > limit {
		return rng, 0, 0, apperrors.ValidationError{
			Field:   "to",
			Message: "bit width exceeds the profile limit of " + strconv.Itoa(limit),
		}
	}
	if rng.Len() > s.config.Security.MaxRangeSizes {
		return rng, 0, 0, apperrors.ValidationError{
			Field:   "to",
			Message: "range visits more than " + strconv.Itoa(s.config.Security.MaxRangeSizes) + " sizes",
		}
	}
	sel, err := profiler.ParseSelection(stringParam(r, "split", "adaptive"))
	if err != nil {
		return rng, 0, 0, err
	}
	top, err := intParam(r, "top", 10)
	if err != nil {
		return rng, 0, 0, err
	}
	if top < 0 {
		return rng, 0, 0, apperrors.ValidationError{Field: "top", Message: "must not be negative"}
	}
	return rng, sel, top, nil
}
