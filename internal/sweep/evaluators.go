package sweep

import (
	"github.com/agbru/qmulcost/internal/cost"
	"github.com/agbru/qmulcost/internal/policy"
	"github.com/agbru/qmulcost/internal/profiler"
)

// WorkCounter is implemented by evaluators backed by a cost.Model.
type WorkCounter interface {
	Stats() cost.Stats
}

// QubitEvaluator evaluates the qubit count of one policy and method.
type QubitEvaluator struct {
	model  *cost.Model
	method cost.Method
}

// NewQubitEvaluator builds an evaluator with its own model.
func NewQubitEvaluator(p policy.Policy, method cost.Method, opts ...cost.Option) (*QubitEvaluator, error) {
	m, err := cost.NewModel(p, opts...)
	if err != nil {
		return nil, err
	}
	return &QubitEvaluator{model: m, method: method}, nil
}

// Name returns the policy name, or "Trivial" for the quadratic baseline.
func (e *QubitEvaluator) Name() string { return seriesName(e.model.Policy(), e.method) }

// Evaluate returns the qubit count at n.
func (e *QubitEvaluator) Evaluate(n int) (float64, error) {
	q, err := e.model.QubitCount(n, e.method)
	return float64(q), err
}

// Stats returns the model's work counters.
func (e *QubitEvaluator) Stats() cost.Stats { return e.model.Stats() }

// GateEvaluator evaluates the T-gate count of one policy and method at a
// fixed tolerance.
type GateEvaluator struct {
	model   *cost.Model
	method  cost.Method
	epsilon float64
}

// NewGateEvaluator builds an evaluator with its own model. The tolerance is
// checked up front.
func NewGateEvaluator(p policy.Policy, epsilon float64, method cost.Method, opts ...cost.Option) (*GateEvaluator, error) {
	if _, err := cost.CRZCost(epsilon); err != nil {
		return nil, err
	}
	m, err := cost.NewModel(p, opts...)
	if err != nil {
		return nil, err
	}
	return &GateEvaluator{model: m, method: method, epsilon: epsilon}, nil
}

// Name returns the policy name, or "Trivial" for the quadratic baseline.
func (e *GateEvaluator) Name() string { return seriesName(e.model.Policy(), e.method) }

// Evaluate returns the T-gate count at n.
func (e *GateEvaluator) Evaluate(n int) (float64, error) {
	return e.model.GateCount(n, e.epsilon, e.method)
}

// Stats returns the model's work counters.
func (e *GateEvaluator) Stats() cost.Stats { return e.model.Stats() }

// ProfileEvaluator runs a node profiler over the sweep; its registry
// accumulates across every size.
type ProfileEvaluator struct {
	profiler *profiler.Profiler
}

// NewProfileEvaluator wraps a fresh profiler with the given selection.
func NewProfileEvaluator(sel profiler.Selection) (*ProfileEvaluator, error) {
	p, err := profiler.New(sel)
	if err != nil {
		return nil, err
	}
	return &ProfileEvaluator{profiler: p}, nil
}

// Name returns "profile " followed by the selection.
func (e *ProfileEvaluator) Name() string { return "profile " + e.profiler.Selection().String() }

// Evaluate returns the profiler's subtree cost at n.
func (e *ProfileEvaluator) Evaluate(n int) (float64, error) {
	c, err := e.profiler.Estimate(n)
	return float64(c), err
}

// Profiler exposes the underlying profiler for reporting.
func (e *ProfileEvaluator) Profiler() *profiler.Profiler { return e.profiler }

func seriesName(p policy.Policy, m cost.Method) string {
	if m == cost.Trivial {
		return cost.Trivial.String()
	}
	return p.String()
}

// StandardQubitSet returns the three policies plus the trivial baseline.
func StandardQubitSet(opts ...cost.Option) ([]Evaluator, error) {
	out := make([]Evaluator, 0, len(policy.All)+1)
	for _, p := range policy.All {
		e, err := NewQubitEvaluator(p, cost.Recursive, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	trivial, err := NewQubitEvaluator(policy.Default, cost.Trivial, opts...)
	if err != nil {
		return nil, err
	}
	return append(out, trivial), nil
}

// StandardGateSet returns the three policies plus the trivial baseline at
// tolerance epsilon.
func StandardGateSet(epsilon float64, opts ...cost.Option) ([]Evaluator, error) {
	out := make([]Evaluator, 0, len(policy.All)+1)
	for _, p := range policy.All {
		e, err := NewGateEvaluator(p, epsilon, cost.Recursive, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	trivial, err := NewGateEvaluator(policy.Default, epsilon, cost.Trivial, opts...)
	if err != nil {
		return nil, err
	}
	return append(out, trivial), nil
}
