// Package cost implements the analytical resource model for quantum
// Toom-Cook multiplication: qubit count and T-gate count of an n-bit by
// n-bit product under a splitting policy.
package cost

import (
	"math"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/qmulcost/internal/errors"
	"github.com/agbru/qmulcost/internal/policy"
)

const (
	// DefaultEpsilon is the gate-compilation tolerance used when none is given.
	DefaultEpsilon = 1e-6

	// CRZCostFactor scales log2(1/epsilon) into the approximate number of T
	// gates needed to compile one controlled-Rz rotation.
	CRZCostFactor = 3.45

	// MaxBaseSize is the largest padded size costed by a closed form.
	MaxBaseSize = 6

	// MinBitWidth is the smallest operand size the model accepts.
	MinBitWidth = 2
)

// Stats counts the work performed by a Model since it was created.
type Stats struct {
	// Evaluations is the number of recursion nodes actually computed.
	Evaluations uint64
	// CacheHits is the number of recursion nodes answered from the memo.
	CacheHits uint64
}

type gateKey struct {
	n       int
	epsilon float64
}

// Model evaluates qubit and gate counts for a fixed policy, memoizing
// every recursive sub-result. A Model is not safe for concurrent use.
type Model struct {
	policy policy.Policy
	logger zerolog.Logger
	memo   bool

	qubits map[int]int
	gates  map[gateKey]float64
	stats  Stats
}

// Option configures a Model during construction.
type Option func(*Model)

// WithLogger sets the logger used for per-call debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithoutMemo disables the memoization caches. Results are identical; only
// the amount of work changes.
func WithoutMemo() Option {
	return func(m *Model) { m.memo = false }
}

// NewModel creates a model bound to the given policy. Unknown policies are
// rejected here so that the recursion never sees one.
func NewModel(p policy.Policy, opts ...Option) (*Model, error) {
	if !p.Valid() {
		return nil, apperrors.InvalidPolicyError{Value: p.String(), Allowed: policy.Names()}
	}
	m := &Model{
		policy: p,
		logger: zerolog.Nop(),
		memo:   true,
		qubits: make(map[int]int),
		gates:  make(map[gateKey]float64),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Policy returns the policy the model is bound to.
func (m *Model) Policy() policy.Policy { return m.policy }

// Stats returns the work counters accumulated so far.
func (m *Model) Stats() Stats { return m.stats }

// CacheSize returns the number of memoized qubit and gate results.
func (m *Model) CacheSize() int { return len(m.qubits) + len(m.gates) }

// Reset drops the memoization caches and zeroes the counters.
func (m *Model) Reset() {
	m.qubits = make(map[int]int)
	m.gates = make(map[gateKey]float64)
	m.stats = Stats{}
}

// CRZCost returns the approximate T-gate cost of one controlled-Rz rotation
// compiled at tolerance epsilon, which must lie in (0, 1).
func CRZCost(epsilon float64) (float64, error) {
	if !(epsilon > 0 && epsilon < 1) {
		return 0, apperrors.InvalidEpsilonError{Epsilon: epsilon}
	}
	return CRZCostFactor * math.Log2(1/epsilon), nil
}

func validateBitWidth(n int) error {
	if n < MinBitWidth {
		return apperrors.ValidationError{Field: "n", Message: "bit width must be at least 2"}
	}
	return nil
}

// split re-checks the resolver's divisibility guarantee and returns the size
// of one piece.
func split(padded, k int) (int, error) {
	if padded%k != 0 {
		return 0, apperrors.NonIntegerSizeError{N: padded, K: k}
	}
	return padded / k, nil
}

// QubitCount is a convenience wrapper that evaluates a single qubit count on
// a fresh model.
func QubitCount(n int, p policy.Policy, method Method) (int, error) {
	m, err := NewModel(p)
	if err != nil {
		return 0, err
	}
	return m.QubitCount(n, method)
}

// GateCount is a convenience wrapper that evaluates a single T-gate count on
// a fresh model.
func GateCount(n int, p policy.Policy, epsilon float64, method Method) (float64, error) {
	m, err := NewModel(p)
	if err != nil {
		return 0, err
	}
	return m.GateCount(n, epsilon, method)
}
