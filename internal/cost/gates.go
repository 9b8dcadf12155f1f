package cost

import (
	apperrors "github.com/agbru/qmulcost/internal/errors"
)

// Classical overheads of one recursion level, in T gates: evaluation and
// interpolation adders for k=2, and the larger point set of k=3.
const (
	karatsubaOverheadPerBit = 16
	toom3OverheadPerPiece   = 352
	toom3OverheadConstant   = 592
)

// GateCount returns the T-gate count of multiplying two n-bit operands with
// the given method, compiling rotations at tolerance epsilon.
//
// The trivial method uses n² controlled rotations. The recursive method
// resolves the padded size m and split factor k at every level:
//
//	k=2: 2*G(m/2) + G(m/2+1) + 16*(m-1)
//	k=3: 2*G(m/3) + 3*G(m/3+2) + 352*m/3 + 592
//
// Base cases cost 4 and 9 rotations for sizes 2 and 3; sizes 4 and 6 are
// four size-2 and four size-3 products respectively.
func (m *Model) GateCount(n int, epsilon float64, method Method) (float64, error) {
	crz, err := CRZCost(epsilon)
	if err != nil {
		return 0, err
	}
	if err := method.validate(); err != nil {
		return 0, err
	}
	if err := validateBitWidth(n); err != nil {
		return 0, err
	}
	if method == Trivial {
		return float64(n) * float64(n) * crz, nil
	}

	g, err := m.gateCount(n, epsilon, crz)
	if err != nil {
		return 0, apperrors.EstimationError{Operation: "gates", N: n, Cause: err}
	}
	m.logger.Debug().
		Int("n", n).
		Str("policy", m.policy.String()).
		Float64("epsilon", epsilon).
		Float64("t_gates", g).
		Uint64("evaluations", m.stats.Evaluations).
		Msg("gate count estimated")
	return g, nil
}

func (m *Model) gateCount(n int, epsilon, crz float64) (float64, error) {
	key := gateKey{n: n, epsilon: epsilon}
	if m.memo {
		if g, ok := m.gates[key]; ok {
			m.stats.CacheHits++
			return g, nil
		}
	}
	m.stats.Evaluations++

	padded, k, err := m.policy.Resolve(n)
	if err != nil {
		return 0, err
	}

	var g float64
	if padded > MaxBaseSize {
		part, err := split(padded, k)
		if err != nil {
			return 0, err
		}
		var ga, gb float64
		if ga, err = m.gateCount(part, epsilon, crz); err != nil {
			return 0, err
		}
		switch k {
		case 2:
			if gb, err = m.gateCount(part+1, epsilon, crz); err != nil {
				return 0, err
			}
			g = 2*ga + gb + float64(karatsubaOverheadPerBit*(padded-1))
		case 3:
			if gb, err = m.gateCount(part+2, epsilon, crz); err != nil {
				return 0, err
			}
			g = 2*ga + 3*gb + float64(toom3OverheadPerPiece*part+toom3OverheadConstant)
		default:
			return 0, apperrors.NonIntegerSizeError{N: padded, K: k}
		}
	} else {
		g, err = baseGates(padded, crz)
		if err != nil {
			return 0, err
		}
	}

	if m.memo {
		m.gates[key] = g
	}
	return g, nil
}

// baseGates costs the closed-form sizes. The size-4 and size-6 products
// are expanded against the size-2 and size-3 rows of this table directly,
// so their value does not depend on the policy.
func baseGates(padded int, crz float64) (float64, error) {
	switch padded {
	case 2:
		return 4 * crz, nil
	case 3:
		return 9 * crz, nil
	case 4:
		g, err := baseGates(2, crz)
		return 4 * g, err
	case 6:
		g, err := baseGates(3, crz)
		return 4 * g, err
	}
	return 0, apperrors.UndefinedBaseCaseError{N: padded}
}
