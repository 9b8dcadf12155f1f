package cost

import (
	apperrors "github.com/agbru/qmulcost/internal/errors"
)

// QubitCount returns the number of qubits needed to multiply two n-bit
// operands with the given method.
//
// The trivial method needs two qubits per operand bit. The recursive method
// resolves the padded size and split factor at every level:
//
//	k=2: Q(m/2) + Q(m/2+1)
//	k=3: Q(m/3) + 2*Q(m/3+2)
//
// and bottoms out at 2m qubits for padded sizes 2, 3, 4 and 6.
func (m *Model) QubitCount(n int, method Method) (int, error) {
	if err := method.validate(); err != nil {
		return 0, err
	}
	if err := validateBitWidth(n); err != nil {
		return 0, err
	}
	if method == Trivial {
		return 2 * n, nil
	}

	q, err := m.qubitCount(n)
	if err != nil {
		return 0, apperrors.EstimationError{Operation: "qubits", N: n, Cause: err}
	}
	m.logger.Debug().
		Int("n", n).
		Str("policy", m.policy.String()).
		Int("qubits", q).
		Uint64("evaluations", m.stats.Evaluations).
		Msg("qubit count estimated")
	return q, nil
}

func (m *Model) qubitCount(n int) (int, error) {
	if m.memo {
		if q, ok := m.qubits[n]; ok {
			m.stats.CacheHits++
			return q, nil
		}
	}
	m.stats.Evaluations++

	padded, k, err := m.policy.Resolve(n)
	if err != nil {
		return 0, err
	}

	var q int
	if padded > MaxBaseSize {
		part, err := split(padded, k)
		if err != nil {
			return 0, err
		}
		switch k {
		case 2:
			q, err = m.sumQubits(1, part, 1, part+1)
		case 3:
			q, err = m.sumQubits(1, part, 2, part+2)
		default:
			err = apperrors.NonIntegerSizeError{N: padded, K: k}
		}
		if err != nil {
			return 0, err
		}
	} else {
		q, err = baseQubits(padded)
		if err != nil {
			return 0, err
		}
	}

	if m.memo {
		m.qubits[n] = q
	}
	return q, nil
}

// sumQubits returns wa*Q(a) + wb*Q(b).
func (m *Model) sumQubits(wa, a, wb, b int) (int, error) {
	qa, err := m.qubitCount(a)
	if err != nil {
		return 0, err
	}
	qb, err := m.qubitCount(b)
	if err != nil {
		return 0, err
	}
	return wa*qa + wb*qb, nil
}

func baseQubits(padded int) (int, error) {
	switch padded {
	case 2, 3, 4, 6:
		return 2 * padded, nil
	}
	return 0, apperrors.UndefinedBaseCaseError{N: padded}
}
