// Package profiler replays the Toom-Cook recursion and counts how often each
// distinct node shape occurs, so the shapes that dominate the cost of a
// sweep can be identified.
package profiler

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/qmulcost/internal/errors"
)

// Selection chooses the split factor used at recursive nodes.
type Selection uint8

const (
	// Adaptive splits in 3 when n is a multiple of 3, otherwise in 2.
	Adaptive Selection = iota
	// Fixed2 always splits in 2.
	Fixed2
	// Fixed3 always splits in 3.
	Fixed3
)

// String returns the display name of the selection.
func (s Selection) String() string {
	switch s {
	case Adaptive:
		return "adaptive"
	case Fixed2:
		return "k=2"
	case Fixed3:
		return "k=3"
	}
	return "Selection(" + strconv.Itoa(int(s)) + ")"
}

func (s Selection) valid() bool {
	return s == Adaptive || s == Fixed2 || s == Fixed3
}

var selectionNames = []string{"adaptive", "2", "3"}

// ParseSelection converts "adaptive", "2" or "3" (also "k=2", "k=3") into a
// Selection.
func ParseSelection(s string) (Selection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "adaptive", "auto", "0":
		return Adaptive, nil
	case "2", "k=2":
		return Fixed2, nil
	case "3", "k=3":
		return Fixed3, nil
	}
	return 0, apperrors.InvalidPolicyError{Value: s, Allowed: selectionNames}
}

// SelectionFromK maps a split factor to a Selection: 0 is adaptive, 2 and 3
// are fixed. Any other value is rejected.
func SelectionFromK(k int) (Selection, error) {
	switch k {
	case 0:
		return Adaptive, nil
	case 2:
		return Fixed2, nil
	case 3:
		return Fixed3, nil
	}
	return 0, apperrors.InvalidPolicyError{Value: "k=" + strconv.Itoa(k), Allowed: selectionNames}
}

// Profiler estimates subtree costs while recording every node it visits.
// Its registry is never reset implicitly, so repeated Estimate calls
// accumulate frequencies across a whole sweep. A Profiler is not safe for
// concurrent use.
type Profiler struct {
	selection Selection
	registry  *Registry
	logger    zerolog.Logger
}

// New creates a profiler with an empty registry. A selection outside the
// enumerated values fails with InvalidPolicyError.
func New(sel Selection) (*Profiler, error) {
	if !sel.valid() {
		return nil, apperrors.InvalidPolicyError{Value: sel.String(), Allowed: selectionNames}
	}
	return &Profiler{
		selection: sel,
		registry:  newRegistry(),
		logger:    zerolog.Nop(),
	}, nil
}

// MustNew is like New but panics on an invalid selection. It is meant for
// the Adaptive, Fixed2 and Fixed3 constants.
func MustNew(sel Selection) *Profiler {
	p, err := New(sel)
	if err != nil {
		panic("profiler: " + err.Error())
	}
	return p
}

// NewFromK creates a profiler from a split factor (0 for adaptive).
func NewFromK(k int) (*Profiler, error) {
	sel, err := SelectionFromK(k)
	if err != nil {
		return nil, err
	}
	return New(sel)
}

// SetLogger configures the logger for estimation events.
func (p *Profiler) SetLogger(l zerolog.Logger) {
	p.logger = l
}

// Selection returns the split selection the profiler was built with.
func (p *Profiler) Selection() Selection { return p.selection }

// Registry exposes the accumulated node counts.
func (p *Profiler) Registry() *Registry { return p.registry }

// Clear empties the registry; the selection is kept.
func (p *Profiler) Clear() {
	p.registry.Reset()
}

// Report returns the registry entries by descending count. It does not
// modify the profiler.
func (p *Profiler) Report() []NodeCount {
	return p.registry.Sorted()
}

// Top returns at most limit entries of Report. A non-positive limit
// returns every entry.
func (p *Profiler) Top(limit int) []NodeCount {
	all := p.Report()
	if limit > 0 && limit < len(all) {
		return all[:limit]
	}
	return all
}

// Estimate returns the subtree cost of an n-bit product and records every
// node of its recursion tree in the registry.
func (p *Profiler) Estimate(n int) (int, error) {
	if n < 2 {
		return 0, apperrors.ValidationError{Field: "n", Message: "bit width must be at least 2"}
	}
	before := p.registry.Visits()
	cost := p.estimate(n)
	p.logger.Debug().
		Int("n", n).
		Str("selection", p.selection.String()).
		Int("cost", cost).
		Uint64("visits", p.registry.Visits()-before).
		Msg("profile estimated")
	return cost, nil
}

func (p *Profiler) estimate(n int) int {
	var node NodeDescriptor
	cost := 0

	switch n {
	case 2, 3:
		node = NodeDescriptor{Kind: baseKind(n), N: n}
		cost = 2 * n
	case 4:
		node = NodeDescriptor{Kind: KindBase4, N: 4}
		for range 3 {
			cost += p.estimate(2)
		}
	case 5, 6:
		node = NodeDescriptor{Kind: KindBase6, N: 6}
		for range 3 {
			cost += p.estimate(3)
		}
	default:
		k := p.splitFactor(n)
		node = NodeDescriptor{Kind: KindPhaseProduct, N: n, K: k}
		padded := n
		for padded%k != 0 {
			padded++
		}
		part := padded / k
		switch k {
		case 3:
			cost = p.estimate(part) + p.estimate(part+2) + p.estimate(part+3)
		case 2:
			cost = p.estimate(part) + p.estimate(part+1)
		}
	}

	node.Cost = cost
	p.registry.Add(node)
	return cost
}

func (p *Profiler) splitFactor(n int) int {
	switch p.selection {
	case Fixed2:
		return 2
	case Fixed3:
		return 3
	}
	if n%3 == 0 {
		return 3
	}
	return 2
}

func baseKind(n int) NodeKind {
	if n == 2 {
		return KindBase2
	}
	return KindBase3
}
