package profiler

import (
	"fmt"
	"sort"
)

// NodeKind classifies one recursion call.
type NodeKind uint8

const (
	// KindBase2 is a 2-bit product costed in closed form.
	KindBase2 NodeKind = iota
	// KindBase3 is a 3-bit product costed in closed form.
	KindBase3
	// KindBase4 is a 4-bit product built from three 2-bit products.
	KindBase4
	// KindBase6 is a 5- or 6-bit product built from three 3-bit products.
	KindBase6
	// KindPhaseProduct is a recursive split node.
	KindPhaseProduct
)

// String returns the label used in reports.
func (k NodeKind) String() string {
	switch k {
	case KindBase2:
		return "base-2"
	case KindBase3:
		return "base-3"
	case KindBase4:
		return "base-4"
	case KindBase6:
		return "base-6"
	case KindPhaseProduct:
		return "phase-product"
	}
	return fmt.Sprintf("NodeKind(%d)", uint8(k))
}

// NodeDescriptor is the structural fingerprint of one recursion call. It is
// comparable, so two descriptors with equal fields are the same node shape
// and collapse into one registry key.
type NodeDescriptor struct {
	Kind NodeKind
	// N is the size the node was asked for (6 for every base-6 node).
	N int
	// K is the split factor; zero on base nodes.
	K int
	// Cost is the subtree cost returned by the node.
	Cost int
}

// String renders the descriptor for reports and logs.
func (d NodeDescriptor) String() string {
	if d.K == 0 {
		return fmt.Sprintf("%s n=%d cost=%d", d.Kind, d.N, d.Cost)
	}
	return fmt.Sprintf("%s n=%d k=%d cost=%d", d.Kind, d.N, d.K, d.Cost)
}

func (d NodeDescriptor) less(o NodeDescriptor) bool {
	if d.Kind != o.Kind {
		return d.Kind < o.Kind
	}
	if d.N != o.N {
		return d.N < o.N
	}
	if d.K != o.K {
		return d.K < o.K
	}
	return d.Cost < o.Cost
}

// NodeCount pairs a node shape with the number of times it was visited.
type NodeCount struct {
	Node  NodeDescriptor
	Count uint64
}

// Registry accumulates visit counts per node shape. It is owned by exactly
// one Profiler and is not safe for concurrent use.
type Registry struct {
	counts map[NodeDescriptor]uint64
	visits uint64
}

func newRegistry() *Registry {
	return &Registry{counts: make(map[NodeDescriptor]uint64)}
}

// Add records one visit of the given node shape.
func (r *Registry) Add(d NodeDescriptor) {
	r.counts[d]++
	r.visits++
}

// Count returns how many times the given shape was visited.
func (r *Registry) Count(d NodeDescriptor) uint64 {
	return r.counts[d]
}

// Len returns the number of distinct node shapes.
func (r *Registry) Len() int { return len(r.counts) }

// Visits returns the total number of recorded visits.
func (r *Registry) Visits() uint64 { return r.visits }

// Reset empties the registry.
func (r *Registry) Reset() {
	r.counts = make(map[NodeDescriptor]uint64)
	r.visits = 0
}

// Sorted returns every entry ordered by descending count. Ties are ordered
// by kind, size, split factor and cost so the output is deterministic.
func (r *Registry) Sorted() []NodeCount {
	out := make([]NodeCount, 0, len(r.counts))
	for d, c := range r.counts {
		out = append(out, NodeCount{Node: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Node.less(out[j].Node)
	})
	return out
}

// Snapshot returns a copy of the raw counts.
func (r *Registry) Snapshot() map[NodeDescriptor]uint64 {
	out := make(map[NodeDescriptor]uint64, len(r.counts))
	for d, c := range r.counts {
		out[d] = c
	}
	return out
}
