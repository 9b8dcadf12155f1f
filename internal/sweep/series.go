package sweep

import (
	"fmt"
	"time"

	apperrors "github.com/agbru/qmulcost/internal/errors"
)

// Range is an inclusive, strided range of operand sizes.
type Range struct {
	From int
	To   int
	Step int
}

// Validate rejects ranges that start below 2, end before they start or have
// a non-positive stride.
func (r Range) Validate() error {
	switch {
	case r.From < 2:
		return apperrors.ValidationError{Field: "from", Message: "range must start at 2 or above"}
	case r.To < r.From:
		return apperrors.ValidationError{Field: "to", Message: fmt.Sprintf("range end %d is below start %d", r.To, r.From)}
	case r.Step < 1:
		return apperrors.ValidationError{Field: "step", Message: "must be at least 1"}
	}
	return nil
}

// Len returns the number of sizes in a valid range.
func (r Range) Len() int {
	if r.Validate() != nil {
		return 0
	}
	return (r.To-r.From)/r.Step + 1
}

// Sizes lists the sizes of a valid range in ascending order.
func (r Range) Sizes() []int {
	out := make([]int, 0, r.Len())
	for n := r.From; n <= r.To && r.Step > 0; n += r.Step {
		out = append(out, n)
	}
	return out
}

// Point is one sample of a series.
type Point struct {
	N     int
	Value float64
}

// Series is the full output of one evaluator.
type Series struct {
	Name     string
	Points   []Point
	Duration time.Duration
}

// Final returns the last point of the series.
func (s Series) Final() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Max returns the point with the largest value; the first one wins ties.
func (s Series) Max() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	best := s.Points[0]
	for _, p := range s.Points[1:] {
		if p.Value > best.Value {
			best = p
		}
	}
	return best, true
}

// At returns the value at size n, if n was sampled.
func (s Series) At(n int) (float64, bool) {
	for _, p := range s.Points {
		if p.N == n {
			return p.Value, true
		}
	}
	return 0, false
}
