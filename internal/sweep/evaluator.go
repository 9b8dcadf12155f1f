//go:generate mockgen -source=evaluator.go -destination=mocks/mock_evaluator.go -package=mocks

package sweep

// Evaluator produces one numeric series over a range of operand sizes.
// Implementations own their state and are driven by a single goroutine.
type Evaluator interface {
	// Name labels the series in tables and metrics.
	Name() string
	// Evaluate returns the value of the series at bit width n.
	Evaluate(n int) (float64, error)
}
