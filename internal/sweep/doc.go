// Package sweep evaluates several cost series over a range of operand sizes
// concurrently and collects the results for comparison. Presentation is
// decoupled through the ProgressReporter interface.
package sweep
