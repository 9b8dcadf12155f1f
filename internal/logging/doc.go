// Package logging provides a unified logging interface for the cost estimator.
// It abstracts the underlying logging implementation (zerolog), allowing
// consistent structured logging across components.
package logging
