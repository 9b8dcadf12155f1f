package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// EstimationError encapsulates a failed cost estimation while preserving the
// original cause, so callers can still match the underlying typed error.
type EstimationError struct {
	// Operation names the estimate that failed (e.g., "qubits", "gates").
	Operation string
	// N is the bit width requested by the caller.
	N int
	// Cause is the underlying error that triggered this estimation error.
	Cause error
}

// Error returns the operation, size and the message from the underlying cause.
func (e EstimationError) Error() string {
	return fmt.Sprintf("%s estimate for n=%d: %v", e.Operation, e.N, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e EstimationError) Unwrap() error { return e.Cause }

// TimeoutError represents an estimation run that exceeded its time budget.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// InvalidPolicyError is returned when a splitting policy (or a profiler split
// selection) is not one of the recognized values.
type InvalidPolicyError struct {
	// Value is the rejected policy, as given by the caller.
	Value string
	// Allowed lists the accepted spellings.
	Allowed []string
}

// Error returns a formatted message naming the rejected policy.
func (e InvalidPolicyError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid policy %q", e.Value)
	}
	return fmt.Sprintf("invalid policy %q (expected one of %v)", e.Value, e.Allowed)
}

// InvalidEpsilonError is returned when a gate-compilation tolerance falls
// outside the open interval (0, 1).
type InvalidEpsilonError struct {
	Epsilon float64
}

// Error returns a formatted message describing the rejected tolerance.
func (e InvalidEpsilonError) Error() string {
	return fmt.Sprintf("epsilon %g must be in the open interval (0, 1)", e.Epsilon)
}

// UndefinedBaseCaseError is returned when the recursion bottoms out on a size
// that has no closed-form base case.
type UndefinedBaseCaseError struct {
	N int
}

// Error returns a formatted message naming the size.
func (e UndefinedBaseCaseError) Error() string {
	return fmt.Sprintf("no base case defined for padded size %d (expected 2, 3, 4 or 6)", e.N)
}

// NonIntegerSizeError is returned when a padded size is not divisible by the
// split factor chosen for it, which would make the next recursion level
// fractional.
type NonIntegerSizeError struct {
	N int
	K int
}

// Error returns a formatted message describing the indivisible split.
func (e NonIntegerSizeError) Error() string {
	return fmt.Sprintf("size %d is not divisible by split factor %d", e.N, e.K)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit code that best describes it.
func ExitCodeFor(err error) int {
	var (
		cfgErr    ConfigError
		valErr    ValidationError
		policyErr InvalidPolicyError
		epsErr    InvalidEpsilonError
		toErr     TimeoutError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &toErr):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &cfgErr), errors.As(err, &valErr),
		errors.As(err, &policyErr), errors.As(err, &epsErr):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}

// HandleError writes a short description of err to out and returns the
// matching exit code. A nil error writes nothing and returns ExitSuccess.
func HandleError(err error, out io.Writer) int {
	code := ExitCodeFor(err)
	switch code {
	case ExitSuccess:
	case ExitErrorTimeout:
		fmt.Fprintf(out, "Error: the estimation timed out: %v\n", err)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "Estimation canceled by user.\n")
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}
	return code
}
