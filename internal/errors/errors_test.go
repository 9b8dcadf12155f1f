// Package apperrors provides tests for application error types.
package apperrors

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "invalid flag value"},
			expected: "invalid flag value",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid value %d for flag %s", 42, "--step"),
			expected: "invalid value 42 for flag --step",
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestEstimationError(t *testing.T) {
	t.Parallel()
	cause := InvalidEpsilonError{Epsilon: 2}
	err := EstimationError{Operation: "gates", N: 16, Cause: cause}

	want := "gates estimate for n=16: epsilon 2 must be in the open interval (0, 1)"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
	if err.Unwrap() != error(cause) {
		t.Error("Unwrap should return the original cause")
	}
	var epsErr InvalidEpsilonError
	if !errors.As(err, &epsErr) {
		t.Fatal("errors.As should find InvalidEpsilonError through EstimationError")
	}
	if epsErr.Epsilon != 2 {
		t.Errorf("expected Epsilon 2, got %g", epsErr.Epsilon)
	}
}

func TestDomainErrorMessages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "policy without allowed list",
			err:      InvalidPolicyError{Value: "toom-4"},
			expected: `invalid policy "toom-4"`,
		},
		{
			name:     "policy with allowed list",
			err:      InvalidPolicyError{Value: "x", Allowed: []string{"a", "b"}},
			expected: `invalid policy "x" (expected one of [a b])`,
		},
		{
			name:     "epsilon",
			err:      InvalidEpsilonError{Epsilon: 0},
			expected: "epsilon 0 must be in the open interval (0, 1)",
		},
		{
			name:     "undefined base case",
			err:      UndefinedBaseCaseError{N: 5},
			expected: "no base case defined for padded size 5 (expected 2, 3, 4 or 6)",
		},
		{
			name:     "non integer size",
			err:      NonIntegerSizeError{N: 10, K: 3},
			expected: "size 10 is not divisible by split factor 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
		})
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()
	err := TimeoutError{Operation: "sweep", Limit: 30 * time.Second}
	if got, want := err.Error(), `operation "sweep" timed out after 30s`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         ValidationError
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns formatted message",
			err:      ValidationError{Field: "n", Message: "must be at least 2"},
			expected: `validation error for "n": must be at least 2`,
		},
		{
			name:        "errors.As works with ValidationError",
			err:         ValidationError{Field: "step", Message: "must be positive"},
			expected:    `validation error for "step": must be positive`,
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var err error = tt.err
			if err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, err.Error())
			}
			if tt.checkTypeAs {
				var validationErr ValidationError
				if !errors.As(err, &validationErr) {
					t.Error("expected error to be ValidationError type")
				}
				if validationErr.Field != tt.err.Field {
					t.Errorf("expected Field %q, got %q", tt.err.Field, validationErr.Field)
				}
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		original    error
		format      string
		args        []any
		expectedMsg string
		expectNil   bool
		checkIs     error
	}{
		{
			name:        "wraps error with context",
			original:    errors.New("file not found"),
			format:      "failed to load config",
			expectedMsg: "failed to load config: file not found",
		},
		{
			name:        "preserves error chain",
			original:    context.DeadlineExceeded,
			format:      "sweep timed out",
			expectedMsg: "sweep timed out: context deadline exceeded",
			checkIs:     context.DeadlineExceeded,
		},
		{
			name:      "returns nil for nil error",
			original:  nil,
			format:    "some context",
			expectNil: true,
		},
		{
			name:        "supports format arguments",
			original:    errors.New("bad size"),
			format:      "series %s at n=%d",
			args:        []any{"Karatsuba", 8},
			expectedMsg: "series Karatsuba at n=8: bad size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := WrapError(tt.original, tt.format, tt.args...)

			if tt.expectNil {
				if wrapped != nil {
					t.Error("WrapError(nil, ...) should return nil")
				}
				return
			}
			if wrapped == nil {
				t.Fatal("wrapped error should not be nil")
			}
			if wrapped.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, wrapped.Error())
			}
			if tt.checkIs != nil && !errors.Is(wrapped, tt.checkIs) {
				t.Errorf("wrapped error should preserve %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"context.Canceled", context.Canceled, true},
		{"context.DeadlineExceeded", context.DeadlineExceeded, true},
		{"wrapped context.Canceled", WrapError(context.Canceled, "operation canceled"), true},
		{"regular error", errors.New("some error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.expected {
				t.Errorf("IsContextError(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"deadline", WrapError(context.DeadlineExceeded, "sweep"), ExitErrorTimeout},
		{"timeout type", TimeoutError{Operation: "x", Limit: time.Second}, ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"config", NewConfigError("bad"), ExitErrorConfig},
		{"validation", ValidationError{Field: "n"}, ExitErrorConfig},
		{"policy", EstimationError{Cause: InvalidPolicyError{Value: "x"}}, ExitErrorConfig},
		{"epsilon", InvalidEpsilonError{Epsilon: 1}, ExitErrorConfig},
		{"base case", UndefinedBaseCaseError{N: 5}, ExitErrorGeneric},
		{"plain", errors.New("boom"), ExitErrorGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	t.Run("nil writes nothing", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if code := HandleError(nil, &buf); code != ExitSuccess {
			t.Errorf("expected ExitSuccess, got %d", code)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if code := HandleError(context.Canceled, &buf); code != ExitErrorCanceled {
			t.Errorf("expected ExitErrorCanceled, got %d", code)
		}
		if !strings.Contains(buf.String(), "canceled") {
			t.Errorf("output should mention cancellation, got %q", buf.String())
		}
	})

	t.Run("generic error is printed", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		HandleError(UndefinedBaseCaseError{N: 5}, &buf)
		if !strings.Contains(buf.String(), "padded size 5") {
			t.Errorf("output should contain the cause, got %q", buf.String())
		}
	})
}

func TestExitCodes(t *testing.T) {
	t.Parallel()
	codes := map[string]int{
		"ExitSuccess":       ExitSuccess,
		"ExitErrorGeneric":  ExitErrorGeneric,
		"ExitErrorTimeout":  ExitErrorTimeout,
		"ExitErrorConfig":   ExitErrorConfig,
		"ExitErrorCanceled": ExitErrorCanceled,
	}

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess should be 0, got %d", ExitSuccess)
	}
	if ExitErrorCanceled != 130 {
		t.Errorf("ExitErrorCanceled should be 130 (SIGINT convention), got %d", ExitErrorCanceled)
	}

	seen := make(map[int]string)
	for name, code := range codes {
		if existing, ok := seen[code]; ok {
			t.Errorf("duplicate exit code %d: %s and %s", code, existing, name)
		}
		seen[code] = name
	}
}
