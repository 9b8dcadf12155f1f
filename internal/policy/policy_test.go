package policy

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/qmulcost/internal/errors"
)

func TestResolve(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		n          int
		policy     Policy
		wantPadded int
		wantK      int
	}{
		{"default multiple of 3", 9, Default, 9, 3},
		{"default multiple of 6 prefers 3", 12, Default, 12, 3},
		{"default even", 8, Default, 8, 2},
		{"default odd pads to even", 7, Default, 8, 2},
		{"default five pads to six", 5, Default, 6, 2},
		{"karatsuba odd", 7, Karatsuba, 8, 2},
		{"karatsuba even", 10, Karatsuba, 10, 2},
		{"karatsuba multiple of 3 stays binary", 9, Karatsuba, 10, 2},
		{"toom-3 exact", 9, Toom3, 9, 3},
		{"toom-3 pads by 2", 10, Toom3, 12, 3},
		{"toom-3 pads by 1", 11, Toom3, 12, 3},
		{"toom-3 small", 2, Toom3, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			padded, k, err := Resolve(tt.n, tt.policy)
			if err != nil {
				t.Fatalf("Resolve(%d, %v) returned error: %v", tt.n, tt.policy, err)
			}
			if padded != tt.wantPadded || k != tt.wantK {
				t.Errorf("Resolve(%d, %v) = (%d, %d), want (%d, %d)",
					tt.n, tt.policy, padded, k, tt.wantPadded, tt.wantK)
			}
		})
	}
}

func TestResolve_InvalidPolicy(t *testing.T) {
	t.Parallel()
	_, _, err := Resolve(8, Policy(42))
	var policyErr apperrors.InvalidPolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected InvalidPolicyError, got %v", err)
	}
	if policyErr.Value != "Policy(42)" {
		t.Errorf("unexpected rejected value %q", policyErr.Value)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"default", Default, false},
		{"Default", Default, false},
		{" karatsuba ", Karatsuba, false},
		{"Toom-3", Toom3, false},
		{"toom3", Toom3, false},
		{"toom-4", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) should fail", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	t.Parallel()
	for _, p := range All {
		text, err := p.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", p, err)
		}
		var back Policy
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != p {
			t.Errorf("round trip of %v gave %v", p, back)
		}
	}
	if _, err := Policy(9).MarshalText(); err == nil {
		t.Error("MarshalText should reject unknown policies")
	}
}

func TestString(t *testing.T) {
	t.Parallel()
	if Toom3.String() != "Toom-3" {
		t.Errorf("Toom3.String() = %q", Toom3.String())
	}
	if Policy(7).Valid() {
		t.Error("Policy(7) should not be valid")
	}
	if got := Names(); len(got) != 3 || got[2] != "toom-3" {
		t.Errorf("Names() = %v", got)
	}
}

// TestResolve_PropertyBased checks the resolver's structural guarantees for
// every policy over a wide range of sizes.
func TestResolve_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	for _, p := range All {
		properties.Property(p.String()+" pads to a multiple of k", prop.ForAll(
			func(n int) bool {
				padded, k, err := Resolve(n, p)
				return err == nil && (k == 2 || k == 3) && padded%k == 0
			},
			gen.IntRange(2, 100000),
		))

		properties.Property(p.String()+" pads by at most k-1", prop.ForAll(
			func(n int) bool {
				padded, k, _ := Resolve(n, p)
				return padded >= n && padded-n < k
			},
			gen.IntRange(2, 100000),
		))

		properties.Property(p.String()+" padded size is a fixed point", prop.ForAll(
			func(n int) bool {
				padded, _, _ := Resolve(n, p)
				again, _, _ := Resolve(padded, p)
				return again == padded
			},
			gen.IntRange(2, 100000),
		))

		// Default may pick k=2 for n+1 even when n+1 is a multiple of 3, so the
		// split factor is only stable for sizes that needed no padding.
		properties.Property(p.String()+" keeps k on unpadded sizes", prop.ForAll(
			func(n int) bool {
				padded, k, _ := Resolve(n, p)
				if padded != n {
					return true
				}
				again, k2, _ := Resolve(padded, p)
				return again == n && k2 == k
			},
			gen.IntRange(2, 100000),
		))
	}

	properties.TestingRun(t)
}
