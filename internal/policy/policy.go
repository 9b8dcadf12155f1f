// Package policy decides, at every level of the Toom-Cook recursion, how an
// operand of n bits is padded and into how many pieces it is split.
package policy

import (
	"strconv"
	"strings"

	apperrors "github.com/agbru/qmulcost/internal/errors"
)

// Policy selects the split factor rule for an entire estimation run.
type Policy uint8

const (
	// Default splits in 3 when n is a multiple of 3, otherwise in 2,
	// padding odd sizes by one bit.
	Default Policy = iota
	// Karatsuba always splits in 2, padding odd sizes by one bit.
	Karatsuba
	// Toom3 always splits in 3, padding up to the next multiple of 3.
	Toom3
)

// All lists the policies in presentation order.
var All = []Policy{Default, Karatsuba, Toom3}

var names = map[Policy]string{
	Default:   "Default",
	Karatsuba: "Karatsuba",
	Toom3:     "Toom-3",
}

// String returns the display name of the policy.
func (p Policy) String() string {
	if name, ok := names[p]; ok {
		return name
	}
	return "Policy(" + strconv.Itoa(int(p)) + ")"
}

// Valid reports whether p is one of the enumerated policies.
func (p Policy) Valid() bool {
	_, ok := names[p]
	return ok
}

// Names returns the accepted spellings, lowercase, in presentation order.
func Names() []string {
	out := make([]string, 0, len(All))
	for _, p := range All {
		out = append(out, strings.ToLower(p.String()))
	}
	return out
}

// Parse converts a user-supplied name into a Policy. Matching is
// case-insensitive and accepts "toom3" as an alias of "toom-3".
func Parse(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default":
		return Default, nil
	case "karatsuba":
		return Karatsuba, nil
	case "toom-3", "toom3":
		return Toom3, nil
	}
	return 0, apperrors.InvalidPolicyError{Value: s, Allowed: Names()}
}

// Resolve returns the padded size and split factor to use for an operand of
// n bits. The padded size is always divisible by k and resolving it again
// never pads further.
func Resolve(n int, p Policy) (paddedN, k int, err error) {
	switch p {
	case Default:
		switch {
		case n%3 == 0:
			return n, 3, nil
		case n%2 == 0:
			return n, 2, nil
		default:
			return n + 1, 2, nil
		}
	case Karatsuba:
		if n%2 != 0 {
			return n + 1, 2, nil
		}
		return n, 2, nil
	case Toom3:
		return n + (3-n%3)%3, 3, nil
	}
	return 0, 0, apperrors.InvalidPolicyError{Value: p.String(), Allowed: Names()}
}

// Resolve is a method form of the package-level Resolve.
func (p Policy) Resolve(n int) (paddedN, k int, err error) {
	return Resolve(n, p)
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, apperrors.InvalidPolicyError{Value: p.String(), Allowed: Names()}
	}
	return []byte(strings.ToLower(p.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so policies can be read
// directly from YAML configuration files.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
