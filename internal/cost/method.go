package cost

import (
	"strconv"
	"strings"

	apperrors "github.com/agbru/qmulcost/internal/errors"
)

// Method selects how a multiplication is costed.
type Method uint8

const (
	// Recursive costs the Toom-Cook style decomposition.
	Recursive Method = iota
	// Trivial costs the quadratic schoolbook circuit, without recursion.
	Trivial
)

// String returns the display name of the method.
func (m Method) String() string {
	switch m {
	case Recursive:
		return "Toom-Cook"
	case Trivial:
		return "Trivial"
	}
	return "Method(" + strconv.Itoa(int(m)) + ")"
}

// ParseMethod converts a user-supplied name into a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toom-cook", "toomcook", "recursive":
		return Recursive, nil
	case "trivial", "schoolbook":
		return Trivial, nil
	}
	return 0, apperrors.ValidationError{
		Field:   "method",
		Message: "unknown method " + strconv.Quote(s) + " (expected toom-cook or trivial)",
	}
}

func (m Method) validate() error {
	if m != Recursive && m != Trivial {
		return apperrors.ValidationError{Field: "method", Message: "unknown method " + m.String()}
	}
	return nil
}
