package format

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumberString inserts thousands separators into a decimal integer
// string. A leading minus sign is preserved.
func FormatNumberString(s string) string {
	if s == "" {
		return s
	}
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 1)
	b.WriteString(sign)
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatInt formats an integer count with thousands separators.
func FormatInt(v int) string {
	return FormatNumberString(strconv.Itoa(v))
}

// FormatCount formats a non-negative counter with thousands separators.
func FormatCount(v uint64) string {
	return FormatNumberString(strconv.FormatUint(v, 10))
}

// FormatGateCount formats a T-gate estimate. Values are rounded to two
// decimals and the integer part is grouped; huge values fall back to
// scientific notation.
func FormatGateCount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if math.Abs(v) >= 1e15 {
		return strconv.FormatFloat(v, 'e', 4, 64)
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	return FormatNumberString(intPart) + "." + frac
}
