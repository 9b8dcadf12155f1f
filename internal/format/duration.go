package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration renders sub-millisecond durations in µs, sub-second
// durations in ms, and anything longer with time.Duration's own format.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}
