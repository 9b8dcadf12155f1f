// Package cli renders estimates, sweep tables and node profiles for the
// terminal, and hosts the interactive session and shell completion scripts.
//
// Display* functions and Presenter methods write to an io.Writer; Format*
// functions return strings without I/O.
package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/agbru/qmulcost/internal/format"
	"github.com/agbru/qmulcost/internal/profiler"
	"github.com/agbru/qmulcost/internal/sweep"
	"github.com/agbru/qmulcost/internal/ui"
)

// DefaultSweepRows is the number of sampled sizes printed for a sweep.
const DefaultSweepRows = 12

// Estimate describes one qubit or gate estimate for display.
type Estimate struct {
	// Quantity is "qubits" or "T gates".
	Quantity string
	N        int
	Policy   string
	Method   string
	// Epsilon is zero for qubit estimates.
	Epsilon  float64
	Value    float64
	Duration time.Duration
}

// ProfileSummary describes a finished profiling run.
type ProfileSummary struct {
	Selection profiler.Selection
	Range     sweep.Range
	Visits    uint64
	Shapes    int
	Entries   []profiler.NodeCount
}

// Presenter writes results either as decorated reports or, in quiet mode,
// as bare values suitable for scripts.
type Presenter struct {
	Quiet bool
}

// PresentEstimate writes a single estimate.
func (p Presenter) PresentEstimate(e Estimate, out io.Writer) {
	if p.Quiet {
		fmt.Fprintln(out, FormatValue(e.Value))
		return
	}
	fmt.Fprintf(out, "%s\n", ui.Header(fmt.Sprintf("--- %s estimate ---", e.Quantity)))
	fmt.Fprintf(out, "  Bit width : %s\n", ui.Accent(format.FormatInt(e.N)))
	fmt.Fprintf(out, "  Policy    : %s\n", e.Policy)
	fmt.Fprintf(out, "  Method    : %s\n", e.Method)
	if e.Epsilon > 0 {
		fmt.Fprintf(out, "  Epsilon   : %g\n", e.Epsilon)
	}
	fmt.Fprintf(out, "  %-10s: %s\n", capitalize(e.Quantity), ui.Success(FormatValue(e.Value)))
	fmt.Fprintf(out, "  Time      : %s\n", ui.Muted(format.FormatExecutionDuration(e.Duration)))
}

// PresentSweep writes a table of rows sampled evenly across the sweep,
// always including the first and last size, followed by per-series
// duration and maximum.
func (p Presenter) PresentSweep(title string, series []sweep.Series, rows int, out io.Writer) {
	if len(series) == 0 {
		return
	}
	sizes := make([]int, 0, len(series[0].Points))
	for _, pt := range series[0].Points {
		sizes = append(sizes, pt.N)
	}

	if p.Quiet {
		names := make([]string, 0, len(series)+1)
		names = append(names, "n")
		for _, s := range series {
			names = append(names, s.Name)
		}
		fmt.Fprintln(out, strings.Join(names, "\t"))
		for _, n := range sizes {
			vals := []string{fmt.Sprint(n)}
			for _, s := range series {
				v, _ := s.At(n)
				vals = append(vals, FormatQuietValue(v))
			}
			fmt.Fprintln(out, strings.Join(vals, "\t"))
		}
		return
	}

	widths := make([]int, len(series))
	for i, s := range series {
		widths[i] = max(len(s.Name), 8)
		if mx, ok := s.Max(); ok {
			widths[i] = max(widths[i], len(FormatValue(mx.Value)))
		}
	}
	const nWidth = 8

	fmt.Fprintf(out, "\n%s\n", ui.Header("--- "+title+" ---"))
	header := []string{ui.Cell("n", nWidth, true)}
	for i, s := range series {
		header = append(header, ui.Cell(s.Name, widths[i], true))
	}
	fmt.Fprintln(out, ui.Muted(strings.Join(header, "  ")))

	for _, idx := range SampleIndices(len(sizes), rows) {
		n := sizes[idx]
		row := []string{ui.Cell(ui.Accent(format.FormatInt(n)), nWidth, true)}
		for i, s := range series {
			v, _ := s.At(n)
			row = append(row, ui.Cell(FormatValue(v), widths[i], true))
		}
		fmt.Fprintln(out, strings.Join(row, "  "))
	}

	fmt.Fprintln(out)
	for _, s := range series {
		mx, _ := s.Max()
		fmt.Fprintf(out, "  %s  max %s at n=%s  (%s)\n",
			ui.Cell(s.Name, 10, false), ui.Success(FormatValue(mx.Value)),
			format.FormatInt(mx.N), ui.Muted(format.FormatExecutionDuration(s.Duration)))
	}
}

// PresentProfile writes the node-shape frequency report.
func (p Presenter) PresentProfile(s ProfileSummary, out io.Writer) {
	if p.Quiet {
		for _, e := range s.Entries {
			fmt.Fprintf(out, "%d\t%s\n", e.Count, e.Node)
		}
		return
	}
	fmt.Fprintf(out, "%s\n", ui.Header(fmt.Sprintf("--- Node profile (%s, n=%d..%d step %d) ---",
		s.Selection, s.Range.From, s.Range.To, s.Range.Step)))
	fmt.Fprintf(out, "  Visits: %s   Distinct shapes: %s\n",
		ui.Accent(format.FormatCount(s.Visits)), ui.Accent(format.FormatInt(s.Shapes)))
	if len(s.Entries) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s\n", ui.Muted(fmt.Sprintf("  %4s  %12s  %7s  %s", "rank", "count", "share", "node")))
	for i, e := range s.Entries {
		share := 0.0
		if s.Visits > 0 {
			share = 100 * float64(e.Count) / float64(s.Visits)
		}
		fmt.Fprintf(out, "  %4d  %12s  %6.2f%%  %s\n", i+1, format.FormatCount(e.Count), share, e.Node)
	}
	if s.Shapes > len(s.Entries) {
		fmt.Fprintf(out, "  %s\n", ui.Muted(fmt.Sprintf("... %d more shapes", s.Shapes-len(s.Entries))))
	}
}

// DisplayError writes an error in the error style.
func DisplayError(err error, out io.Writer) {
	fmt.Fprintln(out, ui.Error("Error: "+err.Error()))
}

// SampleIndices picks up to rows indexes spread evenly over [0, total),
// always including the first and last one. Non-positive rows selects every
// index.
func SampleIndices(total, rows int) []int {
	if total <= 0 {
		return nil
	}
	if rows <= 0 || rows >= total {
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out
	}
	if rows == 1 {
		return []int{total - 1}
	}
	out := make([]int, 0, rows)
	last := -1
	for i := 0; i < rows; i++ {
		idx := int(math.Round(float64(i) * float64(total-1) / float64(rows-1)))
		if idx != last {
			out = append(out, idx)
			last = idx
		}
	}
	return out
}

// FormatValue renders an estimate: integral values with thousands
// separators, others with two decimals.
func FormatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return format.FormatNumberString(fmt.Sprintf("%.0f", v))
	}
	return format.FormatGateCount(v)
}

// FormatQuietValue renders an estimate without separators.
func FormatQuietValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.6f", v)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
