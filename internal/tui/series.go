package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/qmulcost/internal/cli"
	"github.com/agbru/qmulcost/internal/format"
	"github.com/agbru/qmulcost/internal/sweep"
)

// SeriesStatus is the lifecycle state of one series row.
type SeriesStatus uint8

const (
	StatusRunning SeriesStatus = iota
	StatusDone
	StatusError
)

func (s SeriesStatus) String() string {
	switch s {
	case StatusDone:
		return "OK"
	case StatusError:
		return "ERR"
	}
	return "RUN"
}

// Column widths of the series table.
const (
	colName     = 18
	colProgress = 24
	colPct      = 7
	colValue    = 14
	colDur      = 10
	colStatus   = 5
)

// SeriesTable is the left panel: one row per series with its progress and,
// once done, its final value and duration.
type SeriesTable struct {
	names    []string
	progress []float64
	status   []SeriesStatus
	results  []sweep.Series
	cursor   int
	width    int
	height   int
}

// NewSeriesTable creates a table for the given series names.
func NewSeriesTable(names []string) SeriesTable {
	return SeriesTable{
		names:    names,
		progress: make([]float64, len(names)),
		status:   make([]SeriesStatus, len(names)),
	}
}

// SetSize updates the panel dimensions.
func (t *SeriesTable) SetSize(w, h int) {
	t.width, t.height = w, h
}

// SetProgress records the progress of one series. Out-of-range indices are
// ignored.
func (t *SeriesTable) SetProgress(idx int, v float64) {
	if idx < 0 || idx >= len(t.progress) {
		return
	}
	t.progress[idx] = max(t.progress[idx], min(1, v))
}

// SetResults marks every series done with its final values.
func (t *SeriesTable) SetResults(results []sweep.Series) {
	t.results = results
	for i := range t.status {
		t.status[i] = StatusDone
		t.progress[i] = 1
	}
}

// SetFailed marks every unfinished series as failed.
func (t *SeriesTable) SetFailed() {
	for i := range t.status {
		if t.progress[i] < 1 {
			t.status[i] = StatusError
		}
	}
}

// Move shifts the cursor by delta, staying within the rows.
func (t *SeriesTable) Move(delta int) {
	t.cursor = max(0, min(len(t.names)-1, t.cursor+delta))
}

// Cursor returns the selected row.
func (t SeriesTable) Cursor() int { return t.cursor }

// Selected returns the finished series under the cursor.
func (t SeriesTable) Selected() (sweep.Series, bool) {
	if t.cursor < len(t.results) {
		return t.results[t.cursor], true
	}
	return sweep.Series{}, false
}

// View renders the table.
func (t SeriesTable) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("SERIES"))
	b.WriteString("\n\n")
	header := fmt.Sprintf("%-*s %-*s %*s %*s %*s %*s",
		colName, "name", colProgress, "progress", colPct, "%", colValue, "final", colDur, "time", colStatus, "")
	b.WriteString(mutedStyle.Render(header))
	b.WriteString("\n")

	for i, name := range t.names {
		b.WriteString(t.renderRow(i, name))
		b.WriteString("\n")
	}
	return panelStyle.Width(max(0, t.width-2)).Height(max(0, t.height-2)).Render(b.String())
}

func (t SeriesTable) renderRow(i int, name string) string {
	final, dur := "-", "-"
	if i < len(t.results) {
		if last, ok := t.results[i].Final(); ok {
			final = cli.FormatValue(last.Value)
		}
		dur = format.FormatExecutionDuration(t.results[i].Duration.Round(time.Microsecond))
	}

	var status string
	switch t.status[i] {
	case StatusDone:
		status = statusDoneStyle.Render(t.status[i].String())
	case StatusError:
		status = statusErrorStyle.Render(t.status[i].String())
	default:
		status = statusRunStyle.Render(t.status[i].String())
	}

	label := lipgloss.NewStyle().Width(colName).Render(truncate(name, colName))
	if i == t.cursor {
		label = selectedStyle.Render(label)
	}
	return fmt.Sprintf("%s %s %*s %*s %*s %s",
		label,
		renderBar(t.progress[i], colProgress),
		colPct, fmt.Sprintf("%.1f%%", 100*t.progress[i]),
		colValue, truncate(final, colValue),
		colDur, dur,
		status)
}

func renderBar(progress float64, width int) string {
	filled := int(clampPercent(100*progress) / 100 * float64(width))
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// truncate shortens s to at most n runes, marking the cut with "…".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
