package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/qmulcost/internal/format"
	"github.com/agbru/qmulcost/internal/sweep"
)

// HeaderModel renders the top bar: title, range and elapsed time.
type HeaderModel struct {
	title     string
	version   string
	rng       sweep.Range
	startTime time.Time
	endTime   time.Time
	width     int
}

// NewHeaderModel creates a header whose timer starts now.
func NewHeaderModel(title, version string, rng sweep.Range) HeaderModel {
	return HeaderModel{title: title, version: version, rng: rng, startTime: time.Now()}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() {
	if h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// Elapsed returns the time since start, frozen once done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	text := "qmulcost " + h.title
	if h.version != "" && h.version != "dev" {
		text += " " + h.version
	}
	sep := mutedStyle.Render(" | ")
	row := titleStyle.Render(text) + sep +
		mutedStyle.Render(fmt.Sprintf("n=%d..%d step %d", h.rng.From, h.rng.To, h.rng.Step)) + sep +
		valueStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.Elapsed()))
	return headerStyle.Width(max(h.width, lipgloss.Width(row)+2)).Render(row)
}
