package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/qmulcost/internal/cli"
	"github.com/agbru/qmulcost/internal/format"
	"github.com/agbru/qmulcost/internal/sweep"
)

// ChartModel plots the selected series against the bit width.
type ChartModel struct {
	width  int
	height int
}

// SetSize updates the panel dimensions.
func (c *ChartModel) SetSize(w, h int) {
	c.width, c.height = w, h
}

// View renders s, or a placeholder while no series has finished.
func (c ChartModel) View(s sweep.Series, ok bool) string {
	var b strings.Builder
	if !ok || len(s.Points) == 0 {
		b.WriteString(panelTitleStyle.Render("CHART"))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("  waiting for results..."))
		return c.panel(b.String())
	}

	b.WriteString(panelTitleStyle.Render("CHART " + s.Name))
	b.WriteString("\n")

	plotW := max(8, c.width-6)
	plotH := max(1, c.height-6)
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	for _, line := range RenderBrailleChart(Normalize(Downsample(values, plotW*2)), plotW, plotH) {
		b.WriteString(" ")
		b.WriteString(chartStyle.Render(line))
		b.WriteString("\n")
	}

	first, last := s.Points[0], s.Points[len(s.Points)-1]
	axis := fmt.Sprintf("n=%s", format.FormatInt(first.N))
	end := fmt.Sprintf("n=%s", format.FormatInt(last.N))
	gap := max(1, plotW-len(axis)-len(end))
	b.WriteString(" " + mutedStyle.Render(axis+strings.Repeat(" ", gap)+end))
	if peak, ok := s.Max(); ok {
		b.WriteString("\n " + mutedStyle.Render("max ") + valueStyle.Render(cli.FormatValue(peak.Value)) +
			mutedStyle.Render(fmt.Sprintf(" at n=%s", format.FormatInt(peak.N))))
	}
	return c.panel(b.String())
}

func (c ChartModel) panel(body string) string {
	return panelStyle.Width(max(0, c.width-2)).Height(max(0, c.height-2)).Render(body)
}
