package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/qmulcost/internal/ui"
)

// Dashboard styles, rebuilt from the ui theme by initStyles.
var (
	panelStyle       lipgloss.Style
	panelTitleStyle  lipgloss.Style
	headerStyle      lipgloss.Style
	titleStyle       lipgloss.Style
	mutedStyle       lipgloss.Style
	valueStyle       lipgloss.Style
	selectedStyle    lipgloss.Style
	barFilledStyle   lipgloss.Style
	barEmptyStyle    lipgloss.Style
	statusRunStyle   lipgloss.Style
	statusDoneStyle  lipgloss.Style
	statusErrorStyle lipgloss.Style
	statusPauseStyle lipgloss.Style
	chartStyle       lipgloss.Style
	cpuStyle         lipgloss.Style
	memStyle         lipgloss.Style
	keyStyle         lipgloss.Style
)

func init() {
	initStyles()
}

// initStyles rebuilds every style from the current ui theme. Run calls it
// again after the theme has been chosen.
func initStyles() {
	t := ui.GetCurrentTheme()
	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		if t.Plain {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}

	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	if !t.Plain {
		panelStyle = panelStyle.BorderForeground(t.Muted)
	}
	panelTitleStyle = fg(t.Accent).Bold(true)
	headerStyle = fg(t.Accent).Bold(true).Padding(0, 1)
	titleStyle = fg(t.Accent).Bold(true)
	mutedStyle = fg(t.Muted)
	valueStyle = fg(t.Accent).Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	barFilledStyle = fg(t.Accent)
	barEmptyStyle = fg(t.Muted)
	statusRunStyle = fg(t.Accent).Bold(true)
	statusDoneStyle = fg(t.Success).Bold(true)
	statusErrorStyle = fg(t.Error).Bold(true)
	statusPauseStyle = fg(t.Warning).Bold(true)
	chartStyle = fg(t.Success)
	cpuStyle = fg(t.Accent)
	memStyle = fg(t.Warning)
	keyStyle = fg(t.Accent).Bold(true)
}
