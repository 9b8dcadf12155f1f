package ui

import "github.com/charmbracelet/lipgloss"

func render(s string, style func(Theme) lipgloss.Style) string {
	t := GetCurrentTheme()
	if t.Plain {
		return s
	}
	return style(t).Render(s)
}

// Header renders a bold accent heading.
func Header(s string) string {
	return render(s, func(t Theme) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	})
}

// Accent highlights a value.
func Accent(s string) string {
	return render(s, func(t Theme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(t.Accent)
	})
}

// Muted renders secondary text.
func Muted(s string) string {
	return render(s, func(t Theme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(t.Muted)
	})
}

// Success renders a positive status.
func Success(s string) string {
	return render(s, func(t Theme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(t.Success)
	})
}

// Warning renders a caution message.
func Warning(s string) string {
	return render(s, func(t Theme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(t.Warning)
	})
}

// Error renders a failure message.
func Error(s string) string {
	return render(s, func(t Theme) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(t.Error)
	})
}

// Cell pads s to width columns, right-aligned when right is true. Width is
// measured on the visible text so styled cells line up.
func Cell(s string, width int, right bool) string {
	style := lipgloss.NewStyle().Width(width)
	if right {
		style = style.Align(lipgloss.Right)
	}
	return style.Render(s)
}
