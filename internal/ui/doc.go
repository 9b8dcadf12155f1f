// Package ui provides the terminal palette and lipgloss styles shared by the
// CLI presenters. Colors are disabled by --no-color or NO_COLOR.
package ui
