package tui

import (
	"strings"
	"time"

	"github.com/agbru/qmulcost/internal/format"
)

// FooterModel renders key hints and the run status.
type FooterModel struct {
	keys    KeyMap
	paused  bool
	done    bool
	failed  bool
	average float64
	eta     time.Duration
	width   int
}

// NewFooterModel creates a footer for the given key map.
func NewFooterModel(keys KeyMap) FooterModel {
	return FooterModel{keys: keys}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetProgress records the overall progress and ETA.
func (f *FooterModel) SetProgress(avg float64, eta time.Duration) {
	f.average, f.eta = avg, eta
}

// View renders the footer.
func (f FooterModel) View() string {
	hints := make([]string, 0, 4)
	for _, k := range f.keys.ShortHelp() {
		h := k.Help()
		hints = append(hints, keyStyle.Render(h.Key)+" "+mutedStyle.Render(h.Desc))
	}

	var status string
	switch {
	case f.failed:
		status = statusErrorStyle.Render("FAILED")
	case f.done:
		status = statusDoneStyle.Render("DONE") + mutedStyle.Render(" press q to print the report")
	case f.paused:
		status = statusPauseStyle.Render("PAUSED")
	default:
		status = statusRunStyle.Render("RUNNING") + " " +
			mutedStyle.Render(format.FormatProgressBarWithETA(f.average, f.eta, 20))
	}
	return " " + strings.Join(hints, "  ") + "   " + status
}
