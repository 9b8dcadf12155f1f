package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/qmulcost/internal/format"
	"github.com/agbru/qmulcost/internal/sweep"
)

// programRef is a shared reference to the tea.Program. bubbletea copies
// the model on every Update, so the sweep goroutines need a pointer that
// survives those copies.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program; it is a no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements sweep.ProgressReporter by forwarding
// updates to the dashboard.
type TUIProgressReporter struct {
	ref *programRef
}

var _ sweep.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the progress channel and sends a ProgressMsg per
// update, with the running average and ETA.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan sweep.ProgressUpdate, numSeries int, _ io.Writer) {
	defer wg.Done()
	if numSeries <= 0 {
		for range progressChan {
		}
		return
	}

	eta := format.NewProgressWithETA(numSeries)
	for update := range progressChan {
		avg, remaining := eta.UpdateWithETA(update.SeriesIndex, update.Value)
		t.ref.Send(ProgressMsg{
			SeriesIndex: update.SeriesIndex,
			Value:       update.Value,
			Average:     avg,
			ETA:         remaining,
		})
	}
	t.ref.Send(ProgressDoneMsg{})
}
