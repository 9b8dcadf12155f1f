package tui

import (
	"sync"
	"testing"

	"github.com/agbru/qmulcost/internal/sweep"
)

func TestTUIProgressReporter_DrainsChannel(t *testing.T) {
	reporter := &TUIProgressReporter{ref: &programRef{}} // nil program: Send is a no-op

	ch := make(chan sweep.ProgressUpdate, 10)
	for _, v := range []float64{0.25, 0.5, 0.75, 1} {
		ch <- sweep.ProgressUpdate{SeriesIndex: 0, Value: v}
	}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, ch, 1, nil)
	wg.Wait()
	if len(ch) != 0 {
		t.Errorf("%d updates left in the channel", len(ch))
	}
}

func TestTUIProgressReporter_ZeroSeries(t *testing.T) {
	reporter := &TUIProgressReporter{ref: &programRef{}}
	ch := make(chan sweep.ProgressUpdate, 5)
	ch <- sweep.ProgressUpdate{SeriesIndex: 0, Value: 0.5}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, ch, 0, nil)
	wg.Wait()
}

func TestProgramRef_SendWithoutProgram(t *testing.T) {
	ref := &programRef{}
	ref.Send(ProgressDoneMsg{})
	ref.SetProgram(nil)
	ref.Send(ProgressDoneMsg{})
}
