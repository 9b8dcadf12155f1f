//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/qmulcost/internal/format"
	"github.com/agbru/qmulcost/internal/sweep"
	"github.com/agbru/qmulcost/internal/ui"
)

const (
	// ProgressRefreshRate is how often the spinner suffix is redrawn.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts the terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the animation.
	Start()
	// Stop halts the animation and clears the line.
	Stop()
	// UpdateSuffix sets the text shown after the spinner.
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	return &realSpinner{spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)}
}

// DisplayProgress shows a spinner with an aggregated progress bar and ETA
// until progressChan is closed.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan sweep.ProgressUpdate, numSeries int, out io.Writer) {
	defer wg.Done()
	if numSeries <= 0 {
		for range progressChan {
		}
		return
	}

	state := format.NewProgressWithETA(numSeries)
	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(" " + format.FormatProgressBarWithETA(0, 0, ProgressBarWidth))
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				fmt.Fprintf(out, "%s %s\n", ui.Success("done"),
					format.ProgressBar(state.CalculateAverage(), ProgressBarWidth))
				return
			}
			state.UpdateWithETA(update.SeriesIndex, update.Value)
		case <-ticker.C:
			s.UpdateSuffix(" " + format.FormatProgressBarWithETA(state.CalculateAverage(), state.GetETA(), ProgressBarWidth))
		}
	}
}

// CLIProgressReporter displays sweep progress with a spinner.
type CLIProgressReporter struct{}

var _ sweep.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan sweep.ProgressUpdate, numSeries int, out io.Writer) {
	DisplayProgress(wg, progressChan, numSeries, out)
}
