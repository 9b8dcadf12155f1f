package sweep

import (
	"io"
	"sync"
)

// ProgressUpdate reports the completion fraction of one series.
type ProgressUpdate struct {
	// SeriesIndex is the position of the evaluator passed to Run.
	SeriesIndex int
	// Value is in [0, 1].
	Value float64
}

// ProgressReporter displays sweep progress. DisplayProgress runs in its own
// goroutine, must drain progressChan until it is closed and then call
// wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numSeries int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numSeries int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numSeries int, out io.Writer) {
	f(wg, progressChan, numSeries, out)
}

// NullProgressReporter drains the channel without output.
type NullProgressReporter struct{}

// DisplayProgress drains the channel.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
	}
}
