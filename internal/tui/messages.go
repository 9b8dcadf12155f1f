package tui

import (
	"time"

	"github.com/agbru/qmulcost/internal/metrics"
	"github.com/agbru/qmulcost/internal/sweep"
	"github.com/agbru/qmulcost/internal/sysmon"
)

// ProgressMsg carries one progress update of a series.
type ProgressMsg struct {
	SeriesIndex int
	Value       float64
	Average     float64
	ETA         time.Duration
}

// ProgressDoneMsg is sent once the progress channel is closed.
type ProgressDoneMsg struct{}

// SweepDoneMsg reports the end of the sweep.
type SweepDoneMsg struct {
	Series   []sweep.Series
	Err      error
	Duration time.Duration
}

// TickMsg drives the periodic resource sampling.
type TickMsg time.Time

// RuntimeMsg carries a Go runtime sample.
type RuntimeMsg metrics.RuntimeSnapshot

// LoadMsg carries a host load sample.
type LoadMsg sysmon.Load

// ContextCancelledMsg is sent when the parent context ends.
type ContextCancelledMsg struct {
	Err error
}
