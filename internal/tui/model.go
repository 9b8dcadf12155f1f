// Package tui renders an interactive dashboard while a sweep runs: one
// progress row per series, a chart of the selected series and runtime and
// host resource figures.
package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/agbru/qmulcost/internal/metrics"
	"github.com/agbru/qmulcost/internal/sweep"
	"github.com/agbru/qmulcost/internal/sysmon"
)

// Layout constants.
const (
	headerHeight       = 1
	footerHeight       = 1
	minBodyHeight      = 8
	SeriesPanelPercent = 60
	ResourcesHeight    = 6
	tickInterval       = 500 * time.Millisecond
)

// Options configures a dashboard run.
type Options struct {
	// Title names the run in the header ("sweep", "profile").
	Title   string
	Version string
	Workers int
	Logger  zerolog.Logger
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header    HeaderModel
	table     SeriesTable
	chart     ChartModel
	resources ResourcesModel
	footer    FooterModel
	keys      KeyMap

	ctx        context.Context
	cancel     context.CancelFunc
	evaluators []sweep.Evaluator
	rng        sweep.Range
	opts       Options
	ref        *programRef

	width, height int
	paused        bool
	done          bool
	results       []sweep.Series
	err           error
}

// NewModel creates a dashboard for evaluators over rng. The sweep starts
// with Init.
func NewModel(parent context.Context, evaluators []sweep.Evaluator, rng sweep.Range, opts Options) Model {
	names := make([]string, len(evaluators))
	for i, ev := range evaluators {
		names[i] = ev.Name()
	}
	if opts.Title == "" {
		opts.Title = "sweep"
	}
	ctx, cancel := context.WithCancel(parent)
	keys := DefaultKeyMap()
	return Model{
		header:     NewHeaderModel(opts.Title, opts.Version, rng),
		table:      NewSeriesTable(names),
		resources:  NewResourcesModel(),
		footer:     NewFooterModel(keys),
		keys:       keys,
		ctx:        ctx,
		cancel:     cancel,
		evaluators: evaluators,
		rng:        rng,
		opts:       opts,
		ref:        &programRef{},
	}
}

// Init starts the sweep, the resource sampler and the context watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startSweepCmd(m.ctx, m.ref, m.evaluators, m.rng, m.opts),
		watchContextCmd(m.ctx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case ProgressMsg:
		if !m.paused {
			m.table.SetProgress(msg.SeriesIndex, msg.Value)
			m.footer.SetProgress(msg.Average, msg.ETA)
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case SweepDoneMsg:
		m.done = true
		m.header.SetDone()
		if msg.Err != nil {
			m.err = msg.Err
			m.table.SetFailed()
			m.footer.failed = true
			if m.ctx.Err() != nil {
				return m, tea.Quit
			}
			return m, nil
		}
		m.results = msg.Series
		m.table.SetResults(msg.Series)
		m.footer.done = true
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleRuntimeCmd(), sampleLoadCmd(), tickCmd())

	case RuntimeMsg:
		m.resources.UpdateRuntime(metrics.RuntimeSnapshot(msg))
		return m, nil

	case LoadMsg:
		m.resources.UpdateLoad(sysmon.Load(msg))
		return m, nil

	case ContextCancelledMsg:
		if m.done {
			return m, nil
		}
		m.err = msg.Err
		m.done = true
		m.header.SetDone()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if !m.done {
			m.err = context.Canceled
		}
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		m.footer.paused = m.paused
	case key.Matches(msg, m.keys.Up):
		m.table.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.table.Move(1)
	}
	return m, nil
}

// Results returns the finished series and the run error, if any. A run
// left before the sweep ended reports context.Canceled.
func (m Model) Results() ([]sweep.Series, error) {
	if m.err != nil {
		return nil, m.err
	}
	if !m.done {
		return nil, context.Canceled
	}
	return m.results, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	selected, ok := m.table.Selected()
	right := lipgloss.JoinVertical(lipgloss.Left, m.resources.View(), m.chart.View(selected, ok))
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.table.View(), right)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) bodyHeight() int {
	return max(minBodyHeight, m.height-headerHeight-footerHeight)
}

func (m *Model) layout() {
	left := m.width * SeriesPanelPercent / 100
	right := m.width - left
	body := m.bodyHeight()
	res := min(ResourcesHeight, body/2)

	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.table.SetSize(left, body)
	m.resources.SetSize(right, res)
	m.chart.SetSize(right, body-res)
}

// Run shows the dashboard until the user quits and returns the sweep
// results. Leaving before the sweep has finished cancels it.
func Run(ctx context.Context, evaluators []sweep.Evaluator, rng sweep.Range, opts Options) ([]sweep.Series, error) {
	initStyles()

	model := NewModel(ctx, evaluators, rng, opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.ref.SetProgram(p)

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if fm, ok := final.(Model); ok {
		return fm.Results()
	}
	return nil, context.Canceled
}

func startSweepCmd(ctx context.Context, ref *programRef, evaluators []sweep.Evaluator, rng sweep.Range, opts Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		series, err := sweep.Run(ctx, evaluators, rng, &TUIProgressReporter{ref: ref}, io.Discard,
			sweep.WithWorkers(opts.Workers),
			sweep.WithLogger(opts.Logger))
		return SweepDoneMsg{Series: series, Err: err, Duration: time.Since(start)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleRuntimeCmd() tea.Cmd {
	return func() tea.Msg {
		return RuntimeMsg(metrics.ReadRuntime())
	}
}

func sampleLoadCmd() tea.Cmd {
	return func() tea.Msg {
		return LoadMsg(sysmon.Sample())
	}
}

func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
