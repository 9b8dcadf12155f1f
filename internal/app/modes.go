package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/agbru/qmulcost/internal/cli"
	"github.com/agbru/qmulcost/internal/cost"
	"github.com/agbru/qmulcost/internal/logging"
	"github.com/agbru/qmulcost/internal/policy"
	"github.com/agbru/qmulcost/internal/profiler"
	"github.com/agbru/qmulcost/internal/server"
	"github.com/agbru/qmulcost/internal/sweep"
	"github.com/agbru/qmulcost/internal/tui"
	"github.com/agbru/qmulcost/internal/ui"
)

// settings holds the parsed forms of the string-valued configuration.
type settings struct {
	policy    policy.Policy
	method    cost.Method
	selection profiler.Selection
}

func (a *Application) settings() (settings, error) {
	var s settings
	var err error
	if s.policy, err = policy.Parse(a.Config.Policy); err != nil {
		return s, err
	}
	if s.method, err = cost.ParseMethod(a.Config.Method); err != nil {
		return s, err
	}
	if s.selection, err = profiler.ParseSelection(a.Config.Split); err != nil {
		return s, err
	}
	return s, nil
}

func (a *Application) model(p policy.Policy) (*cost.Model, error) {
	return cost.NewModel(p, cost.WithLogger(a.logger.Zerolog()))
}

func (a *Application) presenter() cli.Presenter {
	return cli.Presenter{Quiet: a.Config.Quiet}
}

func (a *Application) runQubits(out io.Writer) error {
	s, err := a.settings()
	if err != nil {
		return err
	}
	m, err := a.model(s.policy)
	if err != nil {
		return err
	}
	start := time.Now()
	q, err := m.QubitCount(a.Config.N, s.method)
	d := time.Since(start)
	a.metrics.ObserveEstimate("qubits", s.policy.String(), d, err)
	if err != nil {
		return err
	}
	a.observeModel(s.policy.String(), m.Stats())
	a.presenter().PresentEstimate(cli.Estimate{
		Quantity: "qubits", N: a.Config.N, Policy: s.policy.String(), Method: s.method.String(),
		Value: float64(q), Duration: d,
	}, out)
	return nil
}

func (a *Application) runGates(out io.Writer) error {
	s, err := a.settings()
	if err != nil {
		return err
	}
	m, err := a.model(s.policy)
	if err != nil {
		return err
	}
	start := time.Now()
	g, err := m.GateCount(a.Config.N, a.Config.Epsilon, s.method)
	d := time.Since(start)
	a.metrics.ObserveEstimate("gates", s.policy.String(), d, err)
	if err != nil {
		return err
	}
	a.observeModel(s.policy.String(), m.Stats())
	a.presenter().PresentEstimate(cli.Estimate{
		Quantity: "T gates", N: a.Config.N, Policy: s.policy.String(), Method: s.method.String(),
		Epsilon: a.Config.Epsilon, Value: g, Duration: d,
	}, out)
	return nil
}

// runSweep evaluates the qubit and gate comparison sets in one concurrent
// run and prints a table for each.
func (a *Application) runSweep(ctx context.Context, out io.Writer) error {
	opt := cost.WithLogger(a.logger.Zerolog())
	qubits, err := sweep.StandardQubitSet(opt)
	if err != nil {
		return err
	}
	gates, err := sweep.StandardGateSet(a.Config.Epsilon, opt)
	if err != nil {
		return err
	}
	evaluators := append(qubits, gates...)

	series, err := a.runEvaluators(ctx, "sweep", evaluators, out)
	if err != nil {
		return err
	}
	for i, ev := range evaluators {
		if wc, ok := ev.(sweep.WorkCounter); ok {
			a.observeModel(series[i].Name, wc.Stats())
		}
	}

	p := a.presenter()
	p.PresentSweep("Qubit count", series[:len(qubits)], cli.DefaultSweepRows, out)
	p.PresentSweep("T-gate count (epsilon "+strconv.FormatFloat(a.Config.Epsilon, 'g', -1, 64)+")", series[len(qubits):], cli.DefaultSweepRows, out)
	return nil
}

func (a *Application) runProfile(ctx context.Context, out io.Writer) error {
	s, err := a.settings()
	if err != nil {
		return err
	}
	ev, err := sweep.NewProfileEvaluator(s.selection)
	if err != nil {
		return err
	}
	ev.Profiler().SetLogger(a.logger.Zerolog())

	if _, err := a.runEvaluators(ctx, "profile", []sweep.Evaluator{ev}, out); err != nil {
		return err
	}
	reg := ev.Profiler().Registry()
	a.metrics.ObserveProfile(reg.Visits(), reg.Len())
	a.presenter().PresentProfile(cli.ProfileSummary{
		Selection: s.selection,
		Range:     a.sweepRange(),
		Visits:    reg.Visits(),
		Shapes:    reg.Len(),
		Entries:   ev.Profiler().Top(a.Config.Top),
	}, out)
	return nil
}

func (a *Application) runREPL(ctx context.Context, out io.Writer) error {
	s, err := a.settings()
	if err != nil {
		return err
	}
	r := cli.NewREPL(cli.REPLConfig{
		Policy:    s.policy,
		Method:    s.method,
		Epsilon:   a.Config.Epsilon,
		Selection: s.selection,
		Top:       a.Config.Top,
	}, a.In, out)
	return r.Start(ctx)
}

// runServe answers HTTP estimation requests until ctx is canceled. The
// server records on the run's recorder, so -metrics prints the totals of
// the session on shutdown.
func (a *Application) runServe(ctx context.Context, out io.Writer) error {
	sec := server.DefaultSecurityConfig()
	s := server.New(server.Config{
		Addr:           a.Config.Addr,
		Epsilon:        a.Config.Epsilon,
		RequestTimeout: a.Config.Timeout,
		Security:       sec,
	}, a.metrics, a.logger)

	ln, err := s.Listen(ctx)
	if err != nil {
		return err
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "%s %s\n", ui.Header("Serving on"), ui.Accent("http://"+ln.Addr().String()))
	}
	return s.Serve(ctx, ln)
}

func (a *Application) runEvaluators(ctx context.Context, operation string, evaluators []sweep.Evaluator, out io.Writer) ([]sweep.Series, error) {
	var reporter sweep.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := a.ErrWriter
	if a.Config.Quiet {
		reporter = sweep.NullProgressReporter{}
		progressOut = io.Discard
	}

	rng := a.sweepRange()
	start := time.Now()
	var series []sweep.Series
	var err error
	if a.Config.TUI {
		series, err = tui.Run(ctx, evaluators, rng, tui.Options{
			Title:   operation,
			Version: Version,
			Workers: a.Config.Workers,
			Logger:  a.logger.Zerolog(),
		})
	} else {
		series, err = sweep.Run(ctx, evaluators, rng, reporter, progressOut,
			sweep.WithWorkers(a.Config.Workers),
			sweep.WithLogger(a.logger.Zerolog()))
	}
	d := time.Since(start)
	if err != nil {
		a.metrics.ObserveEstimate(operation, "all", d, err)
		return nil, err
	}
	for _, s := range series {
		a.metrics.ObserveEstimate(operation, s.Name, s.Duration, nil)
	}
	a.logger.Info("sweep finished",
		logging.String("operation", operation),
		logging.Int("series", len(series)),
		logging.Int("sizes", rng.Len()),
		logging.Float64("seconds", d.Seconds()))
	return series, nil
}

func (a *Application) sweepRange() sweep.Range {
	return sweep.Range{From: a.Config.From, To: a.Config.To, Step: a.Config.Step}
}

func (a *Application) observeModel(series string, st cost.Stats) {
	a.metrics.ObserveModelWork(series, st.Evaluations, st.CacheHits)
	a.logger.Debug("model work",
		logging.String("series", series),
		logging.Uint64("evaluations", st.Evaluations),
		logging.Uint64("cache_hits", st.CacheHits))
}
