// Package app wires configuration, logging, metrics and the run modes of
// the qmulcost command.
package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/agbru/qmulcost/internal/cli"
	"github.com/agbru/qmulcost/internal/config"
	apperrors "github.com/agbru/qmulcost/internal/errors"
	"github.com/agbru/qmulcost/internal/logging"
	"github.com/agbru/qmulcost/internal/metrics"
	"github.com/agbru/qmulcost/internal/telemetry"
	"github.com/agbru/qmulcost/internal/ui"
)

// Application is one configured qmulcost invocation.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// In feeds the interactive mode.
	In io.Reader

	runID   string
	logger  *logging.ZerologAdapter
	metrics *metrics.Recorder
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithInput sets the reader used by the interactive mode.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// New parses args (program name first) into an Application.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}

	programName := "qmulcost"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}
	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	app.runID = uuid.NewString()
	app.metrics = metrics.NewRecorder()
	return app, nil
}

// Run executes the configured mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}
	if a.Config.Completion != "" {
		if err := cli.GenerateCompletion(out, a.Config.Completion, "qmulcost"); err != nil {
			cli.DisplayError(err, a.ErrWriter)
			return apperrors.ExitErrorConfig
		}
		return apperrors.ExitSuccess
	}

	ui.InitTheme(a.Config.NoColor)
	a.logger = a.newLogger()

	if a.Config.TraceFile != "" {
		shutdown, err := a.initTracing()
		if err != nil {
			return apperrors.HandleError(err, a.ErrWriter)
		}
		defer shutdown()
	}
	if a.Config.TUI && !isTerminal(os.Stdout) {
		a.logger.Info("stdout is not a terminal, dashboard disabled")
		a.Config.TUI = false
	}

	// Serve mode runs until interrupted; its timeout bounds each request.
	if a.Config.Mode != config.ModeServe {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, a.Config.Timeout)
		defer cancelTimeout()
	}
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var err error
	switch a.Config.Mode {
	case config.ModeQubits:
		err = a.runQubits(out)
	case config.ModeGates:
		err = a.runGates(out)
	case config.ModeSweep:
		err = a.runSweep(ctx, out)
	case config.ModeProfile:
		err = a.runProfile(ctx, out)
	case config.ModeREPL:
		err = a.runREPL(ctx, out)
	case config.ModeServe:
		err = a.runServe(ctx, out)
	default:
		err = apperrors.NewConfigError("unknown mode %q", a.Config.Mode)
	}

	if err != nil {
		a.logger.Error("run failed", err, logging.String("mode", a.Config.Mode))
	} else {
		a.logger.Info("run finished", logging.String("mode", a.Config.Mode))
	}
	code := apperrors.HandleError(err, a.ErrWriter)

	if a.Config.Metrics {
		if werr := a.metrics.WriteText(out); werr != nil {
			a.logger.Error("writing metrics", werr)
		}
	}
	return code
}

// Metrics exposes the run's recorder.
func (a *Application) Metrics() *metrics.Recorder { return a.metrics }

func (a *Application) newLogger() *logging.ZerologAdapter {
	level := zerolog.WarnLevel
	if a.Config.Verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: a.ErrWriter, NoColor: ui.GetCurrentTheme().Plain}
	return logging.NewZerologAdapter(zerolog.New(w).Level(level).With().
		Timestamp().
		Str("component", "qmulcost").
		Str("run_id", a.runID).
		Logger())
}

// initTracing exports spans to the configured file. The returned function
// flushes the spans and closes the file.
func (a *Application) initTracing() (func(), error) {
	f, err := os.Create(a.Config.TraceFile)
	if err != nil {
		return nil, apperrors.NewConfigError("creating trace file: %v", err)
	}
	shutdown, err := telemetry.Init(f, Version, a.runID)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			a.logger.Error("flushing spans", err)
		}
		if err := f.Close(); err != nil {
			a.logger.Error("closing trace file", err)
		}
	}, nil
}

// RunID returns the identifier attached to this run's logs and spans.
func (a *Application) RunID() string { return a.runID }

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsHelpError reports whether err comes from -h or -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
