// Package config parses command-line flags, QMULCOST_ environment variables
// and an optional YAML file into an AppConfig.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agbru/qmulcost/internal/cost"
	apperrors "github.com/agbru/qmulcost/internal/errors"
	"github.com/agbru/qmulcost/internal/policy"
	"github.com/agbru/qmulcost/internal/profiler"
)

// EnvPrefix prefixes every environment variable read by the application.
const EnvPrefix = "QMULCOST_"

// Run modes.
const (
	ModeQubits  = "qubits"
	ModeGates   = "gates"
	ModeSweep   = "sweep"
	ModeProfile = "profile"
	ModeREPL    = "repl"
	ModeServe   = "serve"
)

// Modes lists the accepted values of -mode.
var Modes = []string{ModeQubits, ModeGates, ModeSweep, ModeProfile, ModeREPL, ModeServe}

// Defaults.
const (
	DefaultN       = 8
	DefaultFrom    = 2
	DefaultTo      = 4095
	DefaultStep    = 1
	DefaultTop     = 10
	DefaultTimeout = 5 * time.Minute
	DefaultAddr    = ":8080"
)

// AppConfig aggregates the application's configuration.
type AppConfig struct {
	// Mode selects what to run: qubits, gates, sweep, profile, repl or serve.
	Mode string
	// N is the operand bit width for the qubits and gates modes.
	N int
	// Policy names the splitting policy.
	Policy string
	// Method is "toom-cook" or "trivial".
	Method string
	// Epsilon is the rotation synthesis tolerance, in (0, 1).
	Epsilon float64
	// From, To and Step bound the sizes visited by sweep and profile.
	From, To, Step int
	// Split is the profiler split selection: adaptive, 2 or 3.
	Split string
	// Top limits the profile report; 0 prints every shape.
	Top int
	// Workers caps concurrent sweep series; 0 picks a value from the CPU count.
	Workers int
	// Timeout bounds the whole run. In serve mode it bounds each request.
	Timeout time.Duration
	// Addr is the listen address of serve mode.
	Addr    string
	Quiet   bool
	Verbose bool
	NoColor bool
	// Metrics dumps Prometheus metrics in text format after the run.
	Metrics bool
	// TUI replaces the spinner of sweep and profile runs with a dashboard.
	TUI bool
	// TraceFile receives OpenTelemetry spans as JSON when set.
	TraceFile string
	// ConfigFile is the optional YAML file path.
	ConfigFile string
	// Completion names a shell whose completion script is printed instead
	// of running.
	Completion  string
	ShowVersion bool
}

// ParseConfig parses arguments into an AppConfig. The effective priority
// is CLI flags, then environment variables, then the YAML file, then
// defaults. It returns flag.ErrHelp when -h was requested.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	cfg := AppConfig{}
	fs.StringVar(&cfg.Mode, "mode", ModeQubits, "Run mode: "+strings.Join(Modes, ", ")+".")
	fs.IntVar(&cfg.N, "n", DefaultN, "Operand bit width for the qubits and gates modes.")
	fs.StringVar(&cfg.Policy, "policy", "default", "Splitting policy: "+strings.Join(policy.Names(), ", ")+".")
	fs.StringVar(&cfg.Method, "method", "toom-cook", "Costing method: toom-cook or trivial.")
	fs.Float64Var(&cfg.Epsilon, "epsilon", cost.DefaultEpsilon, "Rotation synthesis tolerance, in (0, 1).")
	fs.IntVar(&cfg.From, "from", DefaultFrom, "First size of a sweep or profile range.")
	fs.IntVar(&cfg.To, "to", DefaultTo, "Last size of a sweep or profile range (inclusive).")
	fs.IntVar(&cfg.Step, "step", DefaultStep, "Stride of a sweep or profile range.")
	fs.StringVar(&cfg.Split, "split", "adaptive", "Profiler split factor: adaptive, 2 or 3.")
	fs.IntVar(&cfg.Top, "top", DefaultTop, "Number of node shapes in the profile report (0 for all).")
	fs.IntVar(&cfg.Workers, "workers", 0, "Maximum concurrent sweep series (0 for automatic).")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum run time (per request in serve mode).")
	fs.StringVar(&cfg.Addr, "addr", DefaultAddr, "Listen address of serve mode.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print bare values only.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for -quiet.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for -verbose.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&cfg.Metrics, "metrics", false, "Print Prometheus metrics after the run.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Show an interactive dashboard during sweep and profile runs.")
	fs.StringVar(&cfg.TraceFile, "trace", "", "Write OpenTelemetry spans to this file.")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Path to a YAML configuration file.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script for bash, zsh or fish and exit.")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version information and exit.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, apperrors.ConfigError{Message: err.Error()}
	}
	if fs.NArg() > 0 {
		return cfg, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if !isFlagSet(fs, "config") {
		cfg.ConfigFile = getEnvString("CONFIG", cfg.ConfigFile)
	}
	if cfg.ConfigFile != "" {
		fc, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return cfg, err
		}
		fc.apply(&cfg, fs)
	}
	applyEnvOverrides(&cfg, fs)

	if cfg.ShowVersion || cfg.Completion != "" {
		return cfg, nil
	}
	cfg = ApplyAdaptiveDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for the selected mode.
func (c AppConfig) Validate() error {
	switch c.Mode {
	case ModeQubits, ModeGates, ModeSweep, ModeProfile, ModeREPL, ModeServe:
	default:
		return apperrors.ValidationError{
			Field:   "mode",
			Message: fmt.Sprintf("unknown mode %q (expected %s)", c.Mode, strings.Join(Modes, ", ")),
		}
	}
	if _, err := policy.Parse(c.Policy); err != nil {
		return err
	}
	if _, err := cost.ParseMethod(c.Method); err != nil {
		return err
	}
	if c.Mode == ModeGates || c.Mode == ModeSweep || c.Mode == ModeREPL || c.Mode == ModeServe {
		if _, err := cost.CRZCost(c.Epsilon); err != nil {
			return err
		}
	}
	if c.Timeout <= 0 {
		return apperrors.ValidationError{Field: "timeout", Message: "must be positive"}
	}
	if c.Workers < 0 {
		return apperrors.ValidationError{Field: "workers", Message: "must not be negative"}
	}

	switch c.Mode {
	case ModeQubits, ModeGates:
		if c.N < cost.MinBitWidth {
			return apperrors.ValidationError{Field: "n", Message: "bit width must be at least 2"}
		}
	case ModeSweep, ModeProfile:
		if c.From < cost.MinBitWidth {
			return apperrors.ValidationError{Field: "from", Message: "range must start at 2 or above"}
		}
		if c.To < c.From {
			return apperrors.ValidationError{Field: "to", Message: fmt.Sprintf("range end %d is below start %d", c.To, c.From)}
		}
		if c.Step < 1 {
			return apperrors.ValidationError{Field: "step", Message: "must be at least 1"}
		}
	}
	if c.Mode == ModeServe && strings.TrimSpace(c.Addr) == "" {
		return apperrors.ValidationError{Field: "addr", Message: "listen address must not be empty"}
	}
	if c.TUI && c.Mode != ModeSweep && c.Mode != ModeProfile {
		return apperrors.ValidationError{Field: "tui", Message: "only available in sweep and profile modes"}
	}
	if c.TUI && c.Quiet {
		return apperrors.ValidationError{Field: "tui", Message: "cannot be combined with quiet output"}
	}
	if c.Mode == ModeProfile || c.Mode == ModeREPL {
		if _, err := profiler.ParseSelection(c.Split); err != nil {
			return err
		}
		if c.Top < 0 {
			return apperrors.ValidationError{Field: "top", Message: "must not be negative"}
		}
	}
	return nil
}
