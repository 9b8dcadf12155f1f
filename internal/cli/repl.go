package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/qmulcost/internal/cost"
	apperrors "github.com/agbru/qmulcost/internal/errors"
	"github.com/agbru/qmulcost/internal/policy"
	"github.com/agbru/qmulcost/internal/profiler"
	"github.com/agbru/qmulcost/internal/sweep"
	"github.com/agbru/qmulcost/internal/ui"
)

// REPLConfig holds the initial settings of an interactive session.
type REPLConfig struct {
	Policy    policy.Policy
	Method    cost.Method
	Epsilon   float64
	Selection profiler.Selection
	// Top limits profile reports; 0 prints every shape.
	Top int
}

// REPL is an interactive estimation session. Models are kept per policy
// for the whole session so their memo tables are reused across commands.
type REPL struct {
	config    REPLConfig
	models    map[policy.Policy]*cost.Model
	presenter Presenter
	in        io.Reader
	out       io.Writer
}

// NewREPL creates a session reading from in and writing to out.
func NewREPL(config REPLConfig, in io.Reader, out io.Writer) *REPL {
	if config.Epsilon == 0 {
		config.Epsilon = cost.DefaultEpsilon
	}
	return &REPL{
		config: config,
		models: make(map[policy.Policy]*cost.Model),
		in:     in,
		out:    out,
	}
}

// Start reads commands until exit, end of input or cancellation of ctx.
func (r *REPL) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, ui.Header("qmulcost interactive mode"))
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(r.out, ui.Accent("qmul> "))
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line = strings.TrimSpace(line); line != "" {
			if !r.processCommand(line) {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return nil
		}
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "Available commands:")
	for _, c := range [][2]string{
		{"qubits <n>", "Qubit count of an n-bit product"},
		{"gates <n>", "T-gate count of an n-bit product"},
		{"<n>", "Both counts"},
		{"resolve <n>", "Padded size and split factor under the current policy"},
		{"compare <n>", "Every policy and the trivial baseline side by side"},
		{"profile <n>", "Node shapes of one recursion tree"},
		{"policy <name>", "Set the policy (" + strings.Join(policy.Names(), ", ") + ")"},
		{"method <name>", "Set the method (toom-cook, trivial)"},
		{"epsilon <e>", "Set the rotation tolerance"},
		{"split <s>", "Set the profiler split (adaptive, 2, 3)"},
		{"status", "Show the current settings"},
		{"help", "Show this help"},
		{"exit", "Leave the session"},
	} {
		fmt.Fprintf(r.out, "  %-14s - %s\n", c[0], c[1])
	}
}

// processCommand runs one command line; it returns false on exit.
func (r *REPL) processCommand(line string) bool {
	parts := strings.Fields(line)
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	var err error
	switch cmd {
	case "qubits", "q":
		err = r.withSize(args, r.cmdQubits)
	case "gates", "g":
		err = r.withSize(args, r.cmdGates)
	case "resolve", "r":
		err = r.withSize(args, r.cmdResolve)
	case "compare", "cmp":
		err = r.withSize(args, r.cmdCompare)
	case "profile", "p":
		err = r.withSize(args, r.cmdProfile)
	case "policy":
		err = r.set(args, "policy <name>", func(v string) error {
			p, err := policy.Parse(v)
			r.config.Policy = p
			return err
		})
	case "method":
		err = r.set(args, "method <name>", func(v string) error {
			m, err := cost.ParseMethod(v)
			r.config.Method = m
			return err
		})
	case "epsilon", "eps":
		err = r.set(args, "epsilon <e>", func(v string) error {
			e, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid epsilon %q", v)
			}
			if _, err := cost.CRZCost(e); err != nil {
				return err
			}
			r.config.Epsilon = e
			return nil
		})
	case "split":
		err = r.set(args, "split <s>", func(v string) error {
			s, err := profiler.ParseSelection(v)
			r.config.Selection = s
			return err
		})
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit":
		fmt.Fprintln(r.out, ui.Success("Goodbye!"))
		return false
	default:
		n, convErr := strconv.Atoi(cmd)
		if convErr != nil {
			fmt.Fprintf(r.out, "%s\nType %s to see available commands.\n", ui.Error("Unknown command: "+cmd), ui.Accent("help"))
			return true
		}
		if err = r.cmdQubits(n); err == nil {
			err = r.cmdGates(n)
		}
	}
	if err != nil {
		DisplayError(err, r.out)
	}
	return true
}

func (r *REPL) withSize(args []string, run func(int) error) error {
	if len(args) == 0 {
		return errors.New("missing bit width")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid bit width %q", args[0])
	}
	return run(n)
}

// set applies a setting. Parse errors leave the previous value untouched.
func (r *REPL) set(args []string, usage string, apply func(string) error) error {
	if len(args) == 0 {
		return errors.New("usage: " + usage)
	}
	before := r.config
	if err := apply(args[0]); err != nil {
		r.config = before
		return err
	}
	r.cmdStatus()
	return nil
}

func (r *REPL) model(p policy.Policy) (*cost.Model, error) {
	if m, ok := r.models[p]; ok {
		return m, nil
	}
	m, err := cost.NewModel(p)
	if err != nil {
		return nil, err
	}
	r.models[p] = m
	return m, nil
}

func (r *REPL) cmdQubits(n int) error {
	m, err := r.model(r.config.Policy)
	if err != nil {
		return err
	}
	start := time.Now()
	q, err := m.QubitCount(n, r.config.Method)
	if err != nil {
		return err
	}
	r.presenter.PresentEstimate(Estimate{
		Quantity: "qubits", N: n, Policy: r.config.Policy.String(), Method: r.config.Method.String(),
		Value: float64(q), Duration: time.Since(start),
	}, r.out)
	return nil
}

func (r *REPL) cmdGates(n int) error {
	m, err := r.model(r.config.Policy)
	if err != nil {
		return err
	}
	start := time.Now()
	g, err := m.GateCount(n, r.config.Epsilon, r.config.Method)
	if err != nil {
		return err
	}
	r.presenter.PresentEstimate(Estimate{
		Quantity: "T gates", N: n, Policy: r.config.Policy.String(), Method: r.config.Method.String(),
		Epsilon: r.config.Epsilon, Value: g, Duration: time.Since(start),
	}, r.out)
	return nil
}

func (r *REPL) cmdResolve(n int) error {
	if n < cost.MinBitWidth {
		return apperrors.ValidationError{Field: "n", Message: "bit width must be at least " + strconv.Itoa(cost.MinBitWidth)}
	}
	padded, k, err := policy.Resolve(n, r.config.Policy)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "  %s: n=%d -> padded %s, k=%s\n",
		r.config.Policy, n, ui.Accent(strconv.Itoa(padded)), ui.Accent(strconv.Itoa(k)))
	return nil
}

func (r *REPL) cmdCompare(n int) error {
	qs, err := sweep.StandardQubitSet()
	if err != nil {
		return err
	}
	gs, err := sweep.StandardGateSet(r.config.Epsilon)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s\n", ui.Header(fmt.Sprintf("Comparison at n=%d (epsilon %g)", n, r.config.Epsilon)))
	fmt.Fprintln(r.out, ui.Muted(fmt.Sprintf("  %-10s %12s %20s", "series", "qubits", "T gates")))
	for i := range qs {
		q, err := qs[i].Evaluate(n)
		if err != nil {
			return err
		}
		g, err := gs[i].Evaluate(n)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "  %-10s %12s %20s\n", qs[i].Name(), FormatValue(q), FormatValue(g))
	}
	return nil
}

func (r *REPL) cmdProfile(n int) error {
	p, err := profiler.New(r.config.Selection)
	if err != nil {
		return err
	}
	if _, err := p.Estimate(n); err != nil {
		return err
	}
	r.presenter.PresentProfile(ProfileSummary{
		Selection: r.config.Selection,
		Range:     sweep.Range{From: n, To: n, Step: 1},
		Visits:    p.Registry().Visits(),
		Shapes:    p.Registry().Len(),
		Entries:   p.Top(r.config.Top),
	}, r.out)
	return nil
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "  Policy: %s  Method: %s  Epsilon: %g  Split: %s\n",
		ui.Accent(r.config.Policy.String()), ui.Accent(r.config.Method.String()),
		r.config.Epsilon, ui.Accent(r.config.Selection.String()))
}
