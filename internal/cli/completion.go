package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/qmulcost/internal/config"
	"github.com/agbru/qmulcost/internal/policy"
)

// FlagCompletion describes one CLI flag for completion scripts. Every
// generator reads flagRegistry, so a new flag only needs an entry there.
type FlagCompletion struct {
	Long      string   // long flag name without dashes
	Short     string   // short alias without dash, if any
	Help      string   // description text
	Values    []string // suggested values; nil for booleans or free values
	ValueName string   // value label for zsh; empty for booleans
	IsFile    bool     // completes file paths
}

// Shells lists the shells GenerateCompletion supports.
var Shells = []string{"bash", "zsh", "fish"}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Help: "Show version information"},
	{Long: "mode", Help: "Run mode", Values: config.Modes, ValueName: "mode"},
	{Long: "n", Help: "Operand bit width", ValueName: "bits"},
	{Long: "policy", Help: "Splitting policy", Values: policy.Names(), ValueName: "policy"},
	{Long: "method", Help: "Costing method", Values: []string{"toom-cook", "trivial"}, ValueName: "method"},
	{Long: "epsilon", Help: "Rotation synthesis tolerance", Values: []string{"1e-3", "1e-6", "1e-9"}, ValueName: "epsilon"},
	{Long: "from", Help: "First size of the range", ValueName: "bits"},
	{Long: "to", Help: "Last size of the range", ValueName: "bits"},
	{Long: "step", Help: "Stride of the range", ValueName: "bits"},
	{Long: "split", Help: "Profiler split factor", Values: []string{"adaptive", "2", "3"}, ValueName: "split"},
	{Long: "top", Help: "Node shapes in the profile report", ValueName: "count"},
	{Long: "workers", Help: "Concurrent sweep series", ValueName: "count"},
	{Long: "timeout", Help: "Maximum run time", Values: []string{"30s", "1m", "5m", "30m"}, ValueName: "duration"},
	{Long: "addr", Help: "Listen address of serve mode", Values: []string{":8080", "127.0.0.1:8080"}, ValueName: "address"},
	{Long: "quiet", Short: "q", Help: "Print bare values"},
	{Long: "verbose", Short: "v", Help: "Enable debug logging"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "metrics", Help: "Print Prometheus metrics after the run"},
	{Long: "tui", Help: "Show the sweep dashboard"},
	{Long: "trace", Help: "OpenTelemetry span output file", IsFile: true, ValueName: "file"},
	{Long: "config", Help: "YAML configuration file", IsFile: true, ValueName: "file"},
	{Long: "completion", Help: "Print a completion script", Values: Shells, ValueName: "shell"},
}

// GenerateCompletion writes the completion script for shell.
func GenerateCompletion(out io.Writer, shell, programName string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(programName)
	case "zsh":
		script = zshCompletion(programName)
	case "fish":
		script = fishCompletion(programName)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(Shells, ", "))
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func bashCompletion(prog string) string {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		opts = append(opts, "-"+f.Long)
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
		switch {
		case f.IsFile:
			fmt.Fprintf(&cases, "        -%s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n", f.Long)
		case len(f.Values) > 0:
			fmt.Fprintf(&cases, "        -%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				f.Long, strings.Join(f.Values, " "))
		}
	}
	fn := "_" + identifier(prog) + "_completions"
	return fmt.Sprintf(`# Bash completion script for %[1]s
# Add this to your ~/.bashrc or ~/.bash_completion

%[2]s() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%[3]s"

    case "${prev}" in
%[4]s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F %[2]s %[1]s
`, prog, fn, strings.Join(opts, " "), cases.String())
}

func zshCompletion(prog string) string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		suffix := ""
		switch {
		case f.IsFile:
			suffix = ":" + f.ValueName + ":_files"
		case len(f.Values) > 0:
			suffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
		case f.ValueName != "":
			suffix = ":" + f.ValueName + ":"
		}
		if f.Short != "" {
			args = append(args, fmt.Sprintf("        '(-%s -%s)'{-%s,-%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, f.Help, suffix))
			continue
		}
		args = append(args, fmt.Sprintf("        '-%s[%s]%s'", f.Long, f.Help, suffix))
	}
	fn := "_" + identifier(prog)
	return fmt.Sprintf(`#compdef %[1]s

# Zsh completion script for %[1]s
# Place this file in a directory listed in $fpath

%[2]s() {
    _arguments -s \
%[3]s
}

%[2]s "$@"
`, prog, fn, strings.Join(args, " \\\n"))
}

func fishCompletion(prog string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Fish completion script for %s\n", prog)
	fmt.Fprintf(&b, "# Add this to ~/.config/fish/completions/%s.fish\n\n", prog)
	fmt.Fprintf(&b, "complete -c %s -f\n", prog)
	for _, f := range flagRegistry {
		// Go's flag package accepts single-dash long names, which fish
		// models with -o.
		line := fmt.Sprintf("complete -c %s -o %s", prog, f.Long)
		if f.Short != "" {
			line += " -s " + f.Short
		}
		switch {
		case f.IsFile:
			line += " -r -F"
		case len(f.Values) > 0:
			line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
		case f.ValueName != "":
			line += " -x"
		}
		line += fmt.Sprintf(" -d '%s'", f.Help)
		b.WriteString(line + "\n")
	}
	return b.String()
}

// identifier turns a program name into a shell function name fragment.
func identifier(prog string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			return r
		}
		return '_'
	}, prog)
}
