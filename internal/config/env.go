package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnvString returns EnvPrefix+key, or defaultVal when unset.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// isFlagSet reports whether a flag was given explicitly on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny reports whether any of the aliased flags was given.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride maps one environment key (without prefix) to the flags it
// stands for and the setter applied when none of them was given.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// Malformed numeric values are ignored and leave the previous value.
var envOverrides = []envOverride{
	{"MODE", []string{"mode"}, func(c *AppConfig, v string) { c.Mode = strings.ToLower(v) }},
	{"POLICY", []string{"policy"}, func(c *AppConfig, v string) { c.Policy = v }},
	{"METHOD", []string{"method"}, func(c *AppConfig, v string) { c.Method = v }},
	{"SPLIT", []string{"split"}, func(c *AppConfig, v string) { c.Split = v }},

	{"N", []string{"n"}, intSetter(func(c *AppConfig) *int { return &c.N })},
	{"FROM", []string{"from"}, intSetter(func(c *AppConfig) *int { return &c.From })},
	{"TO", []string{"to"}, intSetter(func(c *AppConfig) *int { return &c.To })},
	{"STEP", []string{"step"}, intSetter(func(c *AppConfig) *int { return &c.Step })},
	{"TOP", []string{"top"}, intSetter(func(c *AppConfig) *int { return &c.Top })},
	{"WORKERS", []string{"workers"}, intSetter(func(c *AppConfig) *int { return &c.Workers })},
	{"EPSILON", []string{"epsilon"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Epsilon = parsed
		}
	}},

	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) { c.Quiet = parseBoolEnv(v, c.Quiet) }},
	{"VERBOSE", []string{"verbose", "v"}, func(c *AppConfig, v string) { c.Verbose = parseBoolEnv(v, c.Verbose) }},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) { c.NoColor = parseBoolEnv(v, c.NoColor) }},
	{"METRICS", []string{"metrics"}, func(c *AppConfig, v string) { c.Metrics = parseBoolEnv(v, c.Metrics) }},
	{"TUI", []string{"tui"}, func(c *AppConfig, v string) { c.TUI = parseBoolEnv(v, c.TUI) }},
	{"TRACE", []string{"trace"}, func(c *AppConfig, v string) { c.TraceFile = v }},
	{"ADDR", []string{"addr"}, func(c *AppConfig, v string) { c.Addr = v }},
}

func intSetter(field func(*AppConfig) *int) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			*field(c) = parsed
		}
	}
}

// parseBoolEnv accepts true/1/yes and false/0/no, case-insensitively.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies QMULCOST_* variables to every setting whose
// flag was not given on the command line.
func applyEnvOverrides(cfg *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(cfg, val)
		}
	}
}
