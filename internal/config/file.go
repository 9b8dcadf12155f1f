package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/qmulcost/internal/errors"
)

// FileConfig is the YAML form of the configuration. Absent keys stay nil
// and do not override anything.
type FileConfig struct {
	Mode    *string        `yaml:"mode"`
	N       *int           `yaml:"n"`
	Policy  *string        `yaml:"policy"`
	Method  *string        `yaml:"method"`
	Epsilon *float64       `yaml:"epsilon"`
	Sweep   *RangeConfig   `yaml:"sweep"`
	Profile *ProfileConfig `yaml:"profile"`
	Workers *int           `yaml:"workers"`
	Timeout *time.Duration `yaml:"timeout"`
	Quiet   *bool          `yaml:"quiet"`
	Verbose *bool          `yaml:"verbose"`
	NoColor *bool          `yaml:"no_color"`
	Metrics *bool          `yaml:"metrics"`
	TUI     *bool          `yaml:"tui"`
	Trace   *string        `yaml:"trace"`
	Addr    *string        `yaml:"addr"`
}

// RangeConfig is the sweep section of the YAML file.
type RangeConfig struct {
	From *int `yaml:"from"`
	To   *int `yaml:"to"`
	Step *int `yaml:"step"`
}

// ProfileConfig is the profile section of the YAML file.
type ProfileConfig struct {
	Split *string `yaml:"split"`
	Top   *int    `yaml:"top"`
}

// LoadFile reads and decodes a YAML configuration file. Unknown keys are
// rejected; an empty file yields an empty FileConfig.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, apperrors.NewConfigError("reading config file: %v", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, apperrors.NewConfigError("parsing config file %s: %v", path, err)
	}
	return fc, nil
}

func (fc FileConfig) apply(cfg *AppConfig, fs *flag.FlagSet) {
	setString(fs, "mode", fc.Mode, &cfg.Mode)
	setInt(fs, "n", fc.N, &cfg.N)
	setString(fs, "policy", fc.Policy, &cfg.Policy)
	setString(fs, "method", fc.Method, &cfg.Method)
	if fc.Epsilon != nil && !isFlagSet(fs, "epsilon") {
		cfg.Epsilon = *fc.Epsilon
	}
	if r := fc.Sweep; r != nil {
		setInt(fs, "from", r.From, &cfg.From)
		setInt(fs, "to", r.To, &cfg.To)
		setInt(fs, "step", r.Step, &cfg.Step)
	}
	if p := fc.Profile; p != nil {
		setString(fs, "split", p.Split, &cfg.Split)
		setInt(fs, "top", p.Top, &cfg.Top)
	}
	setInt(fs, "workers", fc.Workers, &cfg.Workers)
	if fc.Timeout != nil && !isFlagSet(fs, "timeout") {
		cfg.Timeout = *fc.Timeout
	}
	setBool(fs, fc.Quiet, &cfg.Quiet, "quiet", "q")
	setBool(fs, fc.Verbose, &cfg.Verbose, "verbose", "v")
	setBool(fs, fc.NoColor, &cfg.NoColor, "no-color")
	setBool(fs, fc.Metrics, &cfg.Metrics, "metrics")
	setBool(fs, fc.TUI, &cfg.TUI, "tui")
	setString(fs, "trace", fc.Trace, &cfg.TraceFile)
	setString(fs, "addr", fc.Addr, &cfg.Addr)
}

func setString(fs *flag.FlagSet, name string, v *string, dst *string) {
	if v != nil && !isFlagSet(fs, name) {
		*dst = *v
	}
}

func setInt(fs *flag.FlagSet, name string, v *int, dst *int) {
	if v != nil && !isFlagSet(fs, name) {
		*dst = *v
	}
}

func setBool(fs *flag.FlagSet, v *bool, dst *bool, names ...string) {
	if v != nil && !isFlagSetAny(fs, names...) {
		*dst = *v
	}
}
