// Package config loads the sweep configuration from YAML.
//
// Defaults carry the observed deployment constants; a config file overrides
// them and unknown keys are rejected so a typo cannot silently fall back to
// a default.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"evalsweep/internal/evaluator"
	"evalsweep/internal/sweep"
)

// Config is the full description of a sweep run.
type Config struct {
	Sweep     SweepConfig     `yaml:"sweep"`
	Evaluator EvaluatorConfig `yaml:"evaluator"`

	// ReportDir is the directory the run report tree is rooted at.
	ReportDir string `yaml:"report_dir"`
}

// SweepConfig mirrors sweep.Plan in YAML form.
type SweepConfig struct {
	StartBase  int `yaml:"start_base"`
	Stride     int `yaml:"stride"`
	Iterations int `yaml:"iterations"`
	Parallel   int `yaml:"parallel"`
}

// EvaluatorConfig describes how to launch the external evaluator.
//
// The invocation parameters are inlined so the YAML surface matches the
// evaluator's own argument names one-to-one.
type EvaluatorConfig struct {
	// Program is the command vector, e.g. ["python", "eval_comde.py"].
	Program []string `yaml:"program"`

	// WorkingDir is the directory the evaluator runs in (optional).
	WorkingDir string `yaml:"working_dir,omitempty"`

	Invocation evaluator.Invocation `yaml:",inline"`

	// ExtraEnv is appended to the inherited environment of every launch.
	ExtraEnv map[string]string `yaml:"extra_env,omitempty"`
}

// Default returns the configuration of the observed deployment: steps
// 50000..195000 by 5000, ten batches of three.
func Default() Config {
	return Config{
		Sweep: SweepConfig{
			StartBase:  50000,
			Stride:     5000,
			Iterations: 10,
			Parallel:   3,
		},
		Evaluator: EvaluatorConfig{
			Program: []string{"python", "eval_comde.py"},
		},
		ReportDir: ".",
	}
}

// Load reads and strictly decodes the YAML file at path over Default().
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		// An empty file is a valid config: it selects the defaults.
		return Config{}, fmt.Errorf("decoding config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the sweep arithmetic and the launch surface. The
// invocation parameters themselves are opaque and never validated here.
func (c Config) Validate() error {
	if err := c.Plan().Validate(); err != nil {
		return fmt.Errorf("invalid sweep: %w", err)
	}
	if len(c.Evaluator.Program) == 0 {
		return fmt.Errorf("evaluator program is required")
	}
	if c.ReportDir == "" {
		return fmt.Errorf("report_dir is required")
	}
	return nil
}

// Plan converts the sweep section into the dispatcher's plan type.
func (c Config) Plan() sweep.Plan {
	return sweep.Plan{
		StartBase:  c.Sweep.StartBase,
		Stride:     c.Sweep.Stride,
		Iterations: c.Sweep.Iterations,
		Parallel:   c.Sweep.Parallel,
	}
}
