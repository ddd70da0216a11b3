package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mcerror "github.com/msto63/mcpi/foundation/core/error"
)

// Config holds the complete application configuration
type Config struct {
	General    GeneralConfig    `toml:"general" yaml:"general"`
	Experiment ExperimentConfig `toml:"experiment" yaml:"experiment"`
	Visualizer VisualizerConfig `toml:"visualizer" yaml:"visualizer"`
	Metrics    MetricsConfig    `toml:"metrics" yaml:"metrics"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// ExperimentConfig holds the benchmark matrix and trial settings
type ExperimentConfig struct {
	PointCounts    []int64 `toml:"point_counts" yaml:"point_counts"`
	ThreadCounts   []int   `toml:"thread_counts" yaml:"thread_counts"`
	TasksPerThread int     `toml:"tasks_per_thread" yaml:"tasks_per_thread"`
	Trials         int     `toml:"trials" yaml:"trials"`
	TrialPoints    int64   `toml:"trial_points" yaml:"trial_points"`
	TrialThreads   int     `toml:"trial_threads" yaml:"trial_threads"`
	Seed           uint64  `toml:"seed" yaml:"seed"`
}

// VisualizerConfig holds terminal visualizer settings
type VisualizerConfig struct {
	Points  int64    `toml:"points" yaml:"points"`
	Threads int      `toml:"threads" yaml:"threads"`
	Mode    string   `toml:"mode" yaml:"mode"`
	Pace    Duration `toml:"pace" yaml:"pace"`
}

// MetricsConfig holds Prometheus exporter settings
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Address string `toml:"address" yaml:"address"`
}

// Visualizer limits
const (
	MinVisualPoints  = 100
	MaxVisualPoints  = 1_000_000
	MaxVisualThreads = 16
)

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns the reference configuration
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, mcerror.Newf("config file not found: %s", path).
			WithCode(mcerror.CodeMissingConfig).
			WithDetail("path", path)
	}
	if err != nil {
		return nil, mcerror.Wrap(err, "failed to read config").
			WithCode(mcerror.CodeConfigError).
			WithDetail("path", path)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		_, err = toml.Decode(string(data), &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return nil, mcerror.Newf("unsupported config format: %q", ext).
			WithCode(mcerror.CodeConfigError).
			WithDetail("path", path)
	}
	if err != nil {
		return nil, mcerror.Wrap(err, "failed to parse config").
			WithCode(mcerror.CodeConfigError).
			WithDetail("path", path)
	}

	// Apply defaults
	cfg.applyDefaults()

	// Expand environment variables
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from the MCPI_CONFIG environment variable,
// falling back to the default locations and then to Default()
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("MCPI_CONFIG")
	if path == "" {
		// Try default locations
		defaultPaths := []string{
			"./configs/mcpi.toml",
			"./mcpi.toml",
			filepath.Join(os.Getenv("HOME"), ".config/mcpi/mcpi.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}

	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "mcpi"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Experiment
	if c.Experiment.PointCounts == nil {
		c.Experiment.PointCounts = []int64{100_000, 1_000_000, 10_000_000}
	}
	if c.Experiment.ThreadCounts == nil {
		c.Experiment.ThreadCounts = []int{2, 4, 8}
	}
	if c.Experiment.TasksPerThread == 0 {
		c.Experiment.TasksPerThread = 2
	}
	if c.Experiment.Trials == 0 {
		c.Experiment.Trials = 4
	}
	if c.Experiment.TrialPoints == 0 {
		c.Experiment.TrialPoints = 1_000_000
	}
	if c.Experiment.TrialThreads == 0 {
		c.Experiment.TrialThreads = 4
	}

	// Visualizer
	if c.Visualizer.Points == 0 {
		c.Visualizer.Points = 10_000
	}
	if c.Visualizer.Threads == 0 {
		c.Visualizer.Threads = 4
	}
	if c.Visualizer.Mode == "" {
		c.Visualizer.Mode = "sequential"
	}
	if c.Visualizer.Pace.Duration == 0 {
		c.Visualizer.Pace.Duration = time.Millisecond
	}

	// Metrics
	if c.Metrics.Address == "" {
		c.Metrics.Address = "127.0.0.1:9464"
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.General.Name = os.ExpandEnv(c.General.Name)
	c.Metrics.Address = os.ExpandEnv(c.Metrics.Address)
}

// Validate checks value ranges. Errors carry CodeInvalidConfig.
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}, msg string) error {
		return mcerror.Newf("%s %s", field, msg).
			WithCode(mcerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("field", field).
			WithDetail("value", value)
	}

	for _, n := range c.Experiment.PointCounts {
		if n <= 0 {
			return invalid("experiment.point_counts", n, "must be > 0")
		}
	}
	for _, t := range c.Experiment.ThreadCounts {
		if t <= 0 {
			return invalid("experiment.thread_counts", t, "must be > 0")
		}
	}
	if c.Experiment.TasksPerThread < 1 {
		return invalid("experiment.tasks_per_thread", c.Experiment.TasksPerThread, "must be >= 1")
	}
	if c.Experiment.Trials < 1 {
		return invalid("experiment.trials", c.Experiment.Trials, "must be >= 1")
	}
	if c.Experiment.TrialPoints <= 0 {
		return invalid("experiment.trial_points", c.Experiment.TrialPoints, "must be > 0")
	}
	if c.Experiment.TrialThreads < 1 {
		return invalid("experiment.trial_threads", c.Experiment.TrialThreads, "must be >= 1")
	}

	if c.Visualizer.Points < MinVisualPoints || c.Visualizer.Points > MaxVisualPoints {
		return invalid("visualizer.points", c.Visualizer.Points,
			fmt.Sprintf("must be in [%d, %d]", MinVisualPoints, MaxVisualPoints))
	}
	if c.Visualizer.Threads < 1 || c.Visualizer.Threads > MaxVisualThreads {
		return invalid("visualizer.threads", c.Visualizer.Threads,
			fmt.Sprintf("must be in [1, %d]", MaxVisualThreads))
	}
	switch c.Visualizer.Mode {
	case "sequential", "parallel":
	default:
		return invalid("visualizer.mode", c.Visualizer.Mode, "must be sequential or parallel")
	}
	if c.Visualizer.Pace.Duration < 0 {
		return invalid("visualizer.pace", c.Visualizer.Pace.String(), "must not be negative")
	}

	return nil
}
