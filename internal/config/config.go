// Package config handles configuration loading from YAML files and environment
// variables. Configuration precedence: environment variables > config file >
// defaults. The configuration is validated once at load time and treated as
// immutable for the lifetime of the run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "15s", "30s", "1m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all monitor configuration.
type Config struct {
	General    GeneralConfig    `yaml:"general"`
	Display    DisplayConfig    `yaml:"display"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GeneralConfig holds sampling cadence and alert logging settings.
type GeneralConfig struct {
	RefreshInterval Duration `yaml:"refresh_interval"`
	LogAlerts       bool     `yaml:"log_alerts"`
	LogFile         string   `yaml:"log_file"`
}

// DisplayConfig holds dashboard rendering settings.
type DisplayConfig struct {
	UseColors             bool `yaml:"use_colors"`
	ShowProgressBars      bool `yaml:"show_progress_bars"`
	ShowPerCoreCPU        bool `yaml:"show_per_core_cpu"`
	MaxProcessesToDisplay int  `yaml:"max_processes_to_display"`
}

// ThresholdPair holds warning/critical percentage bounds for one metric kind.
type ThresholdPair struct {
	Warning  float64 `yaml:"warning"`
	Critical float64 `yaml:"critical"`
}

// ThresholdsConfig holds the per-kind alerting thresholds.
type ThresholdsConfig struct {
	CPU    ThresholdPair `yaml:"cpu"`
	Memory ThresholdPair `yaml:"memory"`
	Disk   ThresholdPair `yaml:"disk"`
	Swap   ThresholdPair `yaml:"swap"`
}

// LoggingConfig holds diagnostic logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			RefreshInterval: Duration{30 * time.Second},
			LogAlerts:       true,
			LogFile:         "sysmon_alerts.log",
		},
		Display: DisplayConfig{
			UseColors:             true,
			ShowProgressBars:      true,
			ShowPerCoreCPU:        true,
			MaxProcessesToDisplay: 10,
		},
		Thresholds: ThresholdsConfig{
			CPU:    ThresholdPair{Warning: 70, Critical: 90},
			Memory: ThresholdPair{Warning: 70, Critical: 90},
			Disk:   ThresholdPair{Warning: 70, Critical: 90},
			Swap:   ThresholdPair{Warning: 70, Critical: 90},
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// Load reads configuration from a YAML file, merges with defaults, applies
// environment overrides, and validates the result. If the file does not
// exist, defaults plus environment overrides are used. A file that exists
// but cannot be read or parsed is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteConfig serializes the config to a YAML file at the given path.
// Creates parent directories if needed.
func WriteConfig(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0640)
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables have the highest precedence.
func applyEnvOverrides(cfg *Config) {
	if level := os.Getenv("SYSMON_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if interval := os.Getenv("SYSMON_REFRESH_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil {
			cfg.General.RefreshInterval = Duration{parsed}
		}
	}
}

// Validate checks that the configuration is usable. Threshold ordering is
// enforced here, once, so the evaluator never sees an invalid pair.
func (c *Config) Validate() error {
	if c.General.RefreshInterval.Duration <= 0 {
		return fmt.Errorf("general.refresh_interval must be positive (got %s)", c.General.RefreshInterval.Duration)
	}
	if c.Display.MaxProcessesToDisplay < 0 {
		return fmt.Errorf("display.max_processes_to_display must be >= 0 (got %d)", c.Display.MaxProcessesToDisplay)
	}
	pairs := []struct {
		name string
		pair ThresholdPair
	}{
		{"thresholds.cpu", c.Thresholds.CPU},
		{"thresholds.memory", c.Thresholds.Memory},
		{"thresholds.disk", c.Thresholds.Disk},
		{"thresholds.swap", c.Thresholds.Swap},
	}
	for _, p := range pairs {
		if err := validatePair(p.name, p.pair); err != nil {
			return err
		}
	}
	return nil
}

// validatePair enforces 0 <= warning <= critical <= 100.
func validatePair(name string, p ThresholdPair) error {
	if p.Warning < 0 {
		return fmt.Errorf("%s.warning must be >= 0 (got %g)", name, p.Warning)
	}
	if p.Critical > 100 {
		return fmt.Errorf("%s.critical must be <= 100 (got %g)", name, p.Critical)
	}
	if p.Warning > p.Critical {
		return fmt.Errorf("%s: warning (%g) must not exceed critical (%g)", name, p.Warning, p.Critical)
	}
	return nil
}
