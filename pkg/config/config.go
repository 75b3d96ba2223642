// Package config loads the cpufreq YAML configuration.
//
// The file is named by the --config flag or, failing that, the
// CPUFREQ_CONFIG environment variable. Without either the defaults apply.
// There is no search path and no per-key environment override.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ja7ad/cpufreq/pkg/cpufreq"
	"github.com/ja7ad/cpufreq/pkg/system/sysfs"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "CPUFREQ_CONFIG"

// Config is the on-disk configuration.
type Config struct {
	// BaseDir is the cpu sysfs directory.
	// Default: /sys/devices/system/cpu
	BaseDir string `yaml:"base_dir"`

	// ResetGovernor is applied by reset. Empty lets the manager pick
	// ondemand, schedutil or powersave, whichever the driver offers first.
	ResetGovernor string `yaml:"reset_governor"`

	// RequireAvailableFrequency rejects set-frequency values not listed in
	// scaling_available_frequencies.
	RequireAvailableFrequency bool `yaml:"require_available_frequency"`

	// LogLevel is one of debug, info, warn, error.
	// Default: info
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseDir:  sysfs.DefaultBase,
		LogLevel: "info",
	}
}

// Load reads the file named by path, or by CPUFREQ_CONFIG when path is
// empty. With neither set it returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates a YAML config file. Keys it does not know
// are an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return errors.New("base_dir must not be empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level converts LogLevel to a slog.Level.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
}

// Manager returns the cpufreq.Config equivalent of c.
func (c *Config) Manager(logger *slog.Logger) *cpufreq.Config {
	return &cpufreq.Config{
		BaseDir:                   c.BaseDir,
		ResetGovernor:             c.ResetGovernor,
		RequireAvailableFrequency: c.RequireAvailableFrequency,
		Logger:                    logger,
	}
}
