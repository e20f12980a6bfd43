// Package config loads the ordina CLI configuration: a YAML file with
// environment variable overrides and defaults applied last.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates a configuration value outside its domain.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Environment variables that override file values.
const (
	EnvLogLevel = "ORDINA_LOG_LEVEL"
	EnvScaling  = "ORDINA_SCALING"
	EnvWorkers  = "ORDINA_WORKERS"
)

// Defaults applied to zero-valued fields after loading.
const (
	DefaultLogLevel = "info"
	DefaultScaling  = 1
	DefaultWorkers  = 4
	DefaultFormat   = FormatYAML
)

// Output formats understood by the report writer.
const (
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Config is the overall CLI configuration.
type Config struct {
	LogLevel string          `yaml:"log_level"`
	Analysis AnalysisSection `yaml:"analysis"`
	Output   OutputSection   `yaml:"output"`
	Batch    BatchSection    `yaml:"batch"`
}

// AnalysisSection holds defaults for every ordination run.
type AnalysisSection struct {
	Scaling int `yaml:"scaling"`
}

// OutputSection selects the report format.
type OutputSection struct {
	Format string `yaml:"format"`
}

// BatchSection lists independent jobs and the worker bound for running them.
type BatchSection struct {
	Workers int   `yaml:"workers"`
	Jobs    []Job `yaml:"jobs"`
}

// Job is one ordination: two CSV inputs and an output target. Zero Scaling
// and empty Format inherit the analysis and output sections.
type Job struct {
	Name        string `yaml:"name"`
	Abundance   string `yaml:"abundance"`
	Constraints string `yaml:"constraints"`
	Scaling     int    `yaml:"scaling"`
	Format      string `yaml:"format"`
	Out         string `yaml:"out"`
}

// Load reads configPath (skipped when empty or absent), applies environment
// overrides, fills defaults and validates the result.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
			}
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvOverrides replaces file values with ORDINA_* variables when set.
func applyEnvOverrides(cfg *Config) error {
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}

	if scaling := os.Getenv(EnvScaling); scaling != "" {
		val, err := strconv.Atoi(scaling)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvScaling, scaling, ErrInvalidConfig)
		}
		cfg.Analysis.Scaling = val
	}

	if workers := os.Getenv(EnvWorkers); workers != "" {
		val, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvWorkers, workers, ErrInvalidConfig)
		}
		cfg.Batch.Workers = val
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Analysis.Scaling == 0 {
		c.Analysis.Scaling = DefaultScaling
	}
	if c.Output.Format == "" {
		c.Output.Format = DefaultFormat
	}
	c.Output.Format = strings.ToLower(c.Output.Format)
	if c.Batch.Workers == 0 {
		c.Batch.Workers = DefaultWorkers
	}
	for i := range c.Batch.Jobs {
		j := &c.Batch.Jobs[i]
		if j.Name == "" {
			j.Name = fmt.Sprintf("job-%d", i+1)
		}
		if j.Scaling == 0 {
			j.Scaling = c.Analysis.Scaling
		}
		if j.Format == "" {
			j.Format = c.Output.Format
		}
		j.Format = strings.ToLower(j.Format)
	}
}

// Validate checks every value against its domain.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level %q: %w", c.LogLevel, ErrInvalidConfig)
	}
	if err := ValidateScaling(c.Analysis.Scaling); err != nil {
		return fmt.Errorf("analysis.scaling: %w", err)
	}
	if err := ValidateFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers %d: %w", c.Batch.Workers, ErrInvalidConfig)
	}
	for _, j := range c.Batch.Jobs {
		if j.Abundance == "" || j.Constraints == "" {
			return fmt.Errorf("job %q needs abundance and constraints: %w", j.Name, ErrInvalidConfig)
		}
		if err := ValidateScaling(j.Scaling); err != nil {
			return fmt.Errorf("job %q: %w", j.Name, err)
		}
		if err := ValidateFormat(j.Format); err != nil {
			return fmt.Errorf("job %q: %w", j.Name, err)
		}
		if j.Format == FormatCSV && j.Out == "" {
			return fmt.Errorf("job %q: csv output needs a directory: %w", j.Name, ErrInvalidConfig)
		}
	}

	return nil
}

// ValidateScaling accepts 1 and 2.
func ValidateScaling(s int) error {
	if s != 1 && s != 2 {
		return fmt.Errorf("scaling %d: %w", s, ErrInvalidConfig)
	}

	return nil
}

// ValidateFormat accepts FormatYAML and FormatCSV.
func ValidateFormat(f string) error {
	if f != FormatYAML && f != FormatCSV {
		return fmt.Errorf("format %q: %w", f, ErrInvalidConfig)
	}

	return nil
}
