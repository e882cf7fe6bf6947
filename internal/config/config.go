// Package config holds the halalcheck tool configuration: default dataset
// and rules paths plus runtime knobs. Config lives in a YAML file and can be
// overridden per-field through environment variables; command-line flags
// override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default locations, relative to the working directory.
const (
	DefaultInput  = "data/materials_df.csv"
	DefaultOutput = "data/materials_df_labeled.csv"
	DefaultRules  = "config/halal_rules.json"
)

// Config holds all halalcheck configuration.
type Config struct {
	// Input is the input dataset CSV path.
	Input string `yaml:"input"`
	// Output is the labeled dataset CSV path.
	Output string `yaml:"output"`
	// Rules is the rules JSON (with comments) path.
	Rules string `yaml:"rules"`
	// Workers bounds the classification worker pool.
	Workers int `yaml:"workers"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures run logging.
type LoggingConfig struct {
	// Verbose enables debug-level logging.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Input:   DefaultInput,
		Output:  DefaultOutput,
		Rules:   DefaultRules,
		Workers: 1,
	}
}

// Load reads a YAML config file, applies env overrides, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets the environment override file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("HALALCHECK_INPUT"); v != "" {
		c.Input = v
	}
	if v := os.Getenv("HALALCHECK_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("HALALCHECK_RULES"); v != "" {
		c.Rules = v
	}
	if v := os.Getenv("HALALCHECK_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
}

// Validate checks the config for values the run cannot proceed with.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("config: input path must not be empty")
	}
	if c.Output == "" {
		return fmt.Errorf("config: output path must not be empty")
	}
	if c.Rules == "" {
		return fmt.Errorf("config: rules path must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	return nil
}
