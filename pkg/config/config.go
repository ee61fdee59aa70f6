// Package config loads service configuration from a YAML file with
// FLOWPLAN_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Solve  SolveConfig  `yaml:"solve"`
	Worker WorkerConfig `yaml:"worker"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSec int `yaml:"write_timeout_seconds"`
	ShutdownSec     int `yaml:"shutdown_timeout_seconds"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// SolveConfig configures the solve pipeline.
type SolveConfig struct {
	// Workers is the size of the solve pool; each worker owns its own
	// solver instance.
	Workers int `yaml:"workers"`
	// SlackTolerance classifies tight constraints.
	SlackTolerance float64 `yaml:"slack_tolerance"`
	// StatusTolerance is the solver's status-classification tolerance.
	// Kept separate from SlackTolerance: convergence and business-level
	// binding have different numerical meanings.
	StatusTolerance float64 `yaml:"status_tolerance"`
}

// WorkerConfig configures the optional process-level worker transport.
type WorkerConfig struct {
	// URL is a mangos listen/dial address, e.g. tcp://0.0.0.0:7070.
	URL string `yaml:"url"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeoutSec:  15,
			WriteTimeoutSec: 30,
			ShutdownSec:     10,
		},
		Log:   LogConfig{Level: "info"},
		Solve: SolveConfig{Workers: 4, SlackTolerance: 1e-6, StatusTolerance: 1e-7},
		Worker: WorkerConfig{
			URL: "tcp://127.0.0.1:7070",
		},
	}
}

// Load reads the config file at path (skipped when path is empty), applies
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FLOWPLAN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FLOWPLAN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FLOWPLAN_SOLVE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Solve.Workers = n
		}
	}
	if v := os.Getenv("FLOWPLAN_WORKER_URL"); v != "" {
		cfg.Worker.URL = v
	}
}

// Validate checks the configuration for sanity.
func (c *Config) Validate() error {
	return NewValidator("Config").
		IntRange("Server.Port", c.Server.Port, 1, 65535).
		MinInt("Server.ReadTimeoutSec", c.Server.ReadTimeoutSec, 1).
		MinInt("Server.WriteTimeoutSec", c.Server.WriteTimeoutSec, 1).
		MinInt("Solve.Workers", c.Solve.Workers, 1).
		PositiveFloat("Solve.SlackTolerance", c.Solve.SlackTolerance).
		PositiveFloat("Solve.StatusTolerance", c.Solve.StatusTolerance).
		Result()
}
