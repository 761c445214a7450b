package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for a config file when --config is unset.
const DefaultPath = ".digitsort/config.yaml"

// Config holds all digitsort configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
	Limits  LimitsConfig  `yaml:"limits"`
	Batch   BatchConfig   `yaml:"batch"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	Trace           bool   `yaml:"trace"` // allow clients to request pass traces
}

// LimitsConfig bounds input sizes accepted by the CLI and the API.
type LimitsConfig struct {
	MaxValues      int `yaml:"max_values"`       // elements per sequence
	MaxBatchInputs int `yaml:"max_batch_inputs"` // sequences per batch
}

// BatchConfig configures concurrent batch sorting.
type BatchConfig struct {
	Workers  int  `yaml:"workers"` // 0 = runtime.NumCPU()
	FailFast bool `yaml:"fail_fast"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "digitsort",
		Version: "0.3.0",

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},

		Server: ServerConfig{
			Addr:            "127.0.0.1:8085",
			ReadTimeout:     "10s",
			ShutdownTimeout: "5s",
			Trace:           true,
		},

		Limits: LimitsConfig{
			MaxValues:      1_000_000,
			MaxBatchInputs: 10_000,
		},

		Batch: BatchConfig{
			Workers:  0,
			FailFast: false,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Malformed numeric values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DIGITSORT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DIGITSORT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DIGITSORT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Batch.Workers = n
		}
	}
	if v := os.Getenv("DIGITSORT_MAX_VALUES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Limits.MaxValues = n
		}
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format: %q", c.Logging.Format)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, err := time.ParseDuration(c.Server.ReadTimeout); err != nil {
		return fmt.Errorf("invalid server.read_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid server.shutdown_timeout: %w", err)
	}
	if c.Limits.MaxValues < 1 {
		return fmt.Errorf("limits.max_values must be >= 1")
	}
	if c.Limits.MaxBatchInputs < 1 {
		return fmt.Errorf("limits.max_batch_inputs must be >= 1")
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must be >= 0")
	}
	return nil
}

// GetReadTimeout returns the server read timeout as a duration.
func (c *Config) GetReadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ReadTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetShutdownTimeout returns the graceful shutdown timeout as a duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// EffectiveWorkers resolves the batch worker count.
func (c *Config) EffectiveWorkers() int {
	if c.Batch.Workers > 0 {
		return c.Batch.Workers
	}
	return runtime.NumCPU()
}
