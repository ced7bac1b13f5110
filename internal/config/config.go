// Package config holds Tasker's user configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds Tasker configuration.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `yaml:"db_path"`
	// APIKey is the Gemini API key. The GEMINI_API_KEY environment variable
	// takes precedence so the key never has to live on disk.
	APIKey string `yaml:"api_key,omitempty"`
	// Model is the Gemini model used for task breakdowns.
	Model string `yaml:"model"`
	// RequestTimeoutSec bounds each breakdown request.
	RequestTimeoutSec int `yaml:"request_timeout_sec"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DBPath:            filepath.Join(home, ".tasker", "tasker.db"),
		Model:             "gemini-3-flash-preview",
		RequestTimeoutSec: 30,
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadFromHome loads configuration from ~/.tasker/config.yaml.
func LoadFromHome() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfig(), nil
	}
	return Load(filepath.Join(home, ".tasker", "config.yaml"))
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.RequestTimeoutSec < 1 {
		return fmt.Errorf("request_timeout_sec must be at least 1")
	}
	return nil
}

// ResolveAPIKey returns the Gemini API key, preferring the environment.
func (c *Config) ResolveAPIKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return c.APIKey
}

// RequestTimeout returns the breakdown request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}
