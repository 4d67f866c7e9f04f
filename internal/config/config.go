// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Defaults applied by DefaultConfig.
const (
	DefaultPort         = 8080
	DefaultMaxTextBytes = 10 << 20
	DefaultWorkers      = 4
)

// Config represents configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	DatabaseURL   string `json:"database_url,omitempty"`   // PostgreSQL connection URL
	Port          int    `json:"port,omitempty"`           // HTTP listen port
	MaxTextBytes  int64  `json:"max_text_bytes,omitempty"` // Largest recognized text accepted per document
	Workers       int    `json:"workers,omitempty"`        // Concurrent files for batch runs
	DefaultPolicy string `json:"default_policy,omitempty"` // Path to a course policy JSON file
	CORSOrigin    string `json:"cors_origin,omitempty"`    // Allowed CORS origin, "*" when empty

	LogJSON bool `json:"log_json,omitempty"`
	Debug   bool `json:"debug,omitempty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Port:         DefaultPort,
		MaxTextBytes: DefaultMaxTextBytes,
		Workers:      DefaultWorkers,
		CORSOrigin:   "*",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from DATABASE_URL, PORT and MAX_TEXT_BYTES when they are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("MAX_TEXT_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config error: invalid MAX_TEXT_BYTES %q: %w", v, err)
		}
		c.MaxTextBytes = n
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxTextBytes < 0 {
		return fmt.Errorf("config error: 'max_text_bytes' must be non-negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}

	if c.DefaultPolicy != "" {
		if _, err := os.Stat(c.DefaultPolicy); os.IsNotExist(err) {
			return fmt.Errorf("config error: policy file not found: %s", c.DefaultPolicy)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.DefaultPolicy == "" {
		result.DefaultPolicy = defaults.DefaultPolicy
	}
	if result.CORSOrigin == "" {
		result.CORSOrigin = defaults.CORSOrigin
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxTextBytes == 0 {
		result.MaxTextBytes = defaults.MaxTextBytes
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
