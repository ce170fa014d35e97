// Package config loads the settings of the gouncertain binaries from the
// environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	gouncertain "github.com/njchilds90/gouncertain"
)

// Config holds all binary configuration.
type Config struct {
	Server  ServerConfig
	Logging LogConfig
	Format  FormatConfig
}

// ServerConfig holds HTTP tool server configuration.
type ServerConfig struct {
	Port         string `envconfig:"UNCERTAIN_PORT" default:"8080"`
	Host         string `envconfig:"UNCERTAIN_HOST" default:"0.0.0.0"`
	MaxBodyBytes int64  `envconfig:"UNCERTAIN_MAX_BODY" default:"1048576"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"UNCERTAIN_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"UNCERTAIN_LOG_DEV" default:"false"`
}

// FormatConfig tunes parenthetical rendering.
type FormatConfig struct {
	NoErrorDigits int `envconfig:"UNCERTAIN_NO_ERROR_DIGITS" default:"6"`
	MaxPrecision  int `envconfig:"UNCERTAIN_MAX_PRECISION" default:"20"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Format.NoErrorDigits < 0 || cfg.Format.MaxPrecision < 0 {
		return nil, fmt.Errorf("failed to load config: format digits must not be negative")
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			Host:         "0.0.0.0",
			MaxBodyBytes: 1 << 20,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Format: FormatConfig{
			NoErrorDigits: gouncertain.DefaultFormatter.NoErrorDigits,
			MaxPrecision:  gouncertain.DefaultFormatter.MaxPrecision,
		},
	}
}

// Addr is the listen address of the tool server.
func (c *Config) Addr() string { return c.Server.Host + ":" + c.Server.Port }

// Formatter builds the formatter described by the Format section.
func (c *Config) Formatter() gouncertain.Formatter {
	return gouncertain.Formatter{
		NoErrorDigits: c.Format.NoErrorDigits,
		MaxPrecision:  c.Format.MaxPrecision,
	}
}
