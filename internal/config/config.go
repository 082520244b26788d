// Package config provides environment-driven configuration for the
// diagnosis API. All variables carry the MEDAPI_ prefix.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	// Port is the listen address of the HTTP server.
	Port string `envconfig:"PORT" default:":8000" validate:"required"`

	// DatabasePath is the SQLite database file.
	DatabasePath string `envconfig:"DB_PATH" default:"medapi.db" validate:"required"`

	// LogLevel controls application log verbosity.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// KnowledgeFile is the default YAML knowledge file used by the
	// load command.
	KnowledgeFile string `envconfig:"KNOWLEDGE_FILE" default:"knowledge.yaml" validate:"required"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("medapi", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
