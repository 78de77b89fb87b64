// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend kinds accepted by MSD_BACKEND
const (
	BackendLocal   = "local"
	BackendProcess = "process"
	BackendRemote  = "remote"
)

// Config holds the settings shared by the API server and the simulator command
type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	Backend        string        `env:"MSD_BACKEND" envDefault:"local"`
	SimulatorPath  string        `env:"MSD_SIMULATOR_PATH" envDefault:"msd-simulate"`
	RemoteURL      string        `env:"MSD_REMOTE_URL"`
	RemoteAPIKey   string        `env:"MSD_REMOTE_API_KEY"`
	Seed           int64         `env:"MSD_SEED" envDefault:"0"`
	Parallel       bool          `env:"MSD_PARALLEL" envDefault:"true"`
	LogLevel       string        `env:"MSD_LOG_LEVEL" envDefault:"info"`
	DefaultShots   int           `env:"MSD_DEFAULT_SHOTS" envDefault:"10000"`
	RequestTimeout time.Duration `env:"MSD_REQUEST_TIMEOUT" envDefault:"60s"`
	OTelEnabled    bool          `env:"MSD_OTEL_ENABLED" envDefault:"true"`
	OTelEndpoint   string        `env:"MSD_OTEL_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config from the environment and checks its values
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLocal, BackendProcess, BackendRemote:
	default:
		return fmt.Errorf("MSD_BACKEND must be one of %q, %q, %q, got %q", BackendLocal, BackendProcess, BackendRemote, c.Backend)
	}
	if c.Backend == BackendProcess && c.SimulatorPath == "" {
		return fmt.Errorf("MSD_SIMULATOR_PATH is required for the process backend")
	}
	if c.Backend == BackendRemote && c.RemoteURL == "" {
		return fmt.Errorf("MSD_REMOTE_URL is required for the remote backend")
	}
	if c.DefaultShots < 100 || c.DefaultShots > 100000 {
		return fmt.Errorf("MSD_DEFAULT_SHOTS must be between 100 and 100000, got %d", c.DefaultShots)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("MSD_REQUEST_TIMEOUT must be positive, got %v", c.RequestTimeout)
	}
	return nil
}
