package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "MSD_BACKEND", "MSD_SIMULATOR_PATH", "MSD_REMOTE_URL", "MSD_REMOTE_API_KEY", "MSD_SEED", "MSD_PARALLEL", "MSD_LOG_LEVEL", "MSD_DEFAULT_SHOTS", "MSD_REQUEST_TIMEOUT", "MSD_OTEL_ENABLED", "MSD_OTEL_ENDPOINT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Backend != BackendLocal {
		t.Fatalf("expected local backend, got %q", cfg.Backend)
	}
	if !cfg.Parallel {
		t.Fatal("expected parallel by default")
	}
	if cfg.DefaultShots != 10000 {
		t.Fatalf("expected 10000 default shots, got %d", cfg.DefaultShots)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Fatalf("expected 60s timeout, got %v", cfg.RequestTimeout)
	}
	if !cfg.OTelEnabled || cfg.OTelEndpoint != "" {
		t.Fatalf("expected tracing enabled with no endpoint, got %v %q", cfg.OTelEnabled, cfg.OTelEndpoint)
	}
}

func TestLoadRemoteAndTracing(t *testing.T) {
	t.Setenv("MSD_BACKEND", "remote")
	t.Setenv("MSD_REMOTE_URL", "http://worker:8080")
	t.Setenv("MSD_REMOTE_API_KEY", "secret")
	t.Setenv("MSD_OTEL_ENABLED", "false")
	t.Setenv("MSD_OTEL_ENDPOINT", "http://collector:4318")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendRemote || cfg.RemoteURL != "http://worker:8080" || cfg.RemoteAPIKey != "secret" {
		t.Fatalf("unexpected remote config %+v", cfg)
	}
	if cfg.OTelEnabled || cfg.OTelEndpoint != "http://collector:4318" {
		t.Fatalf("unexpected tracing config %v %q", cfg.OTelEnabled, cfg.OTelEndpoint)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("MSD_BACKEND", "process")
	t.Setenv("MSD_SIMULATOR_PATH", "/usr/local/bin/msd-simulate")
	t.Setenv("MSD_SEED", "42")
	t.Setenv("MSD_PARALLEL", "false")
	t.Setenv("MSD_DEFAULT_SHOTS", "2000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "3000" || cfg.Backend != BackendProcess || cfg.Seed != 42 || cfg.Parallel || cfg.DefaultShots != 2000 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("MSD_SEED", "not-an-int")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{Backend: BackendLocal, DefaultShots: 1000, RequestTimeout: time.Second}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Valid", func(*Config) {}, false},
		{"Unknown backend", func(c *Config) { c.Backend = "grpc" }, true},
		{"Process backend without path", func(c *Config) { c.Backend = BackendProcess; c.SimulatorPath = "" }, true},
		{"Remote backend without URL", func(c *Config) { c.Backend = BackendRemote }, true},
		{"Remote backend", func(c *Config) { c.Backend = BackendRemote; c.RemoteURL = "http://worker:8080" }, false},
		{"Default shots too small", func(c *Config) { c.DefaultShots = 10 }, true},
		{"Zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
