package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Port != 8000 {
		t.Errorf("Default port = %d, want 8000", cfg.Port)
	}
	if cfg.MaxWorkers != 3 {
		t.Errorf("Default max_workers = %d, want 3", cfg.MaxWorkers)
	}
	if !cfg.MockMode {
		t.Error("Default mock_mode should be true")
	}
	if cfg.Retry.Attempts != 3 {
		t.Errorf("Default retry.attempts = %d, want 3", cfg.Retry.Attempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
port: 9000
max_workers: 5
mock_mode: false
downloads_dir: /tmp/causelists
session_retention: 1h
retry:
  attempts: 5
  backoff: 2s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Port)
	}
	if cfg.MaxWorkers != 5 {
		t.Errorf("max_workers = %d, want 5", cfg.MaxWorkers)
	}
	if cfg.MockMode {
		t.Error("mock_mode should be false")
	}
	if cfg.DownloadsDir != "/tmp/causelists" {
		t.Errorf("downloads_dir = %q", cfg.DownloadsDir)
	}
	if cfg.SessionRetention != time.Hour {
		t.Errorf("session_retention = %v, want 1h", cfg.SessionRetention)
	}
	if cfg.Retry.Attempts != 5 {
		t.Errorf("retry.attempts = %d, want 5", cfg.Retry.Attempts)
	}
	// Untouched fields keep defaults
	if cfg.BaseURL != Default().BaseURL {
		t.Errorf("base_url = %q, want default", cfg.BaseURL)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file should not fail: %v", err)
	}
	if cfg.Port != Default().Port {
		t.Errorf("port = %d, want default %d", cfg.Port, Default().Port)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ECOURTS_PORT", "8081")
	t.Setenv("ECOURTS_MOCK_MODE", "false")
	t.Setenv("ECOURTS_MAX_WORKERS", "7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 8081 {
		t.Errorf("port = %d, want 8081", cfg.Port)
	}
	if cfg.MockMode {
		t.Error("mock_mode should be overridden to false")
	}
	if cfg.MaxWorkers != 7 {
		t.Errorf("max_workers = %d, want 7", cfg.MaxWorkers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"zero workers", func(c *Config) { c.MaxWorkers = 0 }, true},
		{"empty base url", func(c *Config) { c.BaseURL = "" }, true},
		{"empty downloads dir", func(c *Config) { c.DownloadsDir = "" }, true},
		{"zero retry attempts", func(c *Config) { c.Retry.Attempts = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	cfg := Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = 8080
	if got := cfg.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", got)
	}
}
