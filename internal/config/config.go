// Package config loads server configuration from a YAML file with
// ECOURTS_* environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/logging"
)

// Config holds the full application configuration.
type Config struct {
	// Server
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Portal
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MockMode       bool          `yaml:"mock_mode"`

	// Downloads
	DownloadsDir string        `yaml:"downloads_dir"`
	MaxWorkers   int           `yaml:"max_workers"`
	FileMaxAge   time.Duration `yaml:"file_max_age"`

	// Sessions
	SessionRetention time.Duration `yaml:"session_retention"`

	// Hierarchy cache
	EnableCaching bool          `yaml:"enable_caching"`
	RedisAddr     string        `yaml:"redis_addr"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`

	// Retry
	Retry RetryConfig `yaml:"retry"`

	// Logging
	LogLevel  logging.LogLevel `yaml:"log_level"`
	LogPretty bool             `yaml:"log_pretty"`
}

// RetryConfig defines retry behavior for portal requests.
type RetryConfig struct {
	Attempts   int           `yaml:"attempts"`
	Backoff    time.Duration `yaml:"backoff"`
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// Default returns a Config with safe defaults.
func Default() Config {
	return Config{
		Host:             "0.0.0.0",
		Port:             8000,
		BaseURL:          "https://services.ecourts.gov.in/ecourtindia_v6",
		RequestTimeout:   30 * time.Second,
		MockMode:         true,
		DownloadsDir:     "static/downloads",
		MaxWorkers:       3,
		FileMaxAge:       7 * 24 * time.Hour,
		SessionRetention: 24 * time.Hour,
		EnableCaching:    false,
		RedisAddr:        "localhost:6379",
		CacheTTL:         time.Hour,
		Retry: RetryConfig{
			Attempts:   3,
			Backoff:    time.Second,
			MaxBackoff: 30 * time.Second,
		},
		LogLevel:  logging.LevelInfo,
		LogPretty: false,
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty or the file does not exist), then
// environment overrides, then validation.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks invariants the rest of the system relies on.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535 (got %d)", c.Port)
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be >= 1 (got %d)", c.MaxWorkers)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.DownloadsDir == "" {
		return fmt.Errorf("downloads_dir is required")
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("retry.attempts must be >= 1 (got %d)", c.Retry.Attempts)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// applyEnv overrides configuration from ECOURTS_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("ECOURTS_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("ECOURTS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("ECOURTS_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("ECOURTS_DOWNLOADS_DIR"); v != "" {
		cfg.DownloadsDir = v
	}
	if v := os.Getenv("ECOURTS_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("ECOURTS_MOCK_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MockMode = b
		}
	}
	if v := os.Getenv("ECOURTS_ENABLE_CACHING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EnableCaching = b
		}
	}
	if v := os.Getenv("ECOURTS_MAX_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxWorkers = n
		}
	}
	if v := os.Getenv("ECOURTS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = logging.LogLevel(v)
	}
}
