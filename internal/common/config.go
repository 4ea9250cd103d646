// Package common provides shared utilities for Navcalc
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Navcalc
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Clients     ClientsConfig   `toml:"clients"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds path configuration for the 2 storage areas.
type StorageConfig struct {
	Cache AreaConfig `toml:"cache"` // Parsed scheme payloads with TTL (BadgerHold)
	Funds AreaConfig `toml:"funds"` // Fund directory + sync job records (BadgerHold)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	MFAPI MFAPIConfig `toml:"mfapi"`
}

// MFAPIConfig holds mfapi.in provider configuration
type MFAPIConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	CacheTTL  string `toml:"cache_ttl"`
}

// GetTimeout parses and returns the timeout duration
func (c *MFAPIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// GetCacheTTL parses and returns the scheme cache TTL
func (c *MFAPIConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return FreshnessScheme
	}
	return d
}

// SchedulerConfig holds the fund directory sync scheduler configuration
type SchedulerConfig struct {
	SyncEnabled  bool   `toml:"sync_enabled"`
	SyncInterval string `toml:"sync_interval"`
	BatchSize    int    `toml:"batch_size"`
	Workers      int    `toml:"workers"`
}

// GetSyncInterval parses and returns the sync interval duration
func (c *SchedulerConfig) GetSyncInterval() time.Duration {
	d, err := time.ParseDuration(c.SyncInterval)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Cache: AreaConfig{Path: "data/cache"},
			Funds: AreaConfig{Path: "data/funds"},
		},
		Clients: ClientsConfig{
			MFAPI: MFAPIConfig{
				BaseURL:   "https://api.mfapi.in",
				RateLimit: 10,
				Timeout:   "60s",
				CacheTTL:  "12h",
			},
		},
		Scheduler: SchedulerConfig{
			SyncEnabled:  true,
			SyncInterval: "24h",
			BatchSize:    100,
			Workers:      8,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Outputs:    []string{"console", "file"},
			FilePath:   "./logs/navcalc.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Apply environment overrides
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("NAVCALC_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("NAVCALC_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("NAVCALC_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("NAVCALC_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("NAVCALC_DATA_PATH"); path != "" {
		config.Storage.Cache.Path = filepath.Join(path, "cache")
		config.Storage.Funds.Path = filepath.Join(path, "funds")
	}

	if base := os.Getenv("NAVCALC_MFAPI_BASE_URL"); base != "" {
		config.Clients.MFAPI.BaseURL = base
	}

	if ttl := os.Getenv("NAVCALC_CACHE_TTL"); ttl != "" {
		config.Clients.MFAPI.CacheTTL = ttl
	}

	if v := os.Getenv("NAVCALC_SYNC_ENABLED"); v != "" {
		config.Scheduler.SyncEnabled = strings.EqualFold(v, "true") || v == "1"
	}

	if v := os.Getenv("NAVCALC_SYNC_INTERVAL"); v != "" {
		config.Scheduler.SyncInterval = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
