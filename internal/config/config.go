// Package config loads Lexis server settings from a YAML file and the
// environment. Environment variables win over the file; the file wins over
// the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings
const (
	EnvListen        = "LEXIS_LISTEN"
	EnvShards        = "LEXIS_SHARDS"
	EnvStatsInterval = "LEXIS_STATS_INTERVAL"
	EnvMaxBodyBytes  = "LEXIS_MAX_BODY_BYTES"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Listen                string `yaml:"listen"`
	ReadHeaderTimeoutSecs int    `yaml:"read_header_timeout_secs"`
	ShutdownTimeoutSecs   int    `yaml:"shutdown_timeout_secs"`
	MaxBodyBytes          int64  `yaml:"max_body_bytes"`
}

// StoreConfig configures the string store.
type StoreConfig struct {
	Shards int `yaml:"shards"`
}

// MonitorConfig configures the periodic stats reporter.
// A zero interval disables it.
type MonitorConfig struct {
	StatsIntervalSecs int `yaml:"stats_interval_secs"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// getenv is swapped out in tests
var getenv = os.Getenv

// Load reads the config at path, fills in defaults and applies environment
// overrides. A missing file is not an error; an empty path skips the file.
func Load(path string) (*AppConfig, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	applyDefaults(cfg)
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Listen:                ":8080",
			ReadHeaderTimeoutSecs: 5,
			ShutdownTimeoutSecs:   5,
			MaxBodyBytes:          1 << 20,
		},
		Store: StoreConfig{Shards: 1},
	}
}

// ReadHeaderTimeout returns the header read timeout as a duration.
func (c ServerConfig) ReadHeaderTimeout() time.Duration {
	return time.Duration(c.ReadHeaderTimeoutSecs) * time.Second
}

// ShutdownTimeout returns the graceful shutdown budget as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSecs) * time.Second
}

// StatsInterval returns the reporting interval, zero when disabled.
func (c MonitorConfig) StatsInterval() time.Duration {
	return time.Duration(c.StatsIntervalSecs) * time.Second
}

// applyDefaults replaces zero or nonsensical values left by a partial file
func applyDefaults(cfg *AppConfig) {
	def := Default()
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = def.Server.Listen
	}
	if cfg.Server.ReadHeaderTimeoutSecs <= 0 {
		cfg.Server.ReadHeaderTimeoutSecs = def.Server.ReadHeaderTimeoutSecs
	}
	if cfg.Server.ShutdownTimeoutSecs <= 0 {
		cfg.Server.ShutdownTimeoutSecs = def.Server.ShutdownTimeoutSecs
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		cfg.Server.MaxBodyBytes = def.Server.MaxBodyBytes
	}
	if cfg.Store.Shards < 1 {
		cfg.Store.Shards = def.Store.Shards
	}
	if cfg.Monitor.StatsIntervalSecs < 0 {
		cfg.Monitor.StatsIntervalSecs = 0
	}
}

func applyEnv(cfg *AppConfig) error {
	if v := getenv(EnvListen); v != "" {
		cfg.Server.Listen = v
	}
	if err := envInt(EnvShards, func(n int) { cfg.Store.Shards = max(n, 1) }); err != nil {
		return err
	}
	if err := envInt(EnvStatsInterval, func(n int) { cfg.Monitor.StatsIntervalSecs = max(n, 0) }); err != nil {
		return err
	}
	return envInt(EnvMaxBodyBytes, func(n int) {
		if n > 0 {
			cfg.Server.MaxBodyBytes = int64(n)
		}
	})
}

func envInt(key string, set func(int)) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", key, v)
	}
	set(n)
	return nil
}
