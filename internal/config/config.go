package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Backend names a storage substrate.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
	BackendSQLite Backend = "sqlite"
)

// Config holds everything needed to open a session store.
type Config struct {
	Backend Backend `yaml:"backend" env:"WAYPOINT_BACKEND"`

	// Dir is the session directory for the file backend.
	Dir string `yaml:"dir" env:"WAYPOINT_DIR"`

	RedisAddr     string `yaml:"redis_addr" env:"WAYPOINT_REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"WAYPOINT_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"WAYPOINT_REDIS_DB"`

	SQLitePath string `yaml:"sqlite_path" env:"WAYPOINT_SQLITE_PATH"`

	// Key is the single slot used when no workflow id is given.
	Key string `yaml:"key" env:"WAYPOINT_KEY"`
	// Prefix namespaces per-workflow slots.
	Prefix string `yaml:"prefix" env:"WAYPOINT_PREFIX"`

	Expiry   time.Duration `yaml:"expiry" env:"WAYPOINT_EXPIRY"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"WAYPOINT_CACHE_TTL"`

	LogLevel string `yaml:"log_level" env:"WAYPOINT_LOG_LEVEL"`
	Port     string `yaml:"port" env:"WAYPOINT_PORT"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Backend:    BackendFile,
		Dir:        filepath.Join(".waypoint", "sessions"),
		RedisAddr:  "localhost:6379",
		SQLitePath: filepath.Join(".waypoint", "sessions.db"),
		Key:        "waypoint:session",
		Prefix:     "waypoint:session:",
		Expiry:     24 * time.Hour,
		LogLevel:   "info",
		Port:       "8080",
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if any),
// then WAYPOINT_* environment variables.
// A missing file is not an error unless the path was given explicitly.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate rejects configurations no substrate can be built from.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want memory, file, redis or sqlite)", c.Backend)
	}
	if c.Expiry <= 0 {
		return fmt.Errorf("expiry must be positive, got %s", c.Expiry)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL)
	}
	return nil
}
