// Package config loads monarch settings from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/bartekus/monarch/pkg/kv"
	"github.com/bartekus/monarch/pkg/migration"
)

// FileName is the name of the config file searched for in the working
// directory and in ~/.config/monarch.
const FileName = "monarch.toml"

// Backend names accepted in Config.Backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
	BackendNATS   = "nats"
)

// Config holds all monarch configuration.
type Config struct {
	Backend  string `toml:"backend"`
	Key      string `toml:"key"`
	LogLevel string `toml:"log_level"`
	Manifest string `toml:"manifest"`

	File  FileConfig  `toml:"file"`
	Bolt  BoltConfig  `toml:"bolt"`
	Redis RedisConfig `toml:"redis"`
	NATS  NATSConfig  `toml:"nats"`

	// Source is the file the configuration was read from, empty when only
	// defaults and environment were used.
	Source string `toml:"-"`
}

type FileConfig struct {
	Path string `toml:"path"`
}

type BoltConfig struct {
	Path   string `toml:"path"`
	Bucket string `toml:"bucket"`
}

type RedisConfig struct {
	URL string `toml:"url"`
}

type NATSConfig struct {
	URL    string `toml:"url"`
	Bucket string `toml:"bucket"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Backend:  BackendFile,
		Key:      migration.DefaultKey,
		LogLevel: "info",
		Manifest: "monarch.yaml",
		File:     FileConfig{Path: filepath.Join(".monarch", "state.json")},
		Bolt:     BoltConfig{Path: filepath.Join(".monarch", "state.db"), Bucket: kv.DefaultBoltBucket},
		Redis:    RedisConfig{URL: "redis://localhost:6379/0"},
		NATS:     NATSConfig{URL: "nats://127.0.0.1:4222", Bucket: kv.DefaultNATSBucket},
	}
}

// Load reads the config file at path, or the first of ./monarch.toml and
// ~/.config/monarch/monarch.toml that exists when path is empty, applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = discover()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		cfg.Source = path
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func discover() string {
	candidates := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "monarch", FileName))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

func (c *Config) applyEnv() {
	c.Backend = getEnvString("MONARCH_BACKEND", c.Backend)
	c.Key = getEnvString("MONARCH_KEY", c.Key)
	c.LogLevel = getEnvString("MONARCH_LOG_LEVEL", c.LogLevel)
	c.Manifest = getEnvString("MONARCH_MANIFEST", c.Manifest)
	c.File.Path = getEnvString("MONARCH_FILE_PATH", c.File.Path)
	c.Bolt.Path = getEnvString("MONARCH_BOLT_PATH", c.Bolt.Path)
	c.Redis.URL = getEnvString("MONARCH_REDIS_URL", c.Redis.URL)
	c.NATS.URL = getEnvString("MONARCH_NATS_URL", c.NATS.URL)
	c.NATS.Bucket = getEnvString("MONARCH_NATS_BUCKET", c.NATS.Bucket)
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate checks the configuration and normalizes the backend name and log
// level.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	var errs []error
	if strings.TrimSpace(c.Key) == "" {
		errs = append(errs, errors.New("key cannot be empty"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	switch c.Backend {
	case BackendMemory:
	case BackendFile:
		if c.File.Path == "" {
			errs = append(errs, errors.New("file.path cannot be empty for the file backend"))
		}
	case BackendBolt:
		if c.Bolt.Path == "" {
			errs = append(errs, errors.New("bolt.path cannot be empty for the bolt backend"))
		}
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis.url cannot be empty for the redis backend"))
		}
	case BackendNATS:
		if c.NATS.URL == "" {
			errs = append(errs, errors.New("nats.url cannot be empty for the nats backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q: must be memory, file, bolt, redis, or nats", c.Backend))
	}

	return errors.Join(errs...)
}

// Level returns the slog level named by LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be debug, info, warn, or error", s)
	}
	return level, nil
}
