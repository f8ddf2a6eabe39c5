// Package config loads the fractals configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/fractals/config.toml
// (~/.config/fractals/config.toml when XDG_CONFIG_HOME is unset):
//
//	[render]
//	width = 800
//	height = 600
//	kind = "julia"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
// Every key is optional; missing keys keep their defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/fractals/pkg/errors"
	"github.com/matzehuels/fractals/pkg/fractal"
)

// AppName names the configuration, cache and history directories.
const AppName = "fractals"

// Backend names.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Config is the complete configuration file.
type Config struct {
	Render  RenderConfig  `toml:"render"`
	Cache   CacheConfig   `toml:"cache"`
	History HistoryConfig `toml:"history"`
	Server  ServerConfig  `toml:"server"`
}

// RenderConfig holds defaults for the render command.
type RenderConfig struct {
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Kind    string `toml:"kind"`
	Output  string `toml:"output"`
	Format  string `toml:"format,omitempty"`
	Workers int    `toml:"workers"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir,omitempty"`
	RedisAddr string   `toml:"redis_addr,omitempty"`
	RedisDB   int      `toml:"redis_db,omitempty"`
	TTL       Duration `toml:"ttl"`
}

// HistoryConfig selects the render history backend.
type HistoryConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir,omitempty"`
	MongoURI string `toml:"mongo_uri,omitempty"`
	Database string `toml:"database,omitempty"`
}

// ServerConfig configures `fractals serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "168h".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:   400,
			Height:  400,
			Kind:    fractal.Mandelbrot.String(),
			Output:  "fractal.png",
			Workers: 1,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		History: HistoryConfig{
			Backend:  BackendFile,
			Database: AppName,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// DefaultPath returns the configuration file location following the XDG
// base directory convention.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads the file at path on top of the defaults. A missing file yields
// the defaults. Unknown keys are returned so callers can warn about them.
func Load(path string) (*Config, []string, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	if os.IsNotExist(err) {
		return cfg, nil, nil
	}
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	sort.Strings(unknown)

	if err := cfg.Validate(); err != nil {
		return nil, unknown, err
	}
	return cfg, unknown, nil
}

// Validate checks backend names and their required settings.
func (c *Config) Validate() error {
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render size must not be negative, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.Kind != "" {
		if _, err := fractal.ParseKind(c.Render.Kind); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.kind")
		}
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone, "":
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: %s)",
			c.Cache.Backend, strings.Join([]string{BackendFile, BackendRedis, BackendNone}, ", "))
	}

	switch c.History.Backend {
	case BackendFile, BackendMemory, BackendSQLite, BackendNone, "":
	case BackendMongo:
		if c.History.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "history.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown history backend %q (must be one of: %s)",
			c.History.Backend, strings.Join([]string{BackendFile, BackendMemory, BackendSQLite, BackendMongo, BackendNone}, ", "))
	}
	return nil
}

// Kind returns the configured default fractal kind.
func (c *Config) Kind() fractal.Kind {
	k, err := fractal.ParseKind(c.Render.Kind)
	if err != nil {
		return fractal.Mandelbrot
	}
	return k
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
