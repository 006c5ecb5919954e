// Package config loads server and CLI settings.
//
// Settings are layered: built-in defaults, then an optional TOML file, then
// environment variables. Command-line flags are applied on top by the CLI.
//
// Example config.toml:
//
//	log_level = "debug"
//	mode = "16 bit"
//	workers = 8
//	shards = 64
//	max_request_bytes = 67108864
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/ironsheep/color-adjacency-mcp/internal/adjacency"
	apperrors "github.com/ironsheep/color-adjacency-mcp/internal/errors"
)

const appName = "color-adjacency-mcp"

// Environment variables read by FromEnv.
const (
	EnvLogLevel = "ADJACENCY_MCP_LOG_LEVEL"
	EnvMode     = "ADJACENCY_MCP_MODE"
	EnvWorkers  = "ADJACENCY_MCP_WORKERS"
	EnvConfig   = "ADJACENCY_MCP_CONFIG"
)

// DefaultMaxRequestBytes bounds a single JSON-RPC line. Payloads carry about
// 27 bytes per pixel, so 64 MiB fits a 1536×1536 render.
const DefaultMaxRequestBytes = 64 << 20

// Config holds the tunables shared by the MCP server and the CLI.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// Mode is the analysis mode used when a request omits one.
	Mode string `toml:"mode"`

	// Workers bounds the analyzer's goroutine pool. Zero means GOMAXPROCS.
	Workers int `toml:"workers"`

	// Shards is the adjacency graph lock stripe count. Zero picks a default
	// from GOMAXPROCS.
	Shards int `toml:"shards"`

	// MaxRequestBytes is the largest JSON-RPC request line accepted.
	MaxRequestBytes int `toml:"max_request_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:        "info",
		Mode:            string(adjacency.DefaultMode),
		MaxRequestBytes: DefaultMaxRequestBytes,
	}
}

// DefaultPath returns the config file location using the XDG convention
// (~/.config/color-adjacency-mcp/config.toml).
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load builds a Config from defaults, the TOML file at path and the
// environment. A missing file is not an error when path is the default
// location; an explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			switch {
			case errors.Is(err, fs.ErrNotExist) && !explicit:
			case errors.Is(err, fs.ErrNotExist):
				return cfg, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s", path)
			default:
				return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "parse config %s", path)
			}
		}
	}

	if err := cfg.FromEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// FromEnv overrides fields with any ADJACENCY_MCP_* variables that are set.
func (c *Config) FromEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvMode); v != "" {
		c.Mode = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "%s must be an integer", EnvWorkers)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "log_level %q", c.LogLevel)
	}
	if _, err := adjacency.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Workers < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "workers must not be negative, got %d", c.Workers)
	}
	if c.Shards < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "shards must not be negative, got %d", c.Shards)
	}
	if c.MaxRequestBytes <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "max_request_bytes must be positive, got %d", c.MaxRequestBytes)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// AnalyzerOptions returns the adjacency options this config selects.
func (c *Config) AnalyzerOptions() adjacency.Options {
	return adjacency.Options{Workers: c.Workers, Shards: c.Shards}
}

// DefaultMode returns the parsed default analysis mode.
func (c *Config) DefaultMode() adjacency.Mode {
	m, err := adjacency.ParseMode(c.Mode)
	if err != nil {
		return adjacency.DefaultMode
	}
	return m
}
