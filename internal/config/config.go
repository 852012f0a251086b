// Package config loads the optional .glyph.yaml file from a crawl root.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is looked up in the crawl root.
const FileName = ".glyph.yaml"

// DefaultDebounce is the quiet period before a watched tree is re-crawled.
const DefaultDebounce = 500 * time.Millisecond

// ErrInvalidConfig wraps every parse or validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds user-overridable crawl settings.
type Config struct {
	// SuppressDecisions produces a flat call graph.
	SuppressDecisions bool `yaml:"suppress_decisions"`

	// DebounceMS overrides the watch debounce window. Default: 500.
	DebounceMS *int `yaml:"debounce_ms"`

	// Ignore rules are added to (not replacing) the built-in exclusions.
	Ignore []string `yaml:"ignore"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{}
}

// Load reads FileName from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.DebounceMS != nil && *c.DebounceMS <= 0 {
		return fmt.Errorf("debounce_ms must be positive, got %d", *c.DebounceMS)
	}
	if c.LogLevel != "" {
		if _, err := ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// Debounce returns the configured debounce window or DefaultDebounce.
func (c *Config) Debounce() time.Duration {
	if c.DebounceMS != nil {
		return time.Duration(*c.DebounceMS) * time.Millisecond
	}
	return DefaultDebounce
}

// ParseLevel maps a level name onto a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
