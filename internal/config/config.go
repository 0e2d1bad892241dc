// Package config loads the optional YAML configuration file. Everything has
// a default; an absent file is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mattiaTagliente/epub-to-pdf/internal/engine"
)

// Config is the full configuration surface beyond the per-request method and
// destination: executable path overrides, a custom preference order, and the
// per-engine timeout ceiling.
type Config struct {
	Engines        map[string]EngineConfig `yaml:"engines"`
	Order          []string                `yaml:"order"`
	TimeoutMinutes int                     `yaml:"timeout_minutes"`
}

// EngineConfig holds the per-engine overrides.
type EngineConfig struct {
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engines:        map[string]EngineConfig{},
		TimeoutMinutes: 15,
	}
}

// DefaultPath returns ~/.epub-to-pdf/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".epub-to-pdf", "config.yaml"), nil
}

// Load reads the config file at path, falling back to defaults when the file
// does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown engine names and non-positive timeouts.
func (c *Config) Validate() error {
	for name := range c.Engines {
		if _, err := engine.ParseMethod(name); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	for _, name := range c.Order {
		m, err := engine.ParseMethod(name)
		if err != nil {
			return fmt.Errorf("config: order entry: %w", err)
		}
		if m == engine.Auto {
			return errors.New("config: order entry cannot be \"auto\"")
		}
	}
	if c.TimeoutMinutes <= 0 {
		return errors.New("config: timeout_minutes must be positive")
	}
	return nil
}

// Timeout returns the per-engine timeout ceiling.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}

// Paths returns the executable overrides keyed by method.
func (c *Config) Paths() map[engine.Method]string {
	paths := make(map[engine.Method]string, len(c.Engines))
	for name, ec := range c.Engines {
		if ec.Path != "" {
			paths[engine.Method(name)] = ec.Path
		}
	}
	return paths
}

// EngineOrder resolves the configured preference order against the default
// table: configured methods come first in their given order, remaining
// engines keep their default ranks.
func (c *Config) EngineOrder(table []engine.Engine) []engine.Engine {
	if len(c.Order) == 0 {
		return table
	}

	byMethod := make(map[engine.Method]engine.Engine, len(table))
	for _, e := range table {
		byMethod[e.Method()] = e
	}

	ordered := make([]engine.Engine, 0, len(table))
	seen := make(map[engine.Method]bool, len(table))
	for _, name := range c.Order {
		m := engine.Method(name)
		if e, ok := byMethod[m]; ok && !seen[m] {
			ordered = append(ordered, e)
			seen[m] = true
		}
	}
	for _, e := range table {
		if !seen[e.Method()] {
			ordered = append(ordered, e)
		}
	}
	return ordered
}
