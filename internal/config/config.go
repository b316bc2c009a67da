// Copyright 2026 The Julesmcp Authors
// SPDX-License-Identifier: MIT

// Package config loads julesmcp's startup configuration: the Jules API key
// and endpoint settings. The key comes from the JULES_API_KEY environment
// variable, falling back to the global config file. It is read once at
// startup and passed into the client constructor; nothing reads it ambiently
// at call time.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvAPIKey is the environment variable holding the Jules API key.
const EnvAPIKey = "JULES_API_KEY"

// Config holds process-wide settings established once at startup.
type Config struct {
	APIKey         string `yaml:"api_key,omitempty"`
	BaseURL        string `yaml:"base_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// Timeout returns the configured request timeout, or 0 when unset so the
// client default applies.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Dir returns the directory for global julesmcp configuration.
// It uses $XDG_CONFIG_HOME/julesmcp if set, otherwise ~/.config/julesmcp.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "julesmcp")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "julesmcp")
}

// Path returns the path to the global config file.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the global config file (if present) and applies environment
// overrides. A missing or empty API key is an error: it must be caught
// before any tool is invoked.
func Load() (*Config, error) {
	cfg, err := loadFile(Path())
	if err != nil {
		return nil, err
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.APIKey = key
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s is not set (export it or add api_key to %s)", EnvAPIKey, Path())
	}
	return cfg, nil
}

// loadFile reads and parses a config file. A missing file yields a
// zero-value Config and nil error.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}
