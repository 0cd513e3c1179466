// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/docchat/docchat-tui/internal/sanitize"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete docchat configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	UI        UIConfig        `toml:"ui"`
	Storage   StorageConfig   `toml:"storage"`
	Sanitizer SanitizerConfig `toml:"sanitizer"`
}

// APIConfig describes the completion backend.
type APIConfig struct {
	// BaseURL is the backend host, e.g. "http://127.0.0.1:8000"
	BaseURL string `toml:"base_url"`

	// Prefix is the path prefix all endpoints share, e.g. "api/v1"
	Prefix string `toml:"prefix"`

	// Model is the model_name sent with generate requests
	Model string `toml:"model"`

	// TimeoutSeconds bounds each backend request
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Theme is the key of the active theme in the theme table
	Theme string `toml:"theme"`

	// RevealIntervalMs is the cadence of the typing animation, one
	// character per interval
	RevealIntervalMs int `toml:"reveal_interval_ms"`
}

// StorageConfig selects the persistence backend for chat history.
type StorageConfig struct {
	// Backend is "json" (snapshot files) or "sqlite" (single database file)
	Backend string `toml:"backend"`

	// Dir is the data directory (default ~/.docchat)
	Dir string `toml:"dir"`
}

// SanitizerConfig lists the instruction phrases stripped from completions.
// An empty list means the built-in defaults.
type SanitizerConfig struct {
	Phrases []string `toml:"phrases"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://127.0.0.1:8000",
			Prefix:         "api/v1",
			Model:          "mistral",
			TimeoutSeconds: 60,
		},
		UI: UIConfig{
			Theme:            "dark",
			RevealIntervalMs: 15,
		},
		Storage: StorageConfig{
			Backend: "json",
			Dir:     defaultDataDir(),
		},
		Sanitizer: SanitizerConfig{
			Phrases: append([]string(nil), sanitize.DefaultPhrases...),
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), "config.toml")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docchat"
	}
	return filepath.Join(home, ".docchat")
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file at path, fills unset fields with defaults, and
// applies DOCCHAT_* environment overrides. A missing file yields the
// defaults with a nil error; a malformed file yields the defaults together
// with the parse error so callers can log it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if _, derr := toml.Decode(string(data), cfg); derr != nil {
			cfg = Default()
			cfg.applyEnv()
			return cfg, fmt.Errorf("failed to parse %s: %w", path, derr)
		}
	case errors.Is(err, os.ErrNotExist):
		// No file - defaults apply.
	default:
		cfg.applyEnv()
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.fillDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// fillDefaults replaces zero values with the built-in defaults so a sparse
// config file only overrides what it names.
func (c *Config) fillDefaults() {
	def := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.Prefix == "" {
		c.API.Prefix = def.API.Prefix
	}
	if c.API.Model == "" {
		c.API.Model = def.API.Model
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = def.API.TimeoutSeconds
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.UI.RevealIntervalMs <= 0 {
		c.UI.RevealIntervalMs = def.UI.RevealIntervalMs
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = def.Storage.Dir
	}
	if len(c.Sanitizer.Phrases) == 0 {
		c.Sanitizer.Phrases = def.Sanitizer.Phrases
	}
}

// applyEnv applies DOCCHAT_* environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("DOCCHAT_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("DOCCHAT_API_PREFIX"); v != "" {
		c.API.Prefix = v
	}
	if v := os.Getenv("DOCCHAT_MODEL"); v != "" {
		c.API.Model = v
	}
	if v := os.Getenv("DOCCHAT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("DOCCHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("DOCCHAT_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("DOCCHAT_DATA_DIR"); v != "" {
		c.Storage.Dir = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not a valid URL", c.API.BaseURL)
	}

	switch c.Storage.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("storage.backend %q must be \"json\" or \"sqlite\"", c.Storage.Backend)
	}

	if c.API.TimeoutSeconds <= 0 {
		return errors.New("api.timeout_seconds must be positive")
	}
	if c.UI.RevealIntervalMs <= 0 {
		return errors.New("ui.reveal_interval_ms must be positive")
	}
	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RevealInterval returns the typing animation cadence as a duration.
func (c *Config) RevealInterval() time.Duration {
	return time.Duration(c.UI.RevealIntervalMs) * time.Millisecond
}
