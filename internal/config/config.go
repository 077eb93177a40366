// Package config loads tool configuration from YAML with environment
// fallbacks.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full tool configuration. Zero values mean "use default".
type Config struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`

	// SettleMS is the pause between applied commands, in milliseconds.
	SettleMS int `yaml:"settle_ms"`

	// StorePath is the SQLite database holding patient aliases and run
	// history. Defaults to sightflow.db under the user config dir.
	StorePath string `yaml:"store_path"`

	// Redact controls PHI scrubbing of narratives before they are sent to
	// the AI provider. On unless explicitly disabled.
	Redact *bool `yaml:"redact"`

	// Conditions overrides the embedded picklist when non-empty.
	Conditions []string `yaml:"conditions"`
}

// Load reads configuration from path. An empty path tries the default
// location; a missing file at either yields defaults, not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultPath()
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; env vars and defaults cover everything.
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func defaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "sightflow", "config.yaml")
	}
	return "sightflow.yaml"
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SIGHTFLOW_PROVIDER"); v != "" && c.Provider == "" {
		c.Provider = v
	}
	if v := os.Getenv("SIGHTFLOW_MODEL"); v != "" && c.Model == "" {
		c.Model = v
	}
	if v := os.Getenv("SIGHTFLOW_API_KEY"); v != "" && c.APIKey == "" {
		c.APIKey = v
	}
	if v := os.Getenv("SIGHTFLOW_STORE"); v != "" && c.StorePath == "" {
		c.StorePath = v
	}
	if v := os.Getenv("SIGHTFLOW_REDACT"); v != "" && c.Redact == nil {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Redact = &b
		}
	}
}

func (c *Config) applyDefaults() {
	if c.SettleMS <= 0 {
		c.SettleMS = 400
	}
	if c.StorePath == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			c.StorePath = filepath.Join(dir, "sightflow", "sightflow.db")
		} else {
			c.StorePath = "sightflow.db"
		}
	}
	if c.Redact == nil {
		on := true
		c.Redact = &on
	}
}
