package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Load builds the effective configuration: defaults, then the YAML file at
// path (skipped when path is empty or the file does not exist), then
// environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Env-only operation is supported.
		case err != nil:
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %q: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	// PORT (platform-injected) wins over the configured listen port.
	if cfg.Port != "" {
		cfg.Listen = ":" + strings.TrimPrefix(cfg.Port, ":")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks formats of set values. Presence requirements are the
// caller's concern (register needs credentials, serve needs the public key).
func (c *Config) Validate() error {
	if c.Discord.PublicKey != "" {
		key, err := hex.DecodeString(c.Discord.PublicKey)
		if err != nil {
			return fmt.Errorf("discord public key is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return fmt.Errorf("discord public key must be 32 bytes, got %d", len(key))
		}
	}
	if c.Delivery.QueueDepth < 0 {
		return fmt.Errorf("delivery queue depth must not be negative")
	}
	if c.Delivery.Workers < 0 {
		return fmt.Errorf("delivery workers must not be negative")
	}
	return nil
}
