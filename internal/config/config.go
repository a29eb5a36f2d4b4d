package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPollInterval is the refresh cadence shared by all screen pollers.
const DefaultPollInterval = 2 * time.Second

// Config represents the global ~/.chatik/config.toml.
type Config struct {
	AuthURL        string `toml:"auth_url"`
	MessagesURL    string `toml:"messages_url"`
	SearchURL      string `toml:"search_url"`
	PollIntervalMs int    `toml:"poll_interval_ms"`
}

// PollInterval returns the configured poll cadence, falling back to the
// default when unset or nonsensical.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalMs <= 0 {
		return DefaultPollInterval
	}
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
