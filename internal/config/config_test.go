package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{
		AuthURL:        "https://auth.example.org/fn",
		MessagesURL:    "https://msg.example.org/fn",
		SearchURL:      "https://search.example.org/fn",
		PollIntervalMs: 1500,
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.MessagesURL != cfg.MessagesURL {
		t.Errorf("MessagesURL = %q, want %q", loaded.MessagesURL, cfg.MessagesURL)
	}
	if loaded.PollInterval() != 1500*time.Millisecond {
		t.Errorf("PollInterval() = %v, want 1.5s", loaded.PollInterval())
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestPollIntervalDefault(t *testing.T) {
	cfg := &Config{}
	if cfg.PollInterval() != DefaultPollInterval {
		t.Errorf("PollInterval() = %v, want %v", cfg.PollInterval(), DefaultPollInterval)
	}
	cfg.PollIntervalMs = -5
	if cfg.PollInterval() != DefaultPollInterval {
		t.Errorf("PollInterval() with negative ms = %v, want %v", cfg.PollInterval(), DefaultPollInterval)
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, &Config{AuthURL: "https://auth.example.org"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}
