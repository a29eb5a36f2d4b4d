package home

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.chatik.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chatik")
}

// ConfigPath returns the client config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// DBPath returns the client-owned chatik.db path.
func DBPath() string {
	return filepath.Join(BaseDir(), "chatik.db")
}

// LogDir returns the log directory.
func LogDir() string {
	return filepath.Join(BaseDir(), "logs")
}

// LogPath returns the client log file path.
func LogPath() string {
	return filepath.Join(LogDir(), "chatik.log")
}

// EnsureDirs creates the base directory tree with proper permissions.
func EnsureDirs() error {
	for _, d := range []string{BaseDir(), LogDir()} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
