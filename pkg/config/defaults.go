package config

import (
	"os"
	"path/filepath"
)

// appDir returns ~/.config/yn-hub, or the current directory when the home
// directory is unknown.
func appDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", "yn-hub")
}

// defaultRootDir returns the directory backing the virtual filesystem.
//
// Returns: ~/.config/yn-hub/fs.
func defaultRootDir() string {
	return filepath.Join(appDir(), "fs")
}

// defaultJournalPath returns the default history database path.
//
// Returns: ~/.config/yn-hub/history.db.
func defaultJournalPath() string {
	return filepath.Join(appDir(), "history.db")
}

// DefaultPath returns the default configuration file path.
//
// Returns: ~/.config/yn-hub/config.yaml.
func DefaultPath() string {
	return filepath.Join(appDir(), "config.yaml")
}
