package config

import (
	"os"
	"path/filepath"
)

// appDir is the subdirectory under the user config directory that holds
// the config file and the state database.
const appDir = "notion-go"

// DefaultConfigPath returns the default config file location,
// e.g. ~/.config/notion-go/config.toml on Linux.
func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		// No resolvable home, fall back to the working directory.
		return "config.toml"
	}

	return filepath.Join(base, appDir, "config.toml")
}

// DefaultStatePath returns the default bookmark database location,
// e.g. ~/.config/notion-go/state.db on Linux.
func DefaultStatePath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "state.db"
	}

	return filepath.Join(base, appDir, "state.db")
}
