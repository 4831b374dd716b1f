// Package paths resolves the default locations of shiftbook's files.
//
// The store lives in $XDG_STATE_HOME/shiftbook and configuration in
// $XDG_CONFIG_HOME/shiftbook, falling back to ~/.local/state and ~/.config.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "shiftbook"

// HomeDir returns the current user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return home, nil
}

// xdgDir returns $envVar/shiftbook, or ~/<fallback>/shiftbook when the
// variable is unset or not absolute.
func xdgDir(envVar string, fallback ...string) (string, error) {
	if base := os.Getenv(envVar); filepath.IsAbs(base) {
		return filepath.Join(base, appName), nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, appName)...), nil
}

// DefaultStateDir returns the directory holding the store.
func DefaultStateDir() (string, error) {
	return xdgDir("XDG_STATE_HOME", ".local", "state")
}

// DefaultConfigDir returns the directory holding configuration files.
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultConfigPath returns the path of the TOML configuration file.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultEnvPath returns the path of the optional dotenv file.
func DefaultEnvPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "shiftbook.env"), nil
}

// ResolveWithDefault returns override when set, otherwise the result of fallback.
func ResolveWithDefault(override string, fallback func() (string, error)) (string, error) {
	if override != "" {
		return override, nil
	}
	return fallback()
}
