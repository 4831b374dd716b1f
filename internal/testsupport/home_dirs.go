package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// homeDirs lists the directories shiftbook uses under HOME when no XDG
// variables are set.
var homeDirs = [][]string{
	{".local", "state", "shiftbook"},
	{".config", "shiftbook"},
}

// EnsureHomeDirs creates shiftbook's state and config directories under homeDir.
func EnsureHomeDirs(homeDir string) error {
	for _, parts := range homeDirs {
		dir := filepath.Join(append([]string{homeDir}, parts...)...)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// SetupTestHome creates a temp home directory with the state and config
// directories, points HOME at it and clears the XDG overrides.
func SetupTestHome(t testing.TB) string {
	t.Helper()

	homeDir := t.TempDir()
	if err := EnsureHomeDirs(homeDir); err != nil {
		t.Fatalf("setup home dir: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	return homeDir
}
