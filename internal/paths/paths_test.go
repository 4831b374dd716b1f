package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func useHome(t *testing.T) string {
	t.Helper()
	home := filepath.Join("/tmp", "test-home")
	t.Setenv("HOME", home)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	return home
}

func TestDefaultDirsUseHome(t *testing.T) {
	home := useHome(t)

	stateDir, err := DefaultStateDir()
	if err != nil {
		t.Fatalf("DefaultStateDir: %v", err)
	}
	if want := filepath.Join(home, ".local", "state", "shiftbook"); stateDir != want {
		t.Fatalf("expected %s, got %s", want, stateDir)
	}

	configPath, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	if want := filepath.Join(home, ".config", "shiftbook", "config.toml"); configPath != want {
		t.Fatalf("expected %s, got %s", want, configPath)
	}

	envPath, err := DefaultEnvPath()
	if err != nil {
		t.Fatalf("DefaultEnvPath: %v", err)
	}
	if want := filepath.Join(home, ".config", "shiftbook", "shiftbook.env"); envPath != want {
		t.Fatalf("expected %s, got %s", want, envPath)
	}
}

func TestDefaultDirsUseXDG(t *testing.T) {
	useHome(t)
	t.Setenv("XDG_STATE_HOME", "/srv/state")
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg")

	stateDir, err := DefaultStateDir()
	if err != nil {
		t.Fatalf("DefaultStateDir: %v", err)
	}
	if want := filepath.Join("/srv/state", "shiftbook"); stateDir != want {
		t.Fatalf("expected %s, got %s", want, stateDir)
	}

	configDir, err := DefaultConfigDir()
	if err != nil {
		t.Fatalf("DefaultConfigDir: %v", err)
	}
	if want := filepath.Join("/etc/xdg", "shiftbook"); configDir != want {
		t.Fatalf("expected %s, got %s", want, configDir)
	}
}

func TestRelativeXDGIsIgnored(t *testing.T) {
	home := useHome(t)
	t.Setenv("XDG_STATE_HOME", "state")

	stateDir, err := DefaultStateDir()
	if err != nil {
		t.Fatalf("DefaultStateDir: %v", err)
	}
	if want := filepath.Join(home, ".local", "state", "shiftbook"); stateDir != want {
		t.Fatalf("expected %s, got %s", want, stateDir)
	}
}

func TestResolveWithDefault(t *testing.T) {
	t.Run("returns override when provided", func(t *testing.T) {
		result, err := ResolveWithDefault("/custom/path", DefaultStateDir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result != "/custom/path" {
			t.Fatalf("expected /custom/path, got %s", result)
		}
	})

	t.Run("calls default function when override is empty", func(t *testing.T) {
		home := useHome(t)

		result, err := ResolveWithDefault("", DefaultStateDir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if want := filepath.Join(home, ".local", "state", "shiftbook"); result != want {
			t.Fatalf("expected %s, got %s", want, result)
		}
	})

	t.Run("propagates error from default function", func(t *testing.T) {
		_, err := ResolveWithDefault("", func() (string, error) {
			return "", os.ErrNotExist
		})
		if err != os.ErrNotExist {
			t.Fatalf("expected os.ErrNotExist, got %v", err)
		}
	})
}
