package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amonks/shiftbook/internal/config"
	"github.com/amonks/shiftbook/internal/testsupport"
)

func writeGlobalConfig(t *testing.T, homeDir, name, content string) {
	t.Helper()
	configDir := filepath.Join(homeDir, ".config", "shiftbook")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	testsupport.SetupTestHome(t)

	cfg, err := config.Load(config.Options{Environ: map[string]string{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Store.Backend != "file" {
		t.Errorf("Backend = %q, expected file", cfg.Store.Backend)
	}
	if cfg.Store.Namespace != config.DefaultNamespace {
		t.Errorf("Namespace = %q, expected %q", cfg.Store.Namespace, config.DefaultNamespace)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q, expected warn", cfg.Log.Level)
	}
	policy, err := cfg.Policy()
	if err != nil {
		t.Fatalf("Policy: %v", err)
	}
	if policy.CutoverHour != 0 || policy.Location != time.UTC {
		t.Errorf("unexpected policy %+v", policy)
	}
	if len(cfg.Orders.Recipients) == 0 {
		t.Error("expected default recipients")
	}
}

func TestLoad_GlobalFile(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)
	writeGlobalConfig(t, homeDir, "config.toml", `
[store]
backend = "sqlite"
namespace = "LADEN"

[day]
cutover-hour = 3
timezone = "Local"

[orders]
recipients = ["laden@example.com"]
`)

	cfg, err := config.Load(config.Options{Environ: map[string]string{}})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Store.Backend != "sqlite" || cfg.Store.Namespace != "LADEN" {
		t.Errorf("unexpected store config %+v", cfg.Store)
	}
	if cfg.Day.CutoverHour != 3 {
		t.Errorf("CutoverHour = %d, expected 3", cfg.Day.CutoverHour)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Errorf("expected Local, got %v err=%v", loc, err)
	}
	if len(cfg.Orders.Recipients) != 1 || cfg.Orders.Recipients[0] != "laden@example.com" {
		t.Errorf("unexpected recipients %v", cfg.Orders.Recipients)
	}
	if len(cfg.Orders.Patisserie) != 1 {
		t.Errorf("expected patisserie default to be kept, got %v", cfg.Orders.Patisserie)
	}
}

func TestLoad_ExplicitFileOverridesGlobal(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)
	writeGlobalConfig(t, homeDir, "config.toml", `
[store]
backend = "sqlite"

[log]
level = "info"
`)

	explicit := filepath.Join(t.TempDir(), "shop.toml")
	if err := os.WriteFile(explicit, []byte("[store]\nbackend = \"memory\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := config.Load(config.Options{Path: explicit, Environ: map[string]string{}})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Backend = %q, expected memory", cfg.Store.Backend)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q, expected global value info", cfg.Log.Level)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	testsupport.SetupTestHome(t)

	_, err := config.Load(config.Options{Path: filepath.Join(t.TempDir(), "missing.toml"), Environ: map[string]string{}})
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)
	writeGlobalConfig(t, homeDir, "config.toml", `this is not valid toml [`)

	if _, err := config.Load(config.Options{Environ: map[string]string{}}); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)
	writeGlobalConfig(t, homeDir, "config.toml", "[day]\ncutover = 3\n")

	_, err := config.Load(config.Options{Environ: map[string]string{}})
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)
	writeGlobalConfig(t, homeDir, "config.toml", "[day]\ncutover-hour = 2\n")
	writeGlobalConfig(t, homeDir, "shiftbook.env", "SHIFTBOOK_NAMESPACE=FROMFILE\nSHIFTBOOK_LOG_LEVEL=debug\n")

	cfg, err := config.Load(config.Options{Environ: map[string]string{
		"SHIFTBOOK_CUTOVER_HOUR": "4",
		"SHIFTBOOK_LOG_LEVEL":    "ERROR",
		"SHIFTBOOK_NOW":          "2024-05-02T07:00:00Z",
	}})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Day.CutoverHour != 4 {
		t.Errorf("CutoverHour = %d, expected 4", cfg.Day.CutoverHour)
	}
	if cfg.Store.Namespace != "FROMFILE" {
		t.Errorf("Namespace = %q, expected value from env file", cfg.Store.Namespace)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Level = %q, expected environment to win over env file", cfg.Log.Level)
	}

	clock, err := cfg.Clock()
	if err != nil {
		t.Fatalf("Clock: %v", err)
	}
	if got := clock(); !got.Equal(time.Date(2024, 5, 2, 7, 0, 0, 0, time.UTC)) {
		t.Errorf("clock = %v", got)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{"cutover too large", map[string]string{"SHIFTBOOK_CUTOVER_HOUR": "24"}},
		{"negative cutover", map[string]string{"SHIFTBOOK_CUTOVER_HOUR": "-1"}},
		{"unknown backend", map[string]string{"SHIFTBOOK_STORE": "redis"}},
		{"unknown timezone", map[string]string{"SHIFTBOOK_TIMEZONE": "Mars/Olympus"}},
		{"bad clock", map[string]string{"SHIFTBOOK_NOW": "yesterday"}},
		{"bad log format", map[string]string{"SHIFTBOOK_LOG_FORMAT": "xml"}},
		{"non-numeric cutover", map[string]string{"SHIFTBOOK_CUTOVER_HOUR": "x"}},
		{"unknown orders timezone", map[string]string{"SHIFTBOOK_ORDERS_TIMEZONE": "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testsupport.SetupTestHome(t)
			_, err := config.Load(config.Options{Environ: tt.environ})
			if !errors.Is(err, config.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestStateDir(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)

	cfg := config.Default()
	dir, err := cfg.StateDir()
	if err != nil {
		t.Fatalf("StateDir: %v", err)
	}
	if dir != filepath.Join(homeDir, ".local", "state", "shiftbook") {
		t.Fatalf("unexpected default state dir %s", dir)
	}

	cfg.Store.Path = "/srv/shiftbook"
	if dir, _ := cfg.StateDir(); dir != "/srv/shiftbook" {
		t.Fatalf("expected configured path, got %s", dir)
	}
}

func TestOrderLocation(t *testing.T) {
	homeDir := testsupport.SetupTestHome(t)

	cfg, err := config.Load(config.Options{Environ: map[string]string{}})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loc, err := cfg.OrderLocation(); err != nil || loc != time.Local {
		t.Fatalf("expected local order zone by default, got %v (%v)", loc, err)
	}

	writeGlobalConfig(t, homeDir, "config.toml", "[orders]\ntimezone = \"Europe/Berlin\"\n")
	cfg, err = config.Load(config.Options{Environ: map[string]string{}})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	loc, err := cfg.OrderLocation()
	if err != nil {
		t.Fatalf("OrderLocation: %v", err)
	}
	if loc.String() != "Europe/Berlin" {
		t.Errorf("order zone = %s, expected Europe/Berlin", loc)
	}

	cfg, err = config.Load(config.Options{Environ: map[string]string{"SHIFTBOOK_ORDERS_TIMEZONE": "UTC"}})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loc, _ := cfg.OrderLocation(); loc != time.UTC {
		t.Errorf("expected environment to select UTC, got %v", loc)
	}
}
