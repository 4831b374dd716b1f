// Package config loads shiftbook's configuration: built-in defaults, the TOML
// config file, an optional dotenv file and finally the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/amonks/shiftbook/businessday"
	"github.com/amonks/shiftbook/internal/kv"
	"github.com/amonks/shiftbook/internal/paths"
	"github.com/amonks/shiftbook/internal/validation"
	"github.com/amonks/shiftbook/settings"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// DefaultNamespace is the key prefix the browser version of the checklist
// used for its localStorage entries.
const DefaultNamespace = "UB2"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the merged configuration.
type Config struct {
	Store  Store  `toml:"store"`
	Day    Day    `toml:"day"`
	Log    Log    `toml:"log"`
	Orders Orders `toml:"orders"`

	// Now pins the clock to an RFC 3339 timestamp. Only settable from the
	// environment, for scripted runs.
	Now string `toml:"-" env:"SHIFTBOOK_NOW"`
}

// Store selects the store backend.
type Store struct {
	// Backend is one of file, sqlite or memory.
	Backend string `toml:"backend" env:"SHIFTBOOK_STORE"`
	// Path is the state directory. Empty means the default state directory.
	Path string `toml:"path" env:"SHIFTBOOK_STORE_PATH"`
	// Namespace prefixes every stored key.
	Namespace string `toml:"namespace" env:"SHIFTBOOK_NAMESPACE"`
}

// Day configures the business day policy.
type Day struct {
	// CutoverHour is the hour at which a new business day starts.
	CutoverHour int `toml:"cutover-hour" env:"SHIFTBOOK_CUTOVER_HOUR"`
	// Timezone is UTC, Local or an IANA zone name.
	Timezone string `toml:"timezone" env:"SHIFTBOOK_TIMEZONE"`
}

// Log configures diagnostics on stderr.
type Log struct {
	Level  string `toml:"level" env:"SHIFTBOOK_LOG_LEVEL"`
	Format string `toml:"format" env:"SHIFTBOOK_LOG_FORMAT"`
}

// Orders holds the default order recipients, used until they are changed
// with the settings commands.
type Orders struct {
	Recipients []string `toml:"recipients"`
	Patisserie []string `toml:"patisserie"`
	// Timezone is the zone calendar links are composed in: Local, UTC or an
	// IANA zone name.
	Timezone string `toml:"timezone" env:"SHIFTBOOK_ORDERS_TIMEZONE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	defaults := settings.DefaultRecipients()
	return &Config{
		Store: Store{Backend: kv.BackendFile, Namespace: DefaultNamespace},
		Day:   Day{CutoverHour: 0, Timezone: "UTC"},
		Log:   Log{Level: "warn", Format: "console"},
		Orders: Orders{
			Recipients: defaults.Recipients,
			Patisserie: defaults.Patisserie,
			Timezone:   "Local",
		},
	}
}

// Options controls where Load looks.
type Options struct {
	// Path is an explicit config file. It must exist when set.
	Path string
	// Environ replaces the process environment when non-nil.
	Environ map[string]string
}

// Load merges the default config file, an explicit file, the dotenv file and
// the environment, in that order, and validates the result.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	globalPath, err := paths.DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	if err := decodeFile(cfg, globalPath, false); err != nil {
		return nil, err
	}
	if opts.Path != "" && opts.Path != globalPath {
		if err := decodeFile(cfg, opts.Path, true); err != nil {
			return nil, err
		}
	}

	environ, err := environment(opts.Environ)
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrInvalid, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeFile overlays the keys defined in path onto cfg.
func decodeFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("%w: %s: unknown keys %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	return nil
}

// environment returns the variables visible to env.Parse: the dotenv file,
// overridden by the real environment. Empty variables count as unset.
func environment(override map[string]string) (map[string]string, error) {
	merged := make(map[string]string)

	envPath, err := paths.DefaultEnvPath()
	if err != nil {
		return nil, err
	}
	fileVars, err := godotenv.Read(envPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read env file %s: %w", envPath, err)
	}
	for key, value := range fileVars {
		merged[key] = value
	}

	if override != nil {
		for key, value := range override {
			if value != "" {
				merged[key] = value
			}
		}
		return merged, nil
	}
	for _, entry := range os.Environ() {
		if key, value, ok := strings.Cut(entry, "="); ok && value != "" {
			merged[key] = value
		}
	}
	return merged, nil
}

func (c *Config) normalize() {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = kv.BackendFile
	}
	c.Store.Path = strings.TrimSpace(c.Store.Path)
	c.Store.Namespace = strings.TrimSpace(c.Store.Namespace)
	c.Day.Timezone = strings.TrimSpace(c.Day.Timezone)
	c.Orders.Timezone = strings.TrimSpace(c.Orders.Timezone)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Now = strings.TrimSpace(c.Now)
}

// Validate checks every field that could make later work fail.
func (c *Config) Validate() error {
	if !validation.Contains(kv.ValidBackends(), c.Store.Backend) {
		return fmt.Errorf("%w: store backend %q (want %s)", ErrInvalid, c.Store.Backend, validation.FormatValidValues(kv.ValidBackends()))
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := c.Clock(); err != nil {
		return err
	}
	if _, err := c.OrderLocation(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log format %q (want console or json)", ErrInvalid, c.Log.Format)
	}
	return nil
}

// Location resolves the business day timezone. Empty means UTC.
func (c *Config) Location() (*time.Location, error) {
	return resolveLocation("timezone", c.Day.Timezone, time.UTC)
}

// OrderLocation resolves the zone order calendar links are composed in.
// Empty means the local zone.
func (c *Config) OrderLocation() (*time.Location, error) {
	return resolveLocation("orders timezone", c.Orders.Timezone, time.Local)
}

func resolveLocation(field, name string, fallback *time.Location) (*time.Location, error) {
	switch name {
	case "":
		return fallback, nil
	case "UTC":
		return time.UTC, nil
	case "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q: %v", ErrInvalid, field, name, err)
	}
	return loc, nil
}

// Policy returns the business day policy.
func (c *Config) Policy() (businessday.Policy, error) {
	loc, err := c.Location()
	if err != nil {
		return businessday.Policy{}, err
	}
	policy := businessday.Policy{CutoverHour: c.Day.CutoverHour, Location: loc}
	if err := policy.Validate(); err != nil {
		return businessday.Policy{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return policy, nil
}

// Clock returns the time source: the pinned time when SHIFTBOOK_NOW is set,
// otherwise time.Now.
func (c *Config) Clock() (func() time.Time, error) {
	if c.Now == "" {
		return time.Now, nil
	}
	pinned, err := time.Parse(time.RFC3339, c.Now)
	if err != nil {
		return nil, fmt.Errorf("%w: SHIFTBOOK_NOW %q: expected RFC 3339", ErrInvalid, c.Now)
	}
	return func() time.Time { return pinned }, nil
}

// StateDir returns the configured store directory or the default.
func (c *Config) StateDir() (string, error) {
	return paths.ResolveWithDefault(c.Store.Path, paths.DefaultStateDir)
}

// DefaultRecipients returns the configured default order recipients.
func (c *Config) DefaultRecipients() settings.Recipients {
	return settings.Recipients{
		Recipients: append([]string{}, c.Orders.Recipients...),
		Patisserie: append([]string{}, c.Orders.Patisserie...),
	}
}
