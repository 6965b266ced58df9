// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/alee724/scheduler/internal/sheet"
)

// Config holds the application configuration.
type Config struct {
	Sheet   SheetConfig   `toml:"sheet"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
}

// SheetConfig holds the board window used for new sheets.
type SheetConfig struct {
	StartHour int      `toml:"start_hour"` // e.g., 8
	EndHour   int      `toml:"end_hour"`   // e.g., 20
	Interval  int      `toml:"interval"`   // slot length in minutes
	Workdays  []string `toml:"workdays"`   // e.g., ["tuesday", ..., "saturday"]
}

// StorageConfig holds database and sheet file locations.
type StorageConfig struct {
	DBPath    string `toml:"db_path"`
	SheetsDir string `toml:"sheets_dir"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Sheet: SheetConfig{
			StartHour: 8,
			EndHour:   20,
			Interval:  15,
			Workdays:  []string{"tuesday", "wednesday", "thursday", "friday", "saturday"},
		},
		Storage: StorageConfig{
			DBPath:    filepath.Join(dataDir(), "scheduler.db"),
			SheetsDir: filepath.Join(dataDir(), "sheets"),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "scheduler")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "scheduler", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Storage.SheetsDir = expandPath(cfg.Storage.SheetsDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies SCHEDULER_* environment variables on top of the
// file config.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"SCHEDULER_START_HOUR", &cfg.Sheet.StartHour},
		{"SCHEDULER_END_HOUR", &cfg.Sheet.EndHour},
		{"SCHEDULER_INTERVAL", &cfg.Sheet.Interval},
	}
	for _, o := range ints {
		v := os.Getenv(o.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", o.key, v)
		}
		*o.dst = n
	}

	if v := os.Getenv("SCHEDULER_WORKDAYS"); v != "" {
		cfg.Sheet.Workdays = strings.Split(v, ",")
	}
	if v := os.Getenv("SCHEDULER_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("SCHEDULER_SHEETS_DIR"); v != "" {
		cfg.Storage.SheetsDir = v
	}
	if v := os.Getenv("SCHEDULER_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := sheet.New(c.Sheet.StartHour, c.Sheet.EndHour, c.Sheet.Interval); err != nil {
		return fmt.Errorf("sheet window: %w", err)
	}
	if len(c.Sheet.Workdays) == 0 {
		return errors.New("at least one workday must be configured")
	}
	for i, day := range c.Sheet.Workdays {
		day = strings.ToLower(strings.TrimSpace(day))
		if !validWeekdays[day] {
			return fmt.Errorf("invalid workday: %s", c.Sheet.Workdays[i])
		}
		c.Sheet.Workdays[i] = day
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if c.Storage.SheetsDir == "" {
		return errors.New("sheets_dir must be set")
	}
	return nil
}

var validWeekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

// IsWorkday returns true if the given weekday name is a configured workday.
func (c *Config) IsWorkday(weekday string) bool {
	weekday = strings.ToLower(weekday)
	for _, d := range c.Sheet.Workdays {
		if strings.ToLower(d) == weekday {
			return true
		}
	}
	return false
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
