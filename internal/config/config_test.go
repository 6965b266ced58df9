package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alee724/scheduler/internal/sheet"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Sheet.StartHour != 8 || cfg.Sheet.EndHour != 20 || cfg.Sheet.Interval != 15 {
		t.Errorf("unexpected default window: %+v", cfg.Sheet)
	}
	if len(cfg.Sheet.Workdays) != 5 {
		t.Errorf("expected 5 workdays, got %d", len(cfg.Sheet.Workdays))
	}
	if cfg.UI.Theme != "frappe" {
		t.Errorf("expected theme frappe, got %s", cfg.UI.Theme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Sheet.StartHour != 8 {
		t.Errorf("expected default start_hour, got %d", cfg.Sheet.StartHour)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[sheet]
start_hour = 9
end_hour = 18
interval = 30
workdays = ["Monday", "tuesday", "wednesday"]

[storage]
db_path = "/tmp/test.db"
sheets_dir = "/tmp/sheets"

[ui]
theme = "latte"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Sheet.StartHour != 9 || cfg.Sheet.EndHour != 18 || cfg.Sheet.Interval != 30 {
		t.Errorf("unexpected window: %+v", cfg.Sheet)
	}
	if len(cfg.Sheet.Workdays) != 3 || cfg.Sheet.Workdays[0] != "monday" {
		t.Errorf("unexpected workdays: %v", cfg.Sheet.Workdays)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Storage.SheetsDir != "/tmp/sheets" {
		t.Errorf("expected sheets_dir /tmp/sheets, got %s", cfg.Storage.SheetsDir)
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("expected theme latte, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_InvalidToml(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[sheet\nstart_hour = "), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[sheet]
start_hour = 9
end_hour = 18

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("SCHEDULER_START_HOUR", "10")
	t.Setenv("SCHEDULER_INTERVAL", "20")
	t.Setenv("SCHEDULER_SHEETS_DIR", "/tmp/env-sheets")
	t.Setenv("SCHEDULER_UI_THEME", "mocha")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Sheet.StartHour != 10 {
		t.Errorf("expected start_hour 10 from env, got %d", cfg.Sheet.StartHour)
	}
	if cfg.Sheet.EndHour != 18 {
		t.Errorf("expected end_hour 18 from file, got %d", cfg.Sheet.EndHour)
	}
	if cfg.Sheet.Interval != 20 {
		t.Errorf("expected interval 20 from env, got %d", cfg.Sheet.Interval)
	}
	if cfg.Storage.SheetsDir != "/tmp/env-sheets" {
		t.Errorf("expected sheets_dir from env, got %s", cfg.Storage.SheetsDir)
	}
	if cfg.UI.Theme != "mocha" {
		t.Errorf("expected theme mocha from env, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_BadEnvInteger(t *testing.T) {
	t.Setenv("SCHEDULER_END_HOUR", "late")
	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected error for non-integer env override")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "start after end", mutate: func(c *Config) { c.Sheet.StartHour = 18; c.Sheet.EndHour = 9 }, wantErr: sheet.ErrInvalidArgument},
		{name: "end past 23", mutate: func(c *Config) { c.Sheet.EndHour = 24 }, wantErr: sheet.ErrInvalidArgument},
		{name: "interval does not divide", mutate: func(c *Config) { c.Sheet.StartHour = 8; c.Sheet.EndHour = 9; c.Sheet.Interval = 25 }, wantErr: sheet.ErrInvalidArgument},
		{name: "zero interval", mutate: func(c *Config) { c.Sheet.Interval = 0 }, wantErr: sheet.ErrInvalidArgument},
		{name: "no workdays", mutate: func(c *Config) { c.Sheet.Workdays = nil }},
		{name: "invalid workday", mutate: func(c *Config) { c.Sheet.Workdays = []string{"funday"} }},
		{name: "empty db path", mutate: func(c *Config) { c.Storage.DBPath = "" }},
		{name: "empty sheets dir", mutate: func(c *Config) { c.Storage.SheetsDir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsWorkday(t *testing.T) {
	cfg := Default()

	tests := []struct {
		day  string
		want bool
	}{
		{"tuesday", true},
		{"Saturday", true},
		{"SUNDAY", false},
		{"monday", false},
	}

	for _, tc := range tests {
		if got := cfg.IsWorkday(tc.day); got != tc.want {
			t.Errorf("IsWorkday(%q) = %v, want %v", tc.day, got, tc.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Sheet.StartHour = 7
	cfg.Sheet.EndHour = 15
	cfg.Sheet.Workdays = []string{"monday", "tuesday", "wednesday", "thursday"}
	cfg.Storage.SheetsDir = filepath.Join(tmpDir, "sheets")

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Sheet.StartHour != 7 || loaded.Sheet.EndHour != 15 {
		t.Errorf("unexpected window after reload: %+v", loaded.Sheet)
	}
	if len(loaded.Sheet.Workdays) != 4 {
		t.Errorf("expected 4 workdays, got %d", len(loaded.Sheet.Workdays))
	}
	if loaded.Storage.SheetsDir != cfg.Storage.SheetsDir {
		t.Errorf("sheets_dir = %s, want %s", loaded.Storage.SheetsDir, cfg.Storage.SheetsDir)
	}
}
