package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alee724/scheduler/internal/booking"
)

func TestParseCatalog(t *testing.T) {
	data := []byte(`
services:
  - name: Cut
    price: 30
    minutes: 30
  - name: Color
    price: 80
    minutes: 75
    abbreviation: Clr
`)
	services, err := parseCatalog(data)
	if err != nil {
		t.Fatalf("parseCatalog: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("got %d services, want 2", len(services))
	}
	if c := services[1]; c.Name != "Color" || c.Price != 80 || c.Duration.String() != "01:15" || c.Abbrev != "Clr" {
		t.Errorf("second service = %+v", c)
	}
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"not yaml", "services: [", nil},
		{"empty", "services: []", nil},
		{"zero minutes", "services:\n  - name: Cut\n    price: 30\n", booking.ErrInvalidDuration},
		{"negative price", "services:\n  - name: Cut\n    price: -1\n    minutes: 30\n", booking.ErrNegativePrice},
		{"long abbreviation", "services:\n  - name: Cut\n    minutes: 30\n    abbreviation: Haircut\n", booking.ErrAbbrevTooLong},
		{"no name", "services:\n  - minutes: 30\n", booking.ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCatalog([]byte(tt.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestServiceCommands(t *testing.T) {
	cfg := testConfig(t)

	catalog := filepath.Join(t.TempDir(), "catalog.yaml")
	yaml := "services:\n  - name: Cut\n    price: 30\n    minutes: 30\n  - name: Perm\n    price: 120\n    minutes: 120\n    abbreviation: Prm\n"
	if err := os.WriteFile(catalog, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, cfg, "service", "import", catalog)
	if !strings.Contains(out, "Imported 2 service(s)") {
		t.Errorf("import output = %q", out)
	}

	// Re-adding by name updates the entry.
	mustRun(t, cfg, "service", "add", "Cut", "--price", "35", "--minutes", "45")

	out = mustRun(t, cfg, "service", "ls")
	if !strings.Contains(out, "$35") || !strings.Contains(out, "45m") || !strings.Contains(out, "2h") {
		t.Errorf("service list:\n%s", out)
	}

	mustRun(t, cfg, "service", "rm", "Perm")
	if _, err := run(t, cfg, "service", "rm", "Perm"); !errors.Is(err, booking.ErrServiceNotFound) {
		t.Errorf("removing twice: err = %v, want ErrServiceNotFound", err)
	}
	if _, err := run(t, cfg, "service", "add", "Trim", "--minutes", "0"); !errors.Is(err, booking.ErrInvalidDuration) {
		t.Errorf("zero minutes: err = %v, want ErrInvalidDuration", err)
	}
	if _, err := run(t, cfg, "add", "Ada", "Lovelace", "-s", "Perm"); !errors.Is(err, booking.ErrServiceNotFound) {
		t.Errorf("booking a removed service: err = %v, want ErrServiceNotFound", err)
	}
}

func TestEmployeeCommands(t *testing.T) {
	cfg := testConfig(t)
	seedCatalog(t, cfg)

	if _, err := run(t, cfg, "employee", "add", "Amy"); !errors.Is(err, booking.ErrDuplicateEmployee) {
		t.Errorf("duplicate employee: err = %v, want ErrDuplicateEmployee", err)
	}

	out := mustRun(t, cfg, "staff", "ls")
	if !strings.Contains(out, "0  Amy") || !strings.Contains(out, "1  Bea") {
		t.Errorf("employee list:\n%s", out)
	}

	// A saved sheet keeps its columns when the roster changes.
	mustRun(t, cfg, "column", "add", "Cy", "--date", "2025-01-07")
	mustRun(t, cfg, "employee", "rm", "Bea")

	out = mustRun(t, cfg, "show", "--width", "80", "--date", "2025-01-07")
	if !strings.Contains(out, "1 Bea") || !strings.Contains(out, "2 Cy") {
		t.Errorf("saved sheet header:\n%s", out)
	}
	out = mustRun(t, cfg, "show", "--width", "80", "--date", "2025-01-08")
	if strings.Contains(out, "Bea") || !strings.Contains(out, "day off") {
		t.Errorf("new sheet after roster change:\n%s", out)
	}
}

func TestColumnCommands(t *testing.T) {
	cfg := testConfig(t)
	seedCatalog(t, cfg)
	day := "--date=2025-01-07"

	mustRun(t, cfg, "add", "Ada", "Lovelace", "-s", "Cut", "--col", "Bea", "--at", "09:00", day)

	out := mustRun(t, cfg, "column", "rename", "bea", "Beatrice", day)
	if !strings.Contains(out, "Renamed column 1 to Beatrice") {
		t.Errorf("rename output = %q", out)
	}
	if _, err := run(t, cfg, "column", "rename", "Amy", "  ", day); err == nil {
		t.Error("expected an empty label to be rejected")
	}
	if _, err := run(t, cfg, "column", "rm", "Beatrice", day); err == nil {
		t.Error("expected removing a column with bookings to fail")
	}

	out = mustRun(t, cfg, "column", "rm", "Amy", day)
	if !strings.Contains(out, "Removed column Amy") {
		t.Errorf("remove output = %q", out)
	}
	raw := mustRun(t, cfg, "show", "--raw", day)
	if !strings.HasPrefix(raw, "c\n0\n-\n") {
		t.Errorf("raw sheet after removing column 0:\n%s", raw)
	}
}
