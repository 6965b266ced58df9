package ui

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alee724/scheduler/internal/ledger"
	"github.com/alee724/scheduler/internal/store"
)

func TestGross(t *testing.T) {
	cfg := testConfig(t)
	seedCatalog(t, cfg)
	mustRun(t, cfg, "add", "Ada", "Lovelace", "-s", "Cut,Color", "--col", "Amy", "--at", "09:00", "--date", "2025-01-07")
	mustRun(t, cfg, "add", "Alan", "Turing", "-s", "Cut", "--col", "Bea", "--at", "09:00", "--date", "2025-01-07")
	mustRun(t, cfg, "serve", "Bea", "09:00", "--date", "2025-01-07")
	mustRun(t, cfg, "add", "Grace", "Hopper", "-s", "Color", "--col", "Amy", "--at", "12:00", "--date", "2025-01-11")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"day", []string{"gross", "--date", "2025-01-07"}, []string{"Amy", "Bea", "$140", "$30"}},
		{"week", []string{"totals", "-w", "--date", "2025-01-08"}, []string{"$220"}},
		{"range", []string{"gross", "--from", "2025-01-08", "--to", "2025-01-12"}, []string{"$80"}},
		{"single day in range", []string{"gross", "--to", "2025-01-07"}, []string{"$140"}},
		{"no sheet", []string{"gross", "--date", "2025-01-09"}, []string{"No bookings."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustRun(t, cfg, append(tt.args, "--no-color")...)
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output is missing %q:\n%s", want, out)
				}
			}
		})
	}

	if _, err := run(t, cfg, "gross", "--week", "--from", "2025-01-01"); err == nil {
		t.Error("expected --week and --from to be mutually exclusive")
	}
}

func TestGrossFromFile(t *testing.T) {
	cfg := testConfig(t)
	seedCatalog(t, cfg)
	mustRun(t, cfg, "add", "Ada", "Lovelace", "-s", "Cut,Color", "--col", "Amy", "--at", "09:00", "--date", "2025-01-07")

	out := mustRun(t, cfg, "export", "--date", "2025-01-07", "--pretty")
	file := filepath.Join(t.TempDir(), "sheet.json")
	if err := os.WriteFile(file, []byte(out), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := mustRun(t, cfg, "gross", "--file", file); !strings.Contains(got, "$110") {
		t.Errorf("gross --file = %q", got)
	}

	if err := os.WriteFile(file, []byte(`{"columns": [{"items": [[0]]}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, cfg, "gross", "--file", file); !errors.Is(err, ledger.ErrBadSheetDocument) {
		t.Errorf("bad document: err = %v, want ErrBadSheetDocument", err)
	}
}

func TestExport(t *testing.T) {
	cfg := testConfig(t)
	seedCatalog(t, cfg)

	if _, err := run(t, cfg, "export", "--date", "2025-01-07"); !errors.Is(err, store.ErrSheetNotFound) {
		t.Errorf("exporting an unsaved day: err = %v, want ErrSheetNotFound", err)
	}

	mustRun(t, cfg, "add", "Ada", "Lovelace", "-s", "Cut", "--col", "Amy", "--at", "09:00", "--date", "2025-01-07")
	mustRun(t, cfg, "column", "add", "Cy", "--date", "2025-01-11")

	out := mustRun(t, cfg, "export", "--date", "2025-01-07")
	if !json.Valid([]byte(out)) {
		t.Fatalf("export is not JSON:\n%s", out)
	}
	if !strings.Contains(out, "Lovelace") {
		t.Errorf("export is missing the booking:\n%s", out)
	}

	out = mustRun(t, cfg, "export", "--list")
	want := "2025-01-07  Tuesday\n2025-01-11  Saturday\n"
	if out != want {
		t.Errorf("export --list = %q, want %q", out, want)
	}

	if _, err := run(t, cfg, "export", "--out", "x.json", "--clipboard"); err == nil {
		t.Error("expected --out and --clipboard to be mutually exclusive")
	}
}
