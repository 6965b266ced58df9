package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alee724/scheduler/internal/booking"
	"github.com/alee724/scheduler/internal/clock"
	"github.com/alee724/scheduler/internal/db"
	"github.com/alee724/scheduler/internal/desk"
	"github.com/alee724/scheduler/internal/sheet"
	"github.com/alee724/scheduler/internal/store"
)

var window = desk.Window{
	StartHour: 9,
	EndHour:   17,
	Interval:  15,
	Workdays:  []string{"tuesday", "wednesday", "thursday", "friday", "saturday"},
}

type env struct {
	dir    string
	repo   *db.SQLite
	sheets *store.FileStore
	desk   *desk.Desk
}

// openEnv opens the database and sheet store under dir, as the CLI would
// on every start.
func openEnv(t *testing.T, dir string) *env {
	t.Helper()
	repo, err := db.New(filepath.Join(dir, "scheduler.db"))
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	sheets, err := store.NewFileStore(filepath.Join(dir, "sheets"))
	if err != nil {
		t.Fatalf("failed to open sheet store: %v", err)
	}
	return &env{dir: dir, repo: repo, sheets: sheets, desk: desk.New(repo, sheets, window, nil)}
}

// mustParseDate parses a date string or fails the test.
func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("failed to parse date %q: %v", s, err)
	}
	return date
}

// seed adds two employees and a small catalog.
func seed(t *testing.T, e *env) {
	t.Helper()
	ctx := context.Background()
	for _, name := range []string{"Amy", "Bea"} {
		if _, err := e.repo.AddEmployee(ctx, name); err != nil {
			t.Fatalf("failed to add employee: %v", err)
		}
	}
	for _, s := range []struct {
		name    string
		price   int
		minutes int
		abbrev  string
	}{
		{"Cut", 30, 30, ""},
		{"Color", 80, 60, "Clr"},
		{"Beard", 15, 10, "Brd"},
	} {
		svc, err := booking.NewService(s.name, s.price, clock.FromMinutes(s.minutes), s.abbrev)
		if err != nil {
			t.Fatalf("invalid service: %v", err)
		}
		if err := e.repo.SaveService(ctx, svc); err != nil {
			t.Fatalf("failed to save service: %v", err)
		}
	}
}

func newBooking(t *testing.T, e *env, first, last string, services ...string) *booking.Booking {
	t.Helper()
	b, err := e.desk.NewBooking(context.Background(), first, last, "", services)
	if err != nil {
		t.Fatalf("failed to build booking: %v", err)
	}
	return b
}

// TestFullWorkday runs a day from an empty sheet to the closing totals and
// checks that everything survives a restart.
func TestFullWorkday(t *testing.T) {
	dir := t.TempDir()
	e := openEnv(t, dir)
	seed(t, e)
	ctx := context.Background()
	day := mustParseDate(t, "2025-05-06")

	// 1. A new sheet has a column per employee and is not saved yet.
	sh, created, err := e.desk.OpenSheet(ctx, day)
	if err != nil {
		t.Fatalf("failed to open sheet: %v", err)
	}
	if !created || sh.Len() != 2 || sh.RowCount() != 32 {
		t.Fatalf("new sheet: created=%v columns=%d rows=%d", created, sh.Len(), sh.RowCount())
	}
	if e.sheets.Exists(day) {
		t.Error("opening a day should not save its sheet")
	}

	// 2. Book two customers and a walk-in from the queue.
	ada := newBooking(t, e, "Ada", "Lovelace", "Cut", "Color")
	if err := e.desk.Book(ctx, day, 0, 4, ada); err != nil {
		t.Fatalf("failed to book: %v", err)
	}
	alan := newBooking(t, e, "Alan", "Turing", "Beard")
	if err := e.desk.Book(ctx, day, 0, 10, alan); err != nil {
		t.Fatalf("failed to book after Ada: %v", err)
	}
	grace := newBooking(t, e, "Grace", "Hopper", "Cut")
	entry, err := e.desk.QueueCustomer(ctx, grace)
	if err != nil {
		t.Fatalf("failed to queue: %v", err)
	}
	if err := e.desk.Seat(ctx, day, entry.ID, 1, 0); err != nil {
		t.Fatalf("failed to seat: %v", err)
	}
	if queue, _ := e.repo.ListQueue(ctx); len(queue) != 0 {
		t.Errorf("queue after seating: %d entries", len(queue))
	}

	// 3. Overlaps are refused and leave the saved sheet alone.
	late := newBooking(t, e, "Late", "Comer", "Color")
	if err := e.desk.Book(ctx, day, 0, 8, late); !errors.Is(err, sheet.ErrSlotOccupied) {
		t.Errorf("overlapping booking: err = %v, want ErrSlotOccupied", err)
	}

	// 4. Move Ada to Bea and serve her.
	_, err = e.desk.Edit(ctx, day, func(sh *sheet.Sheet) error {
		if err := sh.MoveCustomer(0, 5, 1, 4); err != nil {
			return err
		}
		return sh.SetServed(1, 4, true)
	})
	if err != nil {
		t.Fatalf("failed to move and serve: %v", err)
	}

	// 5. Restart: reopen everything from disk.
	e2 := openEnv(t, dir)
	sh, created, err = e2.desk.OpenSheet(ctx, day)
	if err != nil {
		t.Fatalf("failed to reload sheet: %v", err)
	}
	if created {
		t.Fatal("reloaded sheet reported as new")
	}
	moved, err := sh.Customer(1, 9)
	if err != nil || moved == nil || moved.Name() != "Ada Lovelace" || !moved.Served {
		t.Fatalf("Ada after reload: %+v, %v", moved, err)
	}
	if moved.ID != ada.ID {
		t.Error("booking identity changed across save and load")
	}
	if b, _ := sh.Customer(0, 4); b != nil {
		t.Errorf("old slot still holds %s", b.Name())
	}

	summary, err := e2.desk.Summary(ctx, day)
	if err != nil {
		t.Fatalf("failed to total: %v", err)
	}
	if summary.Total.Bookings != 3 || summary.Total.Gross != 155 || summary.Total.ServedGross != 110 {
		t.Errorf("totals = %+v", summary.Total)
	}

	customers, err := e2.repo.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("failed to list customers: %v", err)
	}
	if len(customers) != 4 {
		t.Errorf("customer directory has %d entries, want 4", len(customers))
	}
}

func TestFindSlot_AcrossColumns(t *testing.T) {
	e := openEnv(t, t.TempDir())
	seed(t, e)
	ctx := context.Background()
	day := mustParseDate(t, "2025-05-07")

	// Fill the first hour of both columns.
	for col := 0; col < 2; col++ {
		b := newBooking(t, e, "Early", "Bird", "Color")
		if err := e.desk.Book(ctx, day, col, 0, b); err != nil {
			t.Fatalf("failed to book: %v", err)
		}
	}

	sh, _, err := e.desk.OpenSheet(ctx, day)
	if err != nil {
		t.Fatal(err)
	}
	b := newBooking(t, e, "Ada", "Lovelace", "Cut")
	col, row, err := desk.FindSlot(sh, b, sh.Start())
	if err != nil {
		t.Fatalf("FindSlot: %v", err)
	}
	if col != 0 || row != 4 {
		t.Errorf("FindSlot = (%d, %d), want (0, 4)", col, row)
	}

	_, _, err = desk.FindSlot(sh, b, clock.MustNew(16, 45))
	if !errors.Is(err, desk.ErrNoRoom) {
		t.Errorf("FindSlot at closing: err = %v, want ErrNoRoom", err)
	}
}

func TestCorruptSheetIsReported(t *testing.T) {
	e := openEnv(t, t.TempDir())
	ctx := context.Background()
	day := mustParseDate(t, "2025-05-08")

	if err := os.WriteFile(e.sheets.Path(day), []byte(`{"start": 9, "end": 17, "interval": 15, "columns": [{"label": "Amy", "items": [[40, {}, 2]]}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := e.desk.OpenSheet(ctx, day); err == nil {
		t.Fatal("expected a corrupt sheet to fail to open")
	}

	// Other days are unaffected.
	if _, err := e.desk.Summary(ctx, mustParseDate(t, "2025-05-09")); !errors.Is(err, store.ErrSheetNotFound) {
		t.Errorf("summary of an unsaved day: err = %v, want ErrSheetNotFound", err)
	}
}
