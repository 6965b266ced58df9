package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alee724/scheduler/internal/booking"
	"github.com/alee724/scheduler/internal/clock"
)

func TestSaveService(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cut := mustService(t, "Haircut", 30, 30, "HC")
	if err := repo.SaveService(ctx, cut); err != nil {
		t.Fatalf("SaveService failed: %v", err)
	}

	got, err := repo.GetService(ctx, "haircut")
	if err != nil {
		t.Fatalf("GetService failed: %v", err)
	}
	if !got.Equal(cut) {
		t.Errorf("got %+v, want %+v", got, cut)
	}

	cut.Price = 35
	cut.Duration = clock.FromMinutes(45)
	if err := repo.SaveService(ctx, cut); err != nil {
		t.Fatalf("SaveService update failed: %v", err)
	}
	got, _ = repo.GetService(ctx, "Haircut")
	if got.Price != 35 || got.Duration.TotalMinutes() != 45 {
		t.Errorf("update not applied: %+v", got)
	}

	services, err := repo.ListServices(ctx)
	if err != nil {
		t.Fatalf("ListServices failed: %v", err)
	}
	if len(services) != 1 {
		t.Errorf("expected upsert to keep one service, got %d", len(services))
	}
}

func TestSaveService_Invalid(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.SaveService(context.Background(), booking.Service{Name: "Free", Price: -1, Duration: clock.FromMinutes(10)})
	if !errors.Is(err, booking.ErrNegativePrice) {
		t.Errorf("expected ErrNegativePrice, got %v", err)
	}
}

func TestListServices_Ordered(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"wash", "Color", "Blowdry"} {
		if err := repo.SaveService(ctx, mustService(t, name, 10, 15, "")); err != nil {
			t.Fatalf("SaveService(%q) failed: %v", name, err)
		}
	}

	services, err := repo.ListServices(ctx)
	if err != nil {
		t.Fatalf("ListServices failed: %v", err)
	}
	want := []string{"Blowdry", "Color", "wash"}
	for i, s := range services {
		if s.Name != want[i] {
			t.Errorf("services[%d] = %q, want %q", i, s.Name, want[i])
		}
	}
}

func TestDeleteService(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveService(ctx, mustService(t, "Wash", 10, 15, "W")); err != nil {
		t.Fatalf("SaveService failed: %v", err)
	}
	if err := repo.DeleteService(ctx, "wash"); err != nil {
		t.Fatalf("DeleteService failed: %v", err)
	}
	if _, err := repo.GetService(ctx, "Wash"); !errors.Is(err, booking.ErrServiceNotFound) {
		t.Errorf("expected ErrServiceNotFound, got %v", err)
	}
	if err := repo.DeleteService(ctx, "Wash"); !errors.Is(err, booking.ErrServiceNotFound) {
		t.Errorf("expected ErrServiceNotFound on second delete, got %v", err)
	}
}

func TestSaveCustomer(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ada := &booking.Customer{First: "Ada", Last: "Lovelace", Phone: "5551234567"}
	created, err := repo.SaveCustomer(ctx, ada)
	if err != nil {
		t.Fatalf("SaveCustomer failed: %v", err)
	}
	if !created || ada.ID == 0 {
		t.Errorf("created=%v id=%d", created, ada.ID)
	}

	again := &booking.Customer{First: "Ada", Last: "Lovelace", Phone: "5551234567"}
	created, err = repo.SaveCustomer(ctx, again)
	if err != nil {
		t.Fatalf("second SaveCustomer failed: %v", err)
	}
	if created {
		t.Error("expected existing customer to be reused")
	}
	if again.ID != ada.ID {
		t.Errorf("existing customer id = %d, want %d", again.ID, ada.ID)
	}

	sibling := &booking.Customer{First: "Byron", Last: "Lovelace", Phone: "5551234567"}
	if created, _ := repo.SaveCustomer(ctx, sibling); !created {
		t.Error("a different name with the same phone is a new customer")
	}

	customers, err := repo.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("ListCustomers failed: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}
	if customers[0].First != "Ada" || customers[1].First != "Byron" {
		t.Errorf("unexpected order: %s, %s", customers[0].Name(), customers[1].Name())
	}
	if customers[0].CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestSearchCustomers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, c := range []*booking.Customer{
		{First: "Ada", Last: "Lovelace", Phone: "5551234567"},
		{First: "Grace", Last: "Hopper", Phone: "5559876543"},
		{First: "Alan", Last: "Turing", Phone: "0000000000"},
	} {
		if _, err := repo.SaveCustomer(ctx, c); err != nil {
			t.Fatalf("SaveCustomer failed: %v", err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{query: "hop", want: 1},
		{query: "a", want: 3},
		{query: "555", want: 2},
		{query: "Ada Love", want: 1},
		{query: "nobody", want: 0},
	}
	for _, tt := range tests {
		got, err := repo.SearchCustomers(ctx, tt.query)
		if err != nil {
			t.Fatalf("SearchCustomers(%q) failed: %v", tt.query, err)
		}
		if len(got) != tt.want {
			t.Errorf("SearchCustomers(%q) returned %d, want %d", tt.query, len(got), tt.want)
		}
	}
}

func TestEmployees(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Amy", "Bea", "Cal"} {
		if _, err := repo.AddEmployee(ctx, name); err != nil {
			t.Fatalf("AddEmployee(%q) failed: %v", name, err)
		}
	}
	if _, err := repo.AddEmployee(ctx, "amy"); !errors.Is(err, booking.ErrDuplicateEmployee) {
		t.Errorf("expected ErrDuplicateEmployee, got %v", err)
	}
	if _, err := repo.AddEmployee(ctx, " "); !errors.Is(err, booking.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}

	if err := repo.RemoveEmployee(ctx, "Bea"); err != nil {
		t.Fatalf("RemoveEmployee failed: %v", err)
	}
	if err := repo.RemoveEmployee(ctx, "Bea"); !errors.Is(err, booking.ErrEmployeeNotFound) {
		t.Errorf("expected ErrEmployeeNotFound, got %v", err)
	}

	employees, err := repo.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("ListEmployees failed: %v", err)
	}
	if len(employees) != 2 || employees[0].Name != "Amy" || employees[1].Name != "Cal" {
		t.Errorf("ListEmployees() = %+v", employees)
	}
}

func TestQueue(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	wash := mustService(t, "Wash", 10, 15, "W")
	first, _ := booking.New("Ada", "Lovelace", "", []booking.Service{wash})
	second, _ := booking.New("Grace", "Hopper", "", []booking.Service{wash})

	e1, err := repo.Enqueue(ctx, first)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if _, err := repo.Enqueue(ctx, second); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	entries, err := repo.ListQueue(ctx)
	if err != nil {
		t.Fatalf("ListQueue failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Booking.First != "Ada" {
		t.Fatalf("unexpected queue: %+v", entries)
	}

	got, err := repo.GetQueueEntry(ctx, e1.ID)
	if err != nil {
		t.Fatalf("GetQueueEntry failed: %v", err)
	}
	if !got.Booking.Equal(first) || !got.Booking.HasService(wash) {
		t.Errorf("queued booking mismatch: %+v", got.Booking)
	}

	if err := repo.Dequeue(ctx, e1.ID); err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if _, err := repo.GetQueueEntry(ctx, e1.ID); !errors.Is(err, booking.ErrQueueEntryNotFound) {
		t.Errorf("expected ErrQueueEntryNotFound, got %v", err)
	}
	if err := repo.Dequeue(ctx, e1.ID); !errors.Is(err, booking.ErrQueueEntryNotFound) {
		t.Errorf("expected ErrQueueEntryNotFound on second dequeue, got %v", err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	ctx := context.Background()

	repo, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.SaveService(ctx, mustService(t, "Wash", 10, 15, "W")); err != nil {
		t.Fatalf("SaveService failed: %v", err)
	}
	_ = repo.Close()

	repo, err = New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = repo.Close() }()

	if _, err := repo.GetService(ctx, "Wash"); err != nil {
		t.Errorf("service lost after reopen: %v", err)
	}
}

func mustService(t *testing.T, name string, price, minutes int, abbrev string) booking.Service {
	t.Helper()
	s, err := booking.NewService(name, price, clock.FromMinutes(minutes), abbrev)
	if err != nil {
		t.Fatalf("NewService(%q) failed: %v", name, err)
	}
	return s
}

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}
