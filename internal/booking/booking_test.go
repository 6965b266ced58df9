package booking

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/alee724/scheduler/internal/clock"
)

func mustService(t *testing.T, name string, price, minutes int, abbrev string) Service {
	t.Helper()
	s, err := NewService(name, price, clock.FromMinutes(minutes), abbrev)
	if err != nil {
		t.Fatalf("NewService(%q) failed: %v", name, err)
	}
	return s
}

func TestNewService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		svc     string
		price   int
		minutes int
		abbrev  string
		wantErr error
	}{
		{name: "valid", svc: "Haircut", price: 30, minutes: 30, abbrev: "HC"},
		{name: "empty name", svc: "  ", price: 30, minutes: 30, wantErr: ErrEmptyName},
		{name: "negative price", svc: "Haircut", price: -1, minutes: 30, wantErr: ErrNegativePrice},
		{name: "zero duration", svc: "Haircut", price: 30, minutes: 0, wantErr: ErrInvalidDuration},
		{name: "long abbreviation", svc: "Haircut", price: 30, minutes: 30, abbrev: "HAIRCT", wantErr: ErrAbbrevTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.svc, tt.price, clock.FromMinutes(tt.minutes), tt.abbrev)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cut := mustService(t, "Haircut", 30, 30, "HC")

	b, err := New("Ada", "Lovelace", "", []Service{cut, cut})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if b.Phone != DefaultPhone {
		t.Errorf("expected default phone, got %q", b.Phone)
	}
	if len(b.Services) != 1 {
		t.Errorf("expected duplicate service to be dropped, got %d services", len(b.Services))
	}
	if b.ID == uuid.Nil {
		t.Error("expected booking ID to be set")
	}

	if _, err := New("", "Lovelace", "", nil); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if _, err := New("Ada", "Lovelace", "555-1234", nil); !errors.Is(err, ErrInvalidPhone) {
		t.Errorf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestBooking_DurationAndPrice(t *testing.T) {
	b, err := New("Ada", "Lovelace", "5551234567", []Service{
		mustService(t, "Haircut", 30, 30, "HC"),
		mustService(t, "Wash", 10, 15, "W"),
		mustService(t, "Color", 80, 75, "CLR"),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := b.Duration().TotalMinutes(); got != 120 {
		t.Errorf("Duration() = %d minutes, want 120", got)
	}
	if got := b.Price(); got != 120 {
		t.Errorf("Price() = %d, want 120", got)
	}
	if got := b.Labels(); got != "HC+W+CLR" {
		t.Errorf("Labels() = %q, want HC+W+CLR", got)
	}
}

func TestBooking_WithoutAndSpawn(t *testing.T) {
	cut := mustService(t, "Haircut", 30, 30, "HC")
	wash := mustService(t, "Wash", 10, 15, "W")
	b, err := New("Ada", "Lovelace", "5551234567", []Service{cut, wash})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	shrunk := b.Without([]Service{wash})
	if !shrunk.Equal(b) {
		t.Error("Without should keep the booking ID")
	}
	if shrunk.HasService(wash) || !shrunk.HasService(cut) {
		t.Errorf("unexpected services after Without: %+v", shrunk.Services)
	}
	if len(b.Services) != 2 {
		t.Error("Without must not modify the receiver")
	}

	spawned := b.Spawn([]Service{wash})
	if spawned.Equal(b) {
		t.Error("Spawn should allocate a new ID")
	}
	if !spawned.SameOwner(b) {
		t.Error("Spawn should keep the owner")
	}
}

func TestBooking_WithoutRepeatedService(t *testing.T) {
	cut := mustService(t, "Haircut", 30, 15, "HC")
	wash := mustService(t, "Wash", 10, 15, "W")
	// Bookings read back from a sheet document may repeat a service.
	b := &Booking{ID: uuid.New(), First: "Ada", Last: "Lovelace", Phone: "5551234567",
		Services: []Service{cut, cut, wash}}

	tests := []struct {
		name    string
		removed []Service
		want    string
	}{
		{"one copy of a repeat", []Service{cut}, "HC+W"},
		{"repeats in the argument count once", []Service{cut, cut}, "HC+W"},
		{"keeps the repeat", []Service{wash}, "HC+HC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shrunk := b.Without(tt.removed)
			if got := shrunk.Labels(); got != tt.want {
				t.Errorf("Labels() = %q, want %q", got, tt.want)
			}
			spawned := b.Spawn(tt.removed)
			total := shrunk.Duration().Accumulate(spawned.Duration())
			if !total.Equal(b.Duration()) {
				t.Errorf("durations = %s + %s, want a total of %s", shrunk.Duration(), spawned.Duration(), b.Duration())
			}
		})
	}
	if len(b.Services) != 3 {
		t.Error("Without must not modify the receiver")
	}
}

func TestBooking_JSON(t *testing.T) {
	b, err := New("Ada", "Lovelace", "5551234567", []Service{mustService(t, "Haircut", 30, 45, "HC")})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b.Served = true

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got Booking
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !got.Equal(b) || !got.SameOwner(b) || !got.Served {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Duration().TotalMinutes() != 45 {
		t.Errorf("round trip duration = %d", got.Duration().TotalMinutes())
	}
}

func TestBooking_UnmarshalWithoutID(t *testing.T) {
	doc := `{"first":"Ada","last":"Lovelace","phone":"5551234567",
		"services":[{"name":"Wash","price":10,"time":{"hour":0,"minute":15},"abbreviation":"W"}],
		"served":false}`

	var b Booking
	if err := json.Unmarshal([]byte(doc), &b); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if b.ID == uuid.Nil {
		t.Error("expected a generated ID")
	}
	if b.Duration().TotalMinutes() != 15 {
		t.Errorf("duration = %d, want 15", b.Duration().TotalMinutes())
	}
}
