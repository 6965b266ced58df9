// Package booking defines the customer, service and booking records that the
// schedule sheet places into its columns.
package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alee724/scheduler/internal/clock"
)

// Validation errors.
var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidPhone    = errors.New("phone must be 10 digits")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrAbbrevTooLong   = errors.New("abbreviation must be at most 5 characters")
	ErrInvalidDuration = errors.New("service duration must be positive")
)

// Lookup errors.
var (
	ErrServiceNotFound    = errors.New("service not found")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrQueueEntryNotFound = errors.New("queue entry not found")
	ErrDuplicateEmployee  = errors.New("employee already exists")
)

// DefaultPhone is used when a customer gives no phone number.
const DefaultPhone = "0000000000"

// MaxAbbrevLen is the longest abbreviation a service may carry.
const MaxAbbrevLen = 5

// Service is a bookable treatment with a fixed price and duration.
type Service struct {
	Name     string     `json:"name"`
	Price    int        `json:"price"`
	Duration clock.Time `json:"time"`
	Abbrev   string     `json:"abbreviation"`
}

// NewService creates a Service with validation.
func NewService(name string, price int, duration clock.Time, abbrev string) (Service, error) {
	s := Service{
		Name:     strings.TrimSpace(name),
		Price:    price,
		Duration: duration,
		Abbrev:   strings.TrimSpace(abbrev),
	}
	if err := s.Validate(); err != nil {
		return Service{}, err
	}
	return s, nil
}

// Validate checks the service fields.
func (s Service) Validate() error {
	if s.Name == "" {
		return ErrEmptyName
	}
	if s.Price < 0 {
		return ErrNegativePrice
	}
	if s.Duration.TotalMinutes() <= 0 {
		return ErrInvalidDuration
	}
	if len(s.Abbrev) > MaxAbbrevLen {
		return ErrAbbrevTooLong
	}
	return nil
}

// Equal reports whether all attributes match.
func (s Service) Equal(o Service) bool {
	return s.Name == o.Name &&
		s.Price == o.Price &&
		s.Duration.Equal(o.Duration) &&
		s.Abbrev == o.Abbrev
}

// Label returns the abbreviation, or the name when no abbreviation is set.
func (s Service) Label() string {
	if s.Abbrev != "" {
		return s.Abbrev
	}
	return s.Name
}

// Booking is a customer's request for one or more services. It is the
// payload stored in a sheet column's head slot.
type Booking struct {
	ID       uuid.UUID `json:"id"`
	First    string    `json:"first"`
	Last     string    `json:"last"`
	Phone    string    `json:"phone"`
	Services []Service `json:"services"`
	Served   bool      `json:"served"`
}

// New creates a Booking for the given owner. Duplicate services are dropped.
// An empty phone defaults to DefaultPhone.
func New(first, last, phone string, services []Service) (*Booking, error) {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	if first == "" || last == "" {
		return nil, ErrEmptyName
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		phone = DefaultPhone
	}
	if !validPhone(phone) {
		return nil, fmt.Errorf("%w, got %q", ErrInvalidPhone, phone)
	}
	for _, s := range services {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("service %q: %w", s.Name, err)
		}
	}

	return &Booking{
		ID:       uuid.New(),
		First:    first,
		Last:     last,
		Phone:    phone,
		Services: dedupe(services),
	}, nil
}

// Name returns the owner's full name.
func (b *Booking) Name() string {
	return b.First + " " + b.Last
}

// Duration returns the total time of all requested services.
func (b *Booking) Duration() clock.Time {
	var total clock.Time
	for _, s := range b.Services {
		total = total.Accumulate(s.Duration)
	}
	return total
}

// Price returns the sum of all service prices.
func (b *Booking) Price() int {
	total := 0
	for _, s := range b.Services {
		total += s.Price
	}
	return total
}

// Labels returns the service labels joined with "+".
func (b *Booking) Labels() string {
	labels := make([]string, len(b.Services))
	for i, s := range b.Services {
		labels[i] = s.Label()
	}
	return strings.Join(labels, "+")
}

// HasService reports whether the booking includes s.
func (b *Booking) HasService(s Service) bool {
	for _, have := range b.Services {
		if have.Equal(s) {
			return true
		}
	}
	return false
}

// Equal reports whether both values refer to the same booking.
func (b *Booking) Equal(o *Booking) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.ID == o.ID
}

// SameOwner reports whether both bookings belong to the same customer.
func (b *Booking) SameOwner(o *Booking) bool {
	return o != nil && b.First == o.First && b.Last == o.Last && b.Phone == o.Phone
}

// Clone returns a deep copy with the same ID.
func (b *Booking) Clone() *Booking {
	c := *b
	c.Services = append([]Service(nil), b.Services...)
	return &c
}

// WithServices returns a copy of the booking, same ID, carrying services instead.
func (b *Booking) WithServices(services []Service) *Booking {
	c := b.Clone()
	c.Services = dedupe(services)
	return c
}

// Without returns a copy of the booking, same ID, minus one occurrence of
// each distinct service given. The remaining services keep their order and
// any repeats, so Without and Spawn together conserve the total duration.
func (b *Booking) Without(services []Service) *Booking {
	pending := dedupe(services)
	kept := make([]Service, 0, len(b.Services))
	for _, have := range b.Services {
		if i := indexOfService(pending, have); i >= 0 {
			pending = append(pending[:i], pending[i+1:]...)
			continue
		}
		kept = append(kept, have)
	}
	c := b.Clone()
	c.Services = kept
	return c
}

// Spawn returns a new booking, with a fresh ID, for the same owner.
func (b *Booking) Spawn(services []Service) *Booking {
	return &Booking{
		ID:       uuid.New(),
		First:    b.First,
		Last:     b.Last,
		Phone:    b.Phone,
		Services: dedupe(services),
	}
}

// UnmarshalJSON decodes a booking. Documents written before bookings
// carried an id receive a fresh one.
func (b *Booking) UnmarshalJSON(data []byte) error {
	type plain Booking
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Services == nil {
		v.Services = []Service{}
	}
	*b = Booking(v)
	return nil
}

// Customer is an entry in the customer directory.
type Customer struct {
	ID        int64
	First     string
	Last      string
	Phone     string
	CreatedAt time.Time
}

// Name returns the customer's full name.
func (c *Customer) Name() string {
	return c.First + " " + c.Last
}

// Employee is a roster entry; each employee gets a column on a new sheet.
type Employee struct {
	ID   int64
	Name string
}

// QueueEntry is a customer waiting to be placed on the sheet.
type QueueEntry struct {
	ID        int64
	Booking   *Booking
	CreatedAt time.Time
}

func validPhone(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	for _, c := range phone {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func dedupe(services []Service) []Service {
	out := make([]Service, 0, len(services))
	for _, s := range services {
		if !containsService(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func containsService(list []Service, s Service) bool {
	return indexOfService(list, s) >= 0
}

func indexOfService(list []Service, s Service) int {
	for i, have := range list {
		if have.Equal(s) {
			return i
		}
	}
	return -1
}
