// Package sheet implements the appointment board: a grid of resource
// columns over a fixed, interval-quantized time window, holding bookings that
// may span several consecutive slots.
//
// A booking occupies one head slot followed by span-1 continuation slots.
// Every mutating operation validates its target before touching any slot,
// so a failed call leaves the sheet exactly as it was.
package sheet

import (
	"fmt"
	"strings"

	"github.com/alee724/scheduler/internal/booking"
	"github.com/alee724/scheduler/internal/clock"
)

// MaxHour is the latest hour a sheet window may end at.
const MaxHour = 23

// Sheet is a Grid bound to a time window and slot interval.
type Sheet struct {
	grid     *Grid
	start    clock.Time
	end      clock.Time
	interval int
}

// New creates a sheet covering startHour:00 to endHour:00 in slots of
// interval minutes. The window length must be a multiple of interval.
func New(startHour, endHour, interval int) (*Sheet, error) {
	if startHour < 0 || endHour > MaxHour || startHour >= endHour {
		return nil, fmt.Errorf("%w: window must satisfy 0 <= start < end <= %d, got %d-%d",
			ErrInvalidArgument, MaxHour, startHour, endHour)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive, got %d", ErrInvalidArgument, interval)
	}
	minutes := (endHour - startHour) * clock.MinutesPerHour
	if minutes%interval != 0 {
		return nil, fmt.Errorf("%w: interval %d does not divide a %d minute window",
			ErrInvalidArgument, interval, minutes)
	}

	grid, err := NewGrid(minutes / interval)
	if err != nil {
		return nil, err
	}
	return &Sheet{
		grid:     grid,
		start:    clock.MustNew(startHour, 0),
		end:      clock.MustNew(endHour, 0),
		interval: interval,
	}, nil
}

// Start returns the opening time of the window.
func (s *Sheet) Start() clock.Time { return s.start }

// End returns the closing time of the window.
func (s *Sheet) End() clock.Time { return s.end }

// Interval returns the slot length in minutes.
func (s *Sheet) Interval() int { return s.interval }

// RowCount returns the number of slots per column.
func (s *Sheet) RowCount() int { return s.grid.RowCount() }

// Len returns the number of columns.
func (s *Sheet) Len() int { return s.grid.Len() }

// Column returns the column at i.
func (s *Sheet) Column(i int) (*Column, error) { return s.grid.Column(i) }

// Columns returns the columns in order.
func (s *Sheet) Columns() []*Column { return s.grid.Columns() }

// AddColumn appends an empty column.
func (s *Sheet) AddColumn(label string) error { return s.grid.AddColumn(label) }

// RemoveColumn deletes an empty column.
func (s *Sheet) RemoveColumn(i int) error { return s.grid.RemoveColumn(i) }

// SetColumnLabel renames the column at i.
func (s *Sheet) SetColumnLabel(i int, label string) error {
	c, err := s.grid.Column(i)
	if err != nil {
		return err
	}
	return c.SetLabel(label)
}

// ColumnIndex returns the index of the first column labeled label
// (case-insensitive), or -1.
func (s *Sheet) ColumnIndex(label string) int {
	label = strings.TrimSpace(label)
	for i, c := range s.grid.columns {
		if strings.EqualFold(c.Label(), label) {
			return i
		}
	}
	return -1
}

// TimeToLength converts a duration into a slot count. A remainder of at
// least half an interval rounds up, and any positive duration takes at
// least one slot.
func (s *Sheet) TimeToLength(d clock.Time) int {
	m := d.TotalMinutes()
	if m <= 0 {
		return 0
	}
	n := m / s.interval
	if rem := m % s.interval; rem*2 >= s.interval {
		n++
	}
	if n == 0 {
		n = 1
	}
	return n
}

// TimeToRow returns the row containing the wall-clock time t.
func (s *Sheet) TimeToRow(t clock.Time) (int, error) {
	if t.Before(s.start) || !t.Before(s.end) {
		return 0, fmt.Errorf("%w: %s is outside %s-%s", ErrIndexOutOfRange, t, s.start, s.end)
	}
	return (t.TotalMinutes() - s.start.TotalMinutes()) / s.interval, nil
}

// RowToTime returns the wall-clock time at which row begins.
func (s *Sheet) RowToTime(row int) (clock.Time, error) {
	if row < 0 || row >= s.RowCount() {
		return clock.Time{}, fmt.Errorf("%w: row %d (rows %d)", ErrIndexOutOfRange, row, s.RowCount())
	}
	m := s.start.TotalMinutes() + row*s.interval
	return clock.New(m/clock.MinutesPerHour, m%clock.MinutesPerHour)
}

// Customer returns the booking covering (col, row), or nil if the slot is empty.
func (s *Sheet) Customer(col, row int) (*booking.Booking, error) {
	c, err := s.grid.Column(col)
	if err != nil {
		return nil, err
	}
	if row < 0 || row >= c.Len() {
		return nil, fmt.Errorf("%w: row %d (rows %d)", ErrIndexOutOfRange, row, c.Len())
	}
	return c.Item(row), nil
}

// AddCustomer places b with its head at (col, row).
func (s *Sheet) AddCustomer(col, row int, b *booking.Booking) error {
	c, err := s.grid.Column(col)
	if err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("%w: booking is nil", ErrInvalidArgument)
	}
	return c.AddItem(row, b, s.TimeToLength(b.Duration()))
}

// MoveCustomer relocates the booking covering (srcCol, srcRow) so its head
// lands on (dstCol, dstRow). The destination may overlap the booking's own
// current slots. On failure the booking stays where it was.
func (s *Sheet) MoveCustomer(srcCol, srcRow, dstCol, dstRow int) error {
	src, err := s.grid.Column(srcCol)
	if err != nil {
		return err
	}
	dst, err := s.grid.Column(dstCol)
	if err != nil {
		return err
	}
	head, err := src.HeadIndexOf(srcRow)
	if err != nil {
		return err
	}

	slot := src.slots[head]
	ignore := -1
	if src == dst {
		ignore = head
	}
	if err := dst.check(dstRow, slot.Span, ignore); err != nil {
		return asOverlap(err)
	}

	src.clear(head)
	dst.place(dstRow, slot.Booking, slot.Span)
	return nil
}

// RemoveCustomer clears the booking covering (col, row). An empty slot is a no-op.
func (s *Sheet) RemoveCustomer(col, row int) error {
	c, err := s.grid.Column(col)
	if err != nil {
		return err
	}
	head, err := c.HeadIndexOf(row)
	if err != nil {
		if row >= 0 && row < c.Len() {
			return nil
		}
		return err
	}
	c.clear(head)
	return nil
}

// SplitCustomer moves the transferred services out of the booking covering
// (col, row) into a new booking for the same customer. The shrunk original
// keeps its head index and the new booking starts right after it.
func (s *Sheet) SplitCustomer(col, row int, transferred []booking.Service) error {
	c, err := s.grid.Column(col)
	if err != nil {
		return err
	}
	head, err := c.HeadIndexOf(row)
	if err != nil {
		return err
	}
	orig := c.slots[head].Booking

	n := distinct(transferred)
	if n == 0 || n >= len(orig.Services) {
		return fmt.Errorf("%w: split must transfer a non-empty proper subset of %d service(s), got %d",
			ErrInvalidArgument, len(orig.Services), n)
	}
	for _, t := range transferred {
		if !orig.HasService(t) {
			return fmt.Errorf("%w: %q is not part of the booking", ErrInvalidArgument, t.Name)
		}
	}

	shrunk := orig.Without(transferred)
	tail := orig.Spawn(transferred)
	shrunkSpan := s.TimeToLength(shrunk.Duration())
	tailSpan := s.TimeToLength(tail.Duration())

	if head+shrunkSpan+tailSpan > c.Len() {
		return asOverlap(fmt.Errorf("%w: split needs rows %d-%d (rows %d)",
			ErrSizeExceedsBounds, head, head+shrunkSpan+tailSpan-1, c.Len()))
	}
	if err := c.check(head, shrunkSpan, head); err != nil {
		return asOverlap(err)
	}
	if err := c.check(head+shrunkSpan, tailSpan, head); err != nil {
		return asOverlap(err)
	}

	c.clear(head)
	c.place(head, shrunk, shrunkSpan)
	c.place(head+shrunkSpan, tail, tailSpan)
	return nil
}

// SetCustomerServices replaces the services of the booking covering
// (col, row), resizing it in place. The booking keeps its identity.
func (s *Sheet) SetCustomerServices(col, row int, services []booking.Service) error {
	if len(services) == 0 {
		return fmt.Errorf("%w: a booking needs at least one service", ErrInvalidArgument)
	}
	c, err := s.grid.Column(col)
	if err != nil {
		return err
	}
	head, err := c.HeadIndexOf(row)
	if err != nil {
		return err
	}

	updated := c.slots[head].Booking.WithServices(services)
	span := s.TimeToLength(updated.Duration())
	if err := c.check(head, span, head); err != nil {
		return asOverlap(err)
	}

	c.clear(head)
	c.place(head, updated, span)
	return nil
}

// SetServed marks the booking covering (col, row) as served or not.
func (s *Sheet) SetServed(col, row int, served bool) error {
	c, err := s.grid.Column(col)
	if err != nil {
		return err
	}
	head, err := c.HeadIndexOf(row)
	if err != nil {
		return err
	}
	b := c.slots[head].Booking.Clone()
	b.Served = served
	c.slots[head].Booking = b
	return nil
}

// Bookings returns every booking on the sheet, column by column.
func (s *Sheet) Bookings() []*booking.Booking {
	var out []*booking.Booking
	for _, c := range s.grid.columns {
		for _, p := range c.Placements() {
			out = append(out, p.Booking)
		}
	}
	return out
}

// String renders one line per row with one character per column:
// "-" empty, "0" continuation, "c" booking head.
func (s *Sheet) String() string {
	var b strings.Builder
	for row := 0; row < s.RowCount(); row++ {
		for i, c := range s.grid.columns {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(c.slots[row].State.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func distinct(services []booking.Service) int {
	seen := make([]booking.Service, 0, len(services))
outer:
	for _, s := range services {
		for _, have := range seen {
			if have.Equal(s) {
				continue outer
			}
		}
		seen = append(seen, s)
	}
	return len(seen)
}
