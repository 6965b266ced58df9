package sheet

import (
	"fmt"
	"strings"

	"github.com/alee724/scheduler/internal/booking"
)

// SlotState is the closed set of states a slot can be in.
type SlotState uint8

const (
	// SlotEmpty is unoccupied and can take a new booking head.
	SlotEmpty SlotState = iota
	// SlotContinuation is covered by a booking whose head lies above it.
	SlotContinuation
	// SlotHead is the first slot of a booking and carries its payload.
	SlotHead
)

// String returns the one-character form used by the text rendering.
func (s SlotState) String() string {
	switch s {
	case SlotContinuation:
		return "0"
	case SlotHead:
		return "c"
	default:
		return "-"
	}
}

// Slot is one row of a column.
type Slot struct {
	State   SlotState
	Head    int              // Index of the owning head; meaningful for Head and Continuation.
	Span    int              // Head only.
	Booking *booking.Booking // Head only.
}

// Placement describes one booking in a column.
type Placement struct {
	Head    int
	Span    int
	Booking *booking.Booking
}

// End returns the index one past the booking's last slot.
func (p Placement) End() int {
	return p.Head + p.Span
}

// Column is the fixed-length slot timeline of one resource.
// Only Column mutates its slots: bookings are copied on the way in and every
// accessor hands out copies.
type Column struct {
	label    string
	slots    []Slot
	occupied int
}

// NewColumn creates an all-empty column with the given number of rows.
func NewColumn(label string, rows int) (*Column, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("%w: column label cannot be empty", ErrInvalidArgument)
	}
	if rows <= 0 {
		return nil, fmt.Errorf("%w: column needs at least one row, got %d", ErrInvalidArgument, rows)
	}
	return &Column{label: label, slots: make([]Slot, rows)}, nil
}

// Label returns the column label.
func (c *Column) Label() string { return c.label }

// SetLabel renames the column.
func (c *Column) SetLabel(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("%w: column label cannot be empty", ErrInvalidArgument)
	}
	c.label = label
	return nil
}

// Len returns the number of rows.
func (c *Column) Len() int { return len(c.slots) }

// OccupiedCount returns the number of bookings in the column.
func (c *Column) OccupiedCount() int { return c.occupied }

// Slot returns a copy of the slot at index.
func (c *Column) Slot(index int) (Slot, bool) {
	if index < 0 || index >= len(c.slots) {
		return Slot{}, false
	}
	s := c.slots[index]
	if s.Booking != nil {
		s.Booking = s.Booking.Clone()
	}
	return s, true
}

// AddItem places b at index spanning span slots. The column is unchanged on error.
func (c *Column) AddItem(index int, b *booking.Booking, span int) error {
	if b == nil {
		return fmt.Errorf("%w: booking is nil", ErrInvalidArgument)
	}
	if err := c.check(index, span, -1); err != nil {
		return err
	}
	c.place(index, b.Clone(), span)
	return nil
}

// Fits reports whether a booking of span slots could be added at index.
func (c *Column) Fits(index, span int) bool {
	return c.check(index, span, -1) == nil
}

// RemoveItem clears the booking covering index.
func (c *Column) RemoveItem(index int) error {
	head, err := c.HeadIndexOf(index)
	if err != nil {
		return err
	}
	c.clear(head)
	return nil
}

// Item returns a copy of the booking covering index, or nil if the slot is
// empty or index is out of range.
func (c *Column) Item(index int) *booking.Booking {
	head, err := c.HeadIndexOf(index)
	if err != nil {
		return nil
	}
	return c.slots[head].Booking.Clone()
}

// HeadIndexOf returns the head index of the booking covering index.
// It never scans past index 0: an empty slot fails with ErrNoItemAtIndex.
func (c *Column) HeadIndexOf(index int) (int, error) {
	if index < 0 || index >= len(c.slots) {
		return 0, fmt.Errorf("%w: row %d (rows %d)", ErrIndexOutOfRange, index, len(c.slots))
	}
	s := c.slots[index]
	switch s.State {
	case SlotHead:
		return index, nil
	case SlotContinuation:
		if s.Head < 0 || s.Head >= index || c.slots[s.Head].State != SlotHead {
			return 0, fmt.Errorf("%w: row %d has no owning head", ErrNoItemAtIndex, index)
		}
		return s.Head, nil
	default:
		return 0, fmt.Errorf("%w: row %d", ErrNoItemAtIndex, index)
	}
}

// Placements returns every booking in the column ordered by head index.
func (c *Column) Placements() []Placement {
	out := make([]Placement, 0, c.occupied)
	for i, s := range c.slots {
		if s.State == SlotHead {
			out = append(out, Placement{Head: i, Span: s.Span, Booking: s.Booking.Clone()})
		}
	}
	return out
}

// check validates placing span slots at index. Slots owned by the head at
// ignoreHead count as free so a booking can be re-placed over itself; pass
// -1 to ignore nothing.
func (c *Column) check(index, span, ignoreHead int) error {
	if span < 1 {
		return fmt.Errorf("%w: span must be at least 1, got %d", ErrInvalidArgument, span)
	}
	if index < 0 || index >= len(c.slots) {
		return fmt.Errorf("%w: row %d (rows %d)", ErrIndexOutOfRange, index, len(c.slots))
	}
	if index+span > len(c.slots) {
		return fmt.Errorf("%w: rows %d-%d (rows %d)", ErrSizeExceedsBounds, index, index+span-1, len(c.slots))
	}
	for i := index; i < index+span; i++ {
		s := c.slots[i]
		if s.State == SlotEmpty {
			continue
		}
		if ignoreHead >= 0 && s.Head == ignoreHead {
			continue
		}
		return fmt.Errorf("%w: row %d", ErrSlotOccupied, i)
	}
	return nil
}

// place writes a booking without validation; callers run check first.
func (c *Column) place(index int, b *booking.Booking, span int) {
	c.slots[index] = Slot{State: SlotHead, Head: index, Span: span, Booking: b}
	for i := index + 1; i < index+span; i++ {
		c.slots[i] = Slot{State: SlotContinuation, Head: index}
	}
	c.occupied++
}

// clear empties the head slot at head and its continuation run.
func (c *Column) clear(head int) {
	span := c.slots[head].Span
	for i := head; i < head+span && i < len(c.slots); i++ {
		c.slots[i] = Slot{}
	}
	c.occupied--
}
