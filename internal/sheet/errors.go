package sheet

import (
	"errors"
	"fmt"
)

// Argument and bounds errors.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrSizeExceedsBounds = errors.New("booking runs past the end of the column")
)

// Slot and booking errors.
var (
	ErrNoItemAtIndex  = errors.New("no booking at index")
	ErrSlotOccupied   = errors.New("target slot is already occupied")
	ErrBookingOverlap = errors.New("booking overlaps an existing booking")
	ErrNonemptyColumn = errors.New("column still holds bookings")
)

// ErrMalformedDocument is returned when a sheet document violates the
// schema or the slot invariants on reload.
var ErrMalformedDocument = errors.New("malformed sheet document")

// asOverlap reports a failed placement as ErrBookingOverlap while keeping
// the underlying kind reachable through errors.Is.
func asOverlap(err error) error {
	if errors.Is(err, ErrSlotOccupied) || errors.Is(err, ErrSizeExceedsBounds) {
		return fmt.Errorf("%w: %w", ErrBookingOverlap, err)
	}
	return err
}
