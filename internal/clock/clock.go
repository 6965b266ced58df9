// Package clock provides a minute-resolution time-of-day value used for
// sheet windows and booking durations.
package clock

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Errors returned by time construction and arithmetic.
var (
	ErrInvalidArgument = errors.New("hour must be in [0,24) and minute in [0,60)")
	ErrInvalidTime     = errors.New("resulting time is not a valid time of day")
	ErrInvalidFormat   = errors.New("time must be in HH:MM format")
)

const (
	// MinutesPerHour is the number of minutes in an hour.
	MinutesPerHour = 60
	// HoursPerDay is the number of hours in a day.
	HoursPerDay = 24
)

// Time is a military time value (hour:minute). The zero value is 00:00.
//
// A Time built with New is always a valid time of day. A Time produced by
// Accumulate or FromMinutes is a duration and may carry 24 or more hours.
type Time struct {
	hour   int
	minute int
}

// New creates a Time, validating the hour and minute ranges.
func New(hour, minute int) (Time, error) {
	if !validClock(hour, minute) {
		return Time{}, fmt.Errorf("%w: got %d:%d", ErrInvalidArgument, hour, minute)
	}
	return Time{hour: hour, minute: minute}, nil
}

// MustNew is like New but panics on invalid input. Intended for constants and tests.
func MustNew(hour, minute int) Time {
	t, err := New(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// FromMinutes builds a duration from a minute count. Negative counts clamp to zero.
func FromMinutes(m int) Time {
	if m < 0 {
		m = 0
	}
	return Time{hour: m / MinutesPerHour, minute: m % MinutesPerHour}
}

// Parse converts "HH:MM" into a Time of day.
func Parse(s string) (Time, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[0:2]) || !isDigits(s[3:5]) {
		return Time{}, fmt.Errorf("%w, got %q", ErrInvalidFormat, s)
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	return New(hour, minute)
}

// MustParse is like Parse but panics on invalid input.
func MustParse(s string) Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Hour returns the hour component.
func (t Time) Hour() int { return t.hour }

// Minute returns the minute component.
func (t Time) Minute() int { return t.minute }

// TotalMinutes returns hour*60 + minute.
func (t Time) TotalMinutes() int {
	return t.hour*MinutesPerHour + t.minute
}

// IsZero reports whether t is 00:00.
func (t Time) IsZero() bool {
	return t.hour == 0 && t.minute == 0
}

// Valid reports whether t is a valid time of day.
func (t Time) Valid() bool {
	return validClock(t.hour, t.minute)
}

// Set replaces both components in place.
func (t *Time) Set(hour, minute int) error {
	if !validClock(hour, minute) {
		return fmt.Errorf("%w: got %d:%d", ErrInvalidArgument, hour, minute)
	}
	t.hour, t.minute = hour, minute
	return nil
}

// Add shifts the time in place by the given hours and minutes. Minute
// overflow carries into the hour (negative minutes borrow from it) and the
// hour wraps around midnight. t is left unchanged on error.
func (t *Time) Add(hour, minute int) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %s is not a time of day", ErrInvalidTime, t)
	}
	m := t.minute + minute
	carry := floorDiv(m, MinutesPerHour)
	m = floorMod(m, MinutesPerHour)
	h := floorMod(t.hour+hour+carry, HoursPerDay)
	if !validClock(h, m) {
		return fmt.Errorf("%w: %d:%d", ErrInvalidTime, h, m)
	}
	t.hour, t.minute = h, m
	return nil
}

// Accumulate returns the sum of two durations. Unlike Add it does not wrap
// at midnight, so totals of several services stay exact.
func (t Time) Accumulate(other Time) Time {
	return FromMinutes(t.TotalMinutes() + other.TotalMinutes())
}

// Compare returns -1, 0 or +1 ordering t against other by total minutes.
func (t Time) Compare(other Time) int {
	a, b := t.TotalMinutes(), other.TotalMinutes()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports whether both values have the same total minutes.
func (t Time) Equal(other Time) bool { return t.Compare(other) == 0 }

// Before reports whether t is strictly earlier than other.
func (t Time) Before(other Time) bool { return t.Compare(other) < 0 }

// BeforeOrEqual reports whether t is earlier than or equal to other.
func (t Time) BeforeOrEqual(other Time) bool { return t.Compare(other) <= 0 }

// String returns the zero-padded "HH:MM" form.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

type timeJSON struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// MarshalJSON encodes the time as {"hour": h, "minute": m}.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(timeJSON{Hour: t.hour, Minute: t.minute})
}

// UnmarshalJSON decodes {"hour": h, "minute": m}. Durations with 24 or more
// hours are accepted; negative components and minutes >= 60 are not.
func (t *Time) UnmarshalJSON(data []byte) error {
	var v timeJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding time: %w", err)
	}
	if v.Hour < 0 || v.Minute < 0 || v.Minute >= MinutesPerHour {
		return fmt.Errorf("%w: got %d:%d", ErrInvalidArgument, v.Hour, v.Minute)
	}
	t.hour, t.minute = v.Hour, v.Minute
	return nil
}

func validClock(hour, minute int) bool {
	return hour >= 0 && hour < HoursPerDay && minute >= 0 && minute < MinutesPerHour
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
