// Package dateutil parses the day arguments used to pick a schedule sheet.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Layout is the on-disk and command-line date format.
const Layout = "2006-01-02"

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
)

var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DateRange is an inclusive range of days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange creates a DateRange from two day arguments.
// An empty end defaults to start.
func NewDateRange(start, end string, relativeTo time.Time) (*DateRange, error) {
	from, err := ParseDay(start, relativeTo)
	if err != nil {
		return nil, err
	}
	to := from
	if strings.TrimSpace(end) != "" {
		to, err = ParseDay(end, relativeTo)
		if err != nil {
			return nil, err
		}
	}
	if to.Before(from) {
		return nil, ErrEndDateBeforeStart
	}
	return &DateRange{Start: from, End: to}, nil
}

// Days returns every day in the range, in order.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ParseDate parses a YYYY-MM-DD string. An empty string is today.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(Layout)
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	t = TruncateToDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday = t.AddDate(0, 0, -(weekday - 1))
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// TruncateToDay returns t with time set to midnight, in UTC so that the
// result lines up with dates parsed by ParseDate.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a day argument relative to relativeTo:
//   - "" or "today", "tomorrow", "yesterday"
//   - a weekday name: the next occurrence, today excluded
//   - "last-<weekday>": the previous occurrence, today excluded
//   - an absolute YYYY-MM-DD date
//
// Input is case-insensitive. Past days are allowed so old sheets can be
// opened and totalled.
func ParseDay(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if name, ok := strings.CutPrefix(input, "last-"); ok {
		if target, ok := weekdayMap[name]; ok {
			return previousWeekday(today, target), nil
		}
		return time.Time{}, ErrInvalidDateFormat
	}
	if target, ok := weekdayMap[input]; ok {
		return nextWeekday(today, target), nil
	}

	result, err := time.Parse(Layout, input)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return result, nil
}

func nextWeekday(today time.Time, target time.Weekday) time.Time {
	days := int(target) - int(today.Weekday())
	if days <= 0 {
		days += 7
	}
	return today.AddDate(0, 0, days)
}

func previousWeekday(today time.Time, target time.Weekday) time.Time {
	days := int(today.Weekday()) - int(target)
	if days <= 0 {
		days += 7
	}
	return today.AddDate(0, 0, -days)
}
