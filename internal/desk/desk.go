// Package desk ties the schedule sheet to the catalog and the sheet store:
// it opens and saves day sheets, turns service names into bookings, runs
// the waiting queue and totals the takings.
package desk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alee724/scheduler/internal/booking"
	"github.com/alee724/scheduler/internal/clock"
	"github.com/alee724/scheduler/internal/dateutil"
	"github.com/alee724/scheduler/internal/ledger"
	"github.com/alee724/scheduler/internal/logging"
	"github.com/alee724/scheduler/internal/sheet"
	"github.com/alee724/scheduler/internal/store"
)

// ErrNoRoom is returned when no column has a free run long enough for a booking.
var ErrNoRoom = errors.New("no free slot long enough for the booking")

// SheetStore loads and saves one sheet per day.
type SheetStore interface {
	Load(ctx context.Context, day time.Time) (*sheet.Sheet, error)
	Save(ctx context.Context, day time.Time, sh *sheet.Sheet) error
}

// Window describes the sheet created for a day that has none yet.
type Window struct {
	StartHour int
	EndHour   int
	Interval  int
	Workdays  []string
}

// Desk coordinates sheets, catalog and queue.
type Desk struct {
	repo     booking.Repository
	sheets   SheetStore
	window   Window
	workdays map[string]bool
	logger   *zap.Logger
}

// New creates a Desk. A nil logger disables logging.
func New(repo booking.Repository, sheets SheetStore, window Window, logger *zap.Logger) *Desk {
	wd := make(map[string]bool, len(window.Workdays))
	for _, d := range window.Workdays {
		wd[strings.ToLower(d)] = true
	}
	return &Desk{
		repo:     repo,
		sheets:   sheets,
		window:   window,
		workdays: wd,
		logger:   logging.Or(logger),
	}
}

// Repository returns the catalog repository.
func (d *Desk) Repository() booking.Repository { return d.repo }

// IsWorkday reports whether day falls on a configured workday.
func (d *Desk) IsWorkday(day time.Time) bool {
	return d.workdays[strings.ToLower(day.Weekday().String())]
}

// NextWorkday returns the first workday after from, or the next day when
// no workday is configured.
func (d *Desk) NextWorkday(from time.Time) time.Time {
	next := dateutil.TruncateToDay(from).AddDate(0, 0, 1)
	for i := 0; i < 7; i++ {
		if d.IsWorkday(next) {
			return next
		}
		next = next.AddDate(0, 0, 1)
	}
	return dateutil.TruncateToDay(from).AddDate(0, 0, 1)
}

// NextOpening returns the first day and time at or after now that a booking
// could start. During opening hours now is rounded up to the next slot
// boundary; before opening the day's start is used; after closing or on a
// day off it moves to the next workday's opening.
func (d *Desk) NextOpening(now time.Time) (day time.Time, at clock.Time) {
	open := clock.MustNew(d.window.StartHour, 0)
	closing := clock.MustNew(d.window.EndHour, 0)
	today := dateutil.TruncateToDay(now)

	if d.IsWorkday(now) {
		minutes := now.Hour()*60 + now.Minute()
		if now.Second() > 0 || now.Nanosecond() > 0 {
			minutes++
		}
		if minutes <= open.TotalMinutes() {
			return today, open
		}
		step := max(d.window.Interval, 1)
		if rem := (minutes - open.TotalMinutes()) % step; rem != 0 {
			minutes += step - rem
		}
		if minutes < closing.TotalMinutes() {
			return today, clock.FromMinutes(minutes)
		}
	}
	return d.NextWorkday(now), open
}

// OpenSheet loads the sheet for day. When none has been saved it returns a
// fresh sheet with one column per employee; created reports which case applied.
// A fresh sheet is not saved until SaveSheet is called.
func (d *Desk) OpenSheet(ctx context.Context, day time.Time) (sh *sheet.Sheet, created bool, err error) {
	sh, err = d.sheets.Load(ctx, day)
	if err == nil {
		return sh, false, nil
	}
	if !errors.Is(err, store.ErrSheetNotFound) {
		return nil, false, err
	}

	sh, err = sheet.New(d.window.StartHour, d.window.EndHour, d.window.Interval)
	if err != nil {
		return nil, false, fmt.Errorf("creating sheet: %w", err)
	}
	employees, err := d.repo.ListEmployees(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("listing employees: %w", err)
	}
	for _, e := range employees {
		if err := sh.AddColumn(e.Name); err != nil {
			return nil, false, fmt.Errorf("adding column %q: %w", e.Name, err)
		}
	}

	d.logger.Debug("new sheet",
		zap.String("date", dateutil.FormatDate(day)),
		zap.Int("columns", sh.Len()),
		zap.Bool("workday", d.IsWorkday(day)),
	)
	return sh, true, nil
}

// SaveSheet stores the sheet for day. Queue entries listed in seated were
// placed on the sheet and are removed from the queue once the sheet is saved.
func (d *Desk) SaveSheet(ctx context.Context, day time.Time, sh *sheet.Sheet, seated ...int64) error {
	if err := d.sheets.Save(ctx, day, sh); err != nil {
		d.logger.Error("saving sheet", zap.String("date", dateutil.FormatDate(day)), zap.Error(err))
		return fmt.Errorf("saving sheet: %w", err)
	}
	for _, id := range seated {
		if err := d.repo.Dequeue(ctx, id); err != nil {
			return fmt.Errorf("removing seated customer from queue: %w", err)
		}
	}
	d.logger.Info("sheet saved",
		zap.String("date", dateutil.FormatDate(day)),
		zap.Int("bookings", len(sh.Bookings())),
		zap.Int64s("seated", seated),
	)
	return nil
}

// Edit opens the sheet for day, applies fn and saves the result. Nothing is
// saved when fn fails.
func (d *Desk) Edit(ctx context.Context, day time.Time, fn func(*sheet.Sheet) error) (*sheet.Sheet, error) {
	sh, _, err := d.OpenSheet(ctx, day)
	if err != nil {
		return nil, err
	}
	if err := fn(sh); err != nil {
		d.logger.Debug("edit rejected", zap.String("date", dateutil.FormatDate(day)), zap.Error(err))
		return nil, err
	}
	if err := d.SaveSheet(ctx, day, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// ResolveServices looks up catalog services by name. Names may also be
// given as one comma-separated string.
func (d *Desk) ResolveServices(ctx context.Context, names []string) ([]booking.Service, error) {
	var services []booking.Service
	for _, n := range splitNames(names) {
		svc, err := d.repo.GetService(ctx, n)
		if err != nil {
			return nil, err
		}
		services = append(services, *svc)
	}
	if len(services) == 0 {
		return nil, fmt.Errorf("%w: no services given", sheet.ErrInvalidArgument)
	}
	return services, nil
}

// NewBooking builds a booking from catalog service names and records the
// customer in the directory.
func (d *Desk) NewBooking(ctx context.Context, first, last, phone string, serviceNames []string) (*booking.Booking, error) {
	services, err := d.ResolveServices(ctx, serviceNames)
	if err != nil {
		return nil, err
	}
	b, err := booking.New(first, last, phone, services)
	if err != nil {
		return nil, err
	}

	created, err := d.repo.SaveCustomer(ctx, &booking.Customer{First: b.First, Last: b.Last, Phone: b.Phone})
	if err != nil {
		return nil, fmt.Errorf("recording customer: %w", err)
	}
	if created {
		d.logger.Info("new customer", zap.String("name", b.Name()))
	}
	return b, nil
}

// Book places b on the sheet for day at (col, row) and saves the sheet.
func (d *Desk) Book(ctx context.Context, day time.Time, col, row int, b *booking.Booking) error {
	_, err := d.Edit(ctx, day, func(sh *sheet.Sheet) error {
		return sh.AddCustomer(col, row, b)
	})
	return err
}

// QueueCustomer puts a booking on the waiting queue.
func (d *Desk) QueueCustomer(ctx context.Context, b *booking.Booking) (*booking.QueueEntry, error) {
	e, err := d.repo.Enqueue(ctx, b)
	if err != nil {
		return nil, err
	}
	d.logger.Info("customer queued", zap.Int64("queue_id", e.ID), zap.String("name", b.Name()))
	return e, nil
}

// Seat moves a queued booking onto the sheet for day at (col, row). The
// queue entry is removed only after the sheet has been saved.
func (d *Desk) Seat(ctx context.Context, day time.Time, queueID int64, col, row int) error {
	e, err := d.repo.GetQueueEntry(ctx, queueID)
	if err != nil {
		return err
	}
	sh, _, err := d.OpenSheet(ctx, day)
	if err != nil {
		return err
	}
	if err := sh.AddCustomer(col, row, e.Booking); err != nil {
		return err
	}
	return d.SaveSheet(ctx, day, sh, queueID)
}

// FindSlot returns the earliest (col, row) at or after from where b fits,
// scanning rows first so the customer is seen as soon as possible. A from
// inside a slot starts the search at the next slot.
func FindSlot(sh *sheet.Sheet, b *booking.Booking, from clock.Time) (col, row int, err error) {
	start := 0
	if sh.Start().Before(from) {
		start, err = sh.TimeToRow(from)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %s is after closing", ErrNoRoom, from)
		}
		if at, _ := sh.RowToTime(start); at.Before(from) {
			start++
		}
	}
	span := sh.TimeToLength(b.Duration())
	columns := sh.Columns()
	for r := start; r < sh.RowCount(); r++ {
		for c, column := range columns {
			if column.Fits(r, span) {
				return c, r, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("%w: needs %d slot(s)", ErrNoRoom, span)
}

// Summary totals the sheet saved for day.
func (d *Desk) Summary(ctx context.Context, day time.Time) (*ledger.Summary, error) {
	sh, err := d.sheets.Load(ctx, day)
	if err != nil {
		return nil, err
	}
	s := ledger.SummarizeSheet(sh)
	s.Start, s.End = day, day
	return s, nil
}

// SummaryRange totals every saved sheet in r.
func (d *Desk) SummaryRange(ctx context.Context, r dateutil.DateRange) (*ledger.Summary, error) {
	return ledger.SummarizeRange(ctx, d.sheets, r)
}

func splitNames(names []string) []string {
	var out []string
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
