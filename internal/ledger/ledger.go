// Package ledger totals the bookings of one or more schedule sheets:
// gross takings, served counts and booked time per column.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alee724/scheduler/internal/dateutil"
	"github.com/alee724/scheduler/internal/sheet"
	"github.com/alee724/scheduler/internal/store"
)

// ErrBadSheetDocument is returned when a raw sheet document lacks the
// fields needed to total it.
var ErrBadSheetDocument = errors.New("sheet document is missing columns, items or services")

// ColumnTotals aggregates one column.
type ColumnTotals struct {
	Label       string
	Bookings    int
	Served      int
	Minutes     int // booked service time
	Slots       int // occupied slots
	Rows        int // available slots
	Gross       int // price of every booking
	ServedGross int // price of served bookings only
}

// Utilization returns the share of available slots that are occupied.
func (c ColumnTotals) Utilization() float64 {
	if c.Rows == 0 {
		return 0
	}
	return float64(c.Slots) / float64(c.Rows)
}

func (c *ColumnTotals) add(o ColumnTotals) {
	c.Bookings += o.Bookings
	c.Served += o.Served
	c.Minutes += o.Minutes
	c.Slots += o.Slots
	c.Rows += o.Rows
	c.Gross += o.Gross
	c.ServedGross += o.ServedGross
}

// Summary aggregates a sheet, or several sheets keyed by column label.
type Summary struct {
	Start   time.Time
	End     time.Time
	Sheets  int
	Columns []ColumnTotals
	Total   ColumnTotals
}

// SummarizeSheet totals a single sheet.
func SummarizeSheet(sh *sheet.Sheet) *Summary {
	s := &Summary{Sheets: 1, Total: ColumnTotals{Label: "Total"}}
	for _, c := range sh.Columns() {
		ct := ColumnTotals{Label: c.Label(), Rows: c.Len()}
		for _, p := range c.Placements() {
			price := p.Booking.Price()
			ct.Bookings++
			ct.Slots += p.Span
			ct.Minutes += p.Booking.Duration().TotalMinutes()
			ct.Gross += price
			if p.Booking.Served {
				ct.Served++
				ct.ServedGross += price
			}
		}
		s.Columns = append(s.Columns, ct)
		s.Total.add(ct)
	}
	return s
}

// Merge folds other into s. Columns with the same label are combined;
// new labels are appended in order of first appearance.
func (s *Summary) Merge(other *Summary) {
	for _, oc := range other.Columns {
		found := false
		for i := range s.Columns {
			if s.Columns[i].Label == oc.Label {
				s.Columns[i].add(oc)
				found = true
				break
			}
		}
		if !found {
			s.Columns = append(s.Columns, oc)
		}
	}
	s.Total.add(other.Total)
	s.Sheets += other.Sheets
}

// SheetLoader loads the sheet saved for a day.
type SheetLoader interface {
	Load(ctx context.Context, day time.Time) (*sheet.Sheet, error)
}

// SummarizeRange totals every saved sheet between r.Start and r.End.
// Days without a sheet are skipped.
func SummarizeRange(ctx context.Context, loader SheetLoader, r dateutil.DateRange) (*Summary, error) {
	total := &Summary{Start: r.Start, End: r.End, Total: ColumnTotals{Label: "Total"}}
	for _, day := range r.Days() {
		sh, err := loader.Load(ctx, day)
		if errors.Is(err, store.ErrSheetNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", dateutil.FormatDate(day), err)
		}
		total.Merge(SummarizeSheet(sh))
	}
	return total, nil
}

type rawDocument struct {
	Columns *[]struct {
		Items *[][]json.RawMessage `json:"items"`
	} `json:"columns"`
}

type rawBooking struct {
	Services *[]struct {
		Price *int `json:"price"`
	} `json:"services"`
}

// GrossFromJSON sums every service price in a raw sheet document without
// rebuilding the sheet, so totals can be taken from documents that would
// not pass slot validation.
func GrossFromJSON(data []byte) (int, error) {
	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadSheetDocument, err)
	}
	if doc.Columns == nil {
		return 0, fmt.Errorf("%w: no columns", ErrBadSheetDocument)
	}

	total := 0
	for i, col := range *doc.Columns {
		if col.Items == nil {
			return 0, fmt.Errorf("%w: column %d has no items", ErrBadSheetDocument, i)
		}
		for j, item := range *col.Items {
			if len(item) < 2 {
				return 0, fmt.Errorf("%w: column %d item %d has no booking", ErrBadSheetDocument, i, j)
			}
			var b rawBooking
			if err := json.Unmarshal(item[1], &b); err != nil || b.Services == nil {
				return 0, fmt.Errorf("%w: column %d item %d has no services", ErrBadSheetDocument, i, j)
			}
			for _, svc := range *b.Services {
				if svc.Price == nil {
					return 0, fmt.Errorf("%w: column %d item %d has a service without price", ErrBadSheetDocument, i, j)
				}
				total += *svc.Price
			}
		}
	}
	return total, nil
}
