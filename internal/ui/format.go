package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/alee724/scheduler/internal/booking"
	"github.com/alee724/scheduler/internal/ledger"
	"github.com/alee724/scheduler/internal/sheet"
)

const (
	timeColWidth   = 7 // "HH:MM  "
	minCellWidth   = 10
	maxCellWidth   = 28
	cellSeparation = 2
)

// PrintOpts configures sheet printing.
type PrintOpts struct {
	Width   int  // total width available; 0 uses the terminal width
	Compact bool // only rows with at least one booking
}

func (o PrintOpts) cellWidth(columns int) int {
	width := o.Width
	if width <= 0 {
		width = termWidth()
	}
	if columns == 0 {
		return minCellWidth
	}
	w := (width-timeColWidth)/columns - cellSeparation
	return min(max(w, minCellWidth), maxCellWidth)
}

// PrintSheet prints the sheet as a table with one row per slot.
func PrintSheet(w io.Writer, sh *sheet.Sheet, opts PrintOpts) {
	columns := sh.Columns()
	if len(columns) == 0 {
		fmt.Fprintln(w, "No columns on this sheet. Add one with 'scheduler column add <name>'.")
		return
	}
	cw := opts.cellWidth(len(columns))
	gap := strings.Repeat(" ", cellSeparation)

	var header strings.Builder
	header.WriteString(strings.Repeat(" ", timeColWidth))
	for i, c := range columns {
		if i > 0 {
			header.WriteString(gap)
		}
		header.WriteString(formatHeader(pad(fmt.Sprintf("%d %s", i, c.Label()), cw)))
	}
	fmt.Fprintln(w, strings.TrimRight(header.String(), " "))
	fmt.Fprintln(w, formatMuted(strings.Repeat("─", timeColWidth+len(columns)*(cw+cellSeparation)-cellSeparation)))

	for row := 0; row < sh.RowCount(); row++ {
		if opts.Compact && !rowOccupied(columns, row) {
			continue
		}
		at, _ := sh.RowToTime(row)

		var line strings.Builder
		line.WriteString(formatMuted(pad(at.String(), timeColWidth)))
		for i, c := range columns {
			if i > 0 {
				line.WriteString(gap)
			}
			slot, _ := c.Slot(row)
			line.WriteString(formatCell(slot, cw))
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

func rowOccupied(columns []*sheet.Column, row int) bool {
	for _, c := range columns {
		if s, ok := c.Slot(row); ok && s.State != sheet.SlotEmpty {
			return true
		}
	}
	return false
}

// formatCell renders one slot: the customer and services on the head row,
// a bar on continuation rows and a dot on empty ones.
func formatCell(slot sheet.Slot, width int) string {
	switch slot.State {
	case sheet.SlotHead:
		text := pad(bookingLabel(slot.Booking), width)
		if slot.Booking.Served {
			return formatServed(text)
		}
		return formatBooked(text)
	case sheet.SlotContinuation:
		return formatSpan(pad("│", width))
	default:
		return formatMuted(pad("·", width))
	}
}

// bookingLabel is "Ada L. Cut+Clr" with a check mark once served.
func bookingLabel(b *booking.Booking) string {
	name := b.First
	if b.Last != "" {
		name += " " + string([]rune(b.Last)[0]) + "."
	}
	label := name + " " + b.Labels()
	if b.Served {
		label = "✓ " + label
	}
	return label
}

// pad truncates s to width cells and right-pads it with spaces.
func pad(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	if n := ansi.StringWidth(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

func formatPrice(amount int) string {
	return fmt.Sprintf("$%d", amount)
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

// PrintSummary prints per-column totals followed by the overall total.
func PrintSummary(w io.Writer, s *ledger.Summary) {
	if len(s.Columns) == 0 {
		fmt.Fprintln(w, "No bookings.")
		return
	}
	fmt.Fprintf(w, "%-16s %8s %8s %8s %10s %10s\n",
		"COLUMN", "BOOKED", "SERVED", "TIME", "GROSS", "COLLECTED")
	for _, c := range s.Columns {
		printTotalsRow(w, c)
	}
	fmt.Fprintln(w, formatMuted(strings.Repeat("─", 66)))
	printTotalsRow(w, s.Total)
}

func printTotalsRow(w io.Writer, c ledger.ColumnTotals) {
	fmt.Fprintf(w, "%-16s %8d %8d %8s %s %s  %s\n",
		pad(c.Label, 16),
		c.Bookings,
		c.Served,
		formatMinutes(c.Minutes),
		formatMoney(fmt.Sprintf("%10s", formatPrice(c.Gross))),
		formatMoney(fmt.Sprintf("%10s", formatPrice(c.ServedGross))),
		formatMuted(fmt.Sprintf("%3.0f%% booked", c.Utilization()*100)),
	)
}

// PrintBooking prints one booking with its services.
func PrintBooking(w io.Writer, b *booking.Booking) {
	status := "waiting"
	if b.Served {
		status = formatServed("served")
	}
	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		formatHeader(b.Name()), formatMuted(b.Phone), formatMinutes(b.Duration().TotalMinutes()), status)
	for _, s := range b.Services {
		fmt.Fprintf(w, "  - %-20s %6s  %s\n", s.Name, formatPrice(s.Price), formatMuted(formatMinutes(s.Duration.TotalMinutes())))
	}
}
