// Package commands provides board command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alee724/scheduler/internal/booking"
	"github.com/alee724/scheduler/internal/dateutil"
	"github.com/alee724/scheduler/internal/desk"
	"github.com/alee724/scheduler/internal/sheet"
)

// SheetLoadedMsg is sent when the sheet for a day is opened.
type SheetLoadedMsg struct {
	Day     time.Time
	Sheet   *sheet.Sheet
	Created bool // no sheet was saved for the day yet
}

// SheetSavedMsg is sent after a sheet has been written.
type SheetSavedMsg struct {
	Day    time.Time
	Seated []int64 // queue entries removed by the save
	Quit   bool      // quit once saved
	Next   time.Time // day to open once saved, zero for none
}

// QueueLoadedMsg is sent when the waiting queue is read.
type QueueLoadedMsg struct {
	Entries []*booking.QueueEntry
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadSheet opens the sheet for day, creating an unsaved one from the roster
// when none exists.
func LoadSheet(d *desk.Desk, day time.Time) tea.Cmd {
	return func() tea.Msg {
		sh, created, err := d.OpenSheet(context.Background(), day)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("opening %s: %w", dateutil.FormatDate(day), err)}
		}
		return SheetLoadedMsg{Day: day, Sheet: sh, Created: created}
	}
}

// SaveSheet writes sh and takes the seated entries off the queue.
func SaveSheet(d *desk.Desk, day time.Time, sh *sheet.Sheet, seated []int64, quit bool) tea.Cmd {
	return saveSheet(d, SheetSavedMsg{Day: day, Seated: seated, Quit: quit}, sh)
}

// SaveSheetAndOpen writes sh and asks for next to be opened. Nothing is
// opened when the save fails.
func SaveSheetAndOpen(d *desk.Desk, day time.Time, sh *sheet.Sheet, seated []int64, next time.Time) tea.Cmd {
	return saveSheet(d, SheetSavedMsg{Day: day, Seated: seated, Next: next}, sh)
}

func saveSheet(d *desk.Desk, done SheetSavedMsg, sh *sheet.Sheet) tea.Cmd {
	return func() tea.Msg {
		if err := d.SaveSheet(context.Background(), done.Day, sh, done.Seated...); err != nil {
			return ErrMsg{Err: fmt.Errorf("saving %s: %w", dateutil.FormatDate(done.Day), err)}
		}
		return done
	}
}

// LoadQueue reads the customers waiting to be seated.
func LoadQueue(d *desk.Desk) tea.Cmd {
	return func() tea.Msg {
		entries, err := d.Repository().ListQueue(context.Background())
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading queue: %w", err)}
		}
		return QueueLoadedMsg{Entries: entries}
	}
}

// Status shows a temporary message in the footer.
func Status(format string, args ...any) tea.Cmd {
	return func() tea.Msg {
		return StatusMsgCmd{Msg: fmt.Sprintf(format, args...)}
	}
}
