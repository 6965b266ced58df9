package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/alee724/scheduler/internal/booking"
	"github.com/alee724/scheduler/internal/dateutil"
	"github.com/alee724/scheduler/internal/desk"
	"github.com/alee724/scheduler/internal/ledger"
	"github.com/alee724/scheduler/internal/sheet"
	"github.com/alee724/scheduler/internal/tui/commands"
	"github.com/alee724/scheduler/internal/tui/input"
)

var errNoSheet = errors.New("sheet is still loading")

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug("key", zap.String("key", msg.String()), zap.Int("mode", int(m.mode)))

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModePick:
		return m.handlePickKeys(msg)
	case ModeHelp:
		m.mode = ModeNormal
		return m, nil
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg.String()) {
		return m, nil
	}

	switch msg.String() {
	case "q":
		if m.dirty && m.sheet != nil {
			return m, commands.SaveSheet(m.desk, m.day, m.sheet, m.seated, true)
		}
		return m, tea.Quit
	case "Q":
		return m, tea.Quit

	// Days
	case "[", "H":
		return m.openDay(m.day.AddDate(0, 0, -1))
	case "]", "L":
		return m.openDay(m.day.AddDate(0, 0, 1))
	case "t":
		return m.openDay(dateutil.TruncateToDay(m.now()))
	case "N":
		return m.openDay(m.desk.NextWorkday(m.day))

	// Queue selection
	case "J":
		if m.queueCursor < len(m.queue)-1 {
			m.queueCursor++
		}
		return m, nil
	case "K":
		if m.queueCursor > 0 {
			m.queueCursor--
		}
		return m, nil

	// Edits
	case "enter", "m":
		return m.pickUp()
	case "x", "d":
		return m.removeAtCursor()
	case "s":
		return m.toggleServed()
	case "n":
		return m.seatSelected(false)
	case "a":
		return m.seatSelected(true)

	// Persistence
	case "w":
		if m.sheet == nil {
			return m.setError(errNoSheet)
		}
		return m, commands.SaveSheet(m.desk, m.day, m.sheet, m.seated, false)
	case "r":
		m.loading = true
		return m, tea.Batch(commands.LoadSheet(m.desk, m.day), commands.LoadQueue(m.desk))
	case "y":
		return m.yankSummary()

	case "/":
		m.mode = ModePrompt
		m.prompt.SetValue("/")
		m.prompt.CursorEnd()
		m.prompt.Focus()
		return m, textinput.Blink
	case "?":
		m.mode = ModeHelp
		return m, nil
	}
	return m, nil
}

// moveCursor handles navigation keys shared by normal and pick mode.
func (m *Model) moveCursor(key string) bool {
	if m.sheet == nil {
		return false
	}
	rows := m.sheet.RowCount()
	cols := m.sheet.Len()

	switch key {
	case "h", "left":
		if m.cursor.Col > 0 {
			m.cursor.Col--
		}
	case "l", "right":
		if m.cursor.Col < cols-1 {
			m.cursor.Col++
		}
	case "j", "down":
		if m.cursor.Row < rows-1 {
			m.cursor.Row++
		}
	case "k", "up":
		if m.cursor.Row > 0 {
			m.cursor.Row--
		}
	case "g", "home":
		m.cursor.Row = 0
	case "G", "end":
		m.cursor.Row = max(rows-1, 0)
	case "pgdown", "ctrl+d":
		m.cursor.Row = min(max(rows-1, 0), m.cursor.Row+m.visibleRows())
	case "pgup", "ctrl+u":
		m.cursor.Row = max(0, m.cursor.Row-m.visibleRows())
	default:
		return false
	}
	m.ensureCursorVisible()
	return true
}

// openDay loads day. Pending edits are saved first and the day only
// changes once that save succeeds.
func (m Model) openDay(day time.Time) (tea.Model, tea.Cmd) {
	if m.dirty && m.sheet != nil {
		return m, commands.SaveSheetAndOpen(m.desk, m.day, m.sheet, m.seated, day)
	}
	m.loading = true
	return m, tea.Batch(commands.LoadSheet(m.desk, day), commands.LoadQueue(m.desk))
}

// bookingAtCursor returns the booking covering the cursor cell.
func (m Model) bookingAtCursor() (*booking.Booking, error) {
	if m.sheet == nil {
		return nil, errNoSheet
	}
	b, err := m.sheet.Customer(m.cursor.Col, m.cursor.Row)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: nothing booked here", sheet.ErrNoItemAtIndex)
	}
	return b, nil
}

func (m Model) pickUp() (tea.Model, tea.Cmd) {
	b, err := m.bookingAtCursor()
	if err != nil {
		return m.setError(err)
	}
	c, _ := m.sheet.Column(m.cursor.Col)
	head, _ := c.HeadIndexOf(m.cursor.Row)
	m.picked = Position{Col: m.cursor.Col, Row: head}
	m.cursor.Row = head
	m.mode = ModePick
	return m.setStatus(fmt.Sprintf("Moving %s: choose a slot and press enter", b.Name()))
}

// handlePickKeys handles keys while a booking is carried.
func (m Model) handlePickKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg.String()) {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.cursor = m.picked
		m.mode = ModeNormal
		m.ensureCursorVisible()
		return m.setStatus("Move cancelled")
	case "enter", "m":
		if err := m.sheet.MoveCustomer(m.picked.Col, m.picked.Row, m.cursor.Col, m.cursor.Row); err != nil {
			return m.setError(err)
		}
		m.mode = ModeNormal
		m.dirty = true
		return m.setStatus("Moved to " + m.cellName(m.cursor))
	}
	return m, nil
}

// pickedBooking returns the booking being carried and its span.
func (m Model) pickedBooking() (*booking.Booking, int) {
	c, err := m.sheet.Column(m.picked.Col)
	if err != nil {
		return nil, 0
	}
	slot, ok := c.Slot(m.picked.Row)
	if !ok || slot.State != sheet.SlotHead {
		return nil, 0
	}
	return slot.Booking, slot.Span
}

// canDrop reports whether the carried booking fits with its head at pos.
// Slots it already covers count as free.
func (m Model) canDrop(pos Position) bool {
	_, span := m.pickedBooking()
	if span == 0 {
		return false
	}
	c, err := m.sheet.Column(pos.Col)
	if err != nil || pos.Row+span > c.Len() {
		return false
	}
	for r := pos.Row; r < pos.Row+span; r++ {
		slot, _ := c.Slot(r)
		if slot.State == sheet.SlotEmpty {
			continue
		}
		if pos.Col == m.picked.Col && slot.Head == m.picked.Row {
			continue
		}
		return false
	}
	return true
}

func (m Model) removeAtCursor() (tea.Model, tea.Cmd) {
	b, err := m.bookingAtCursor()
	if err != nil {
		return m.setError(err)
	}
	if err := m.sheet.RemoveCustomer(m.cursor.Col, m.cursor.Row); err != nil {
		return m.setError(err)
	}
	m.dirty = true
	return m.setStatus("Removed " + b.Name())
}

func (m Model) toggleServed() (tea.Model, tea.Cmd) {
	b, err := m.bookingAtCursor()
	if err != nil {
		return m.setError(err)
	}
	if err := m.sheet.SetServed(m.cursor.Col, m.cursor.Row, !b.Served); err != nil {
		return m.setError(err)
	}
	m.dirty = true
	if b.Served {
		return m.setStatus(b.Name() + " is waiting again")
	}
	return m.setStatus(b.Name() + " served")
}

// seatSelected places the highlighted queue entry at the cursor, or in the
// first slot that fits when auto is set.
func (m Model) seatSelected(auto bool) (tea.Model, tea.Cmd) {
	e := m.selectedQueueEntry()
	if e == nil {
		return m.setError(errors.New("nobody is waiting"))
	}
	return m.seat(e, auto)
}

func (m Model) seat(e *booking.QueueEntry, auto bool) (tea.Model, tea.Cmd) {
	if m.sheet == nil {
		return m.setError(errNoSheet)
	}
	pos := m.cursor
	if auto {
		from := m.sheet.Start()
		if m.isToday() {
			day, at := m.desk.NextOpening(m.now())
			if !day.Equal(m.day) {
				return m.setError(fmt.Errorf("%w: no opening left today", desk.ErrNoRoom))
			}
			from = at
		}
		col, row, err := desk.FindSlot(m.sheet, e.Booking, from)
		if err != nil {
			return m.setError(err)
		}
		pos = Position{Col: col, Row: row}
	}

	if err := m.sheet.AddCustomer(pos.Col, pos.Row, e.Booking); err != nil {
		return m.setError(err)
	}
	m.seated = append(m.seated, e.ID)
	m.queue = m.waiting(m.queue)
	m.queueCursor = min(m.queueCursor, max(len(m.queue)-1, 0))
	m.cursor = pos
	m.dirty = true
	m.ensureCursorVisible()
	return m.setStatus(fmt.Sprintf("Seated %s at %s", e.Booking.Name(), m.cellName(pos)))
}

// yankSummary copies the day's totals to the clipboard.
func (m Model) yankSummary() (tea.Model, tea.Cmd) {
	if m.sheet == nil {
		return m.setError(errNoSheet)
	}
	text := summaryText(m.day, ledger.SummarizeSheet(m.sheet))
	if err := clipboard.WriteAll(text); err != nil {
		return m.setError(fmt.Errorf("copying to clipboard: %w", err))
	}
	return m.setStatus("Copied totals to the clipboard")
}

// summaryText renders day totals as plain text.
func summaryText(day time.Time, s *ledger.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", dateutil.FormatDate(day))
	for _, c := range s.Columns {
		fmt.Fprintf(&b, "%s: %d booked, %d served, $%d\n", c.Label, c.Bookings, c.Served, c.Gross)
	}
	fmt.Fprintf(&b, "Total: %d booked, %d served, $%d ($%d collected)\n",
		s.Total.Bookings, s.Total.Served, s.Total.Gross, s.Total.ServedGross)
	return b.String()
}

// handlePromptKeys handles keys in prompt mode.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.prompt.Blur()
		m.prompt.SetValue("")
		return m, nil

	case "tab":
		if value, ok := input.PromptAutocomplete(m.prompt.Value(), input.BoardCommands); ok {
			m.prompt.SetValue(value)
			m.prompt.CursorEnd()
		}
		return m, nil

	case "enter":
		value := m.prompt.Value()
		m.mode = ModeNormal
		m.prompt.Blur()
		m.prompt.SetValue("")
		return m.handlePromptSubmit(value)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handlePromptSubmit runs a slash command.
func (m Model) handlePromptSubmit(value string) (tea.Model, tea.Cmd) {
	name, args := input.ParseCommand(value)
	if name == "" {
		return m, nil
	}
	if m.sheet == nil && name != "/help" && name != "/date" {
		return m.setError(errNoSheet)
	}
	label := strings.Join(args, " ")

	switch name {
	case "/column":
		if err := m.sheet.AddColumn(label); err != nil {
			return m.setError(err)
		}
		m.cursor.Col = m.sheet.Len() - 1
		m.dirty = true
		return m.setStatus("Added column " + label)

	case "/rename":
		if err := m.sheet.SetColumnLabel(m.cursor.Col, label); err != nil {
			return m.setError(err)
		}
		m.dirty = true
		return m.setStatus("Renamed column to " + label)

	case "/drop":
		if err := m.sheet.RemoveColumn(m.cursor.Col); err != nil {
			return m.setError(err)
		}
		m.cursor.Col = max(0, min(m.cursor.Col, m.sheet.Len()-1))
		m.dirty = true
		return m.setStatus("Removed column")

	case "/seat":
		if len(args) != 1 {
			return m.setError(errors.New("usage: /seat <id>"))
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return m.setError(fmt.Errorf("invalid queue id %q", args[0]))
		}
		for _, e := range m.queue {
			if e.ID == id {
				return m.seat(e, false)
			}
		}
		return m.setError(fmt.Errorf("%w: %d", booking.ErrQueueEntryNotFound, id))

	case "/split":
		return m.split(args)

	case "/date":
		day, err := dateutil.ParseDay(label, m.now())
		if err != nil {
			return m.setError(err)
		}
		return m.openDay(day)

	case "/help":
		m.mode = ModeHelp
		return m, nil
	}
	return m.setError(fmt.Errorf("unknown command %s", name))
}

// split moves the named services of the booking at the cursor into a new
// booking right after it.
func (m Model) split(names []string) (tea.Model, tea.Cmd) {
	b, err := m.bookingAtCursor()
	if err != nil {
		return m.setError(err)
	}
	if len(names) == 0 {
		return m.setError(errors.New("usage: /split <service>..."))
	}
	var moved []booking.Service
	for _, n := range names {
		found := false
		for _, s := range b.Services {
			if strings.EqualFold(s.Name, n) || strings.EqualFold(s.Label(), n) {
				moved = append(moved, s)
				found = true
				break
			}
		}
		if !found {
			return m.setError(fmt.Errorf("%s has no service %q", b.Name(), n))
		}
	}
	if err := m.sheet.SplitCustomer(m.cursor.Col, m.cursor.Row, moved); err != nil {
		return m.setError(err)
	}
	m.dirty = true
	return m.setStatus("Split " + b.Name())
}

// cellName returns a column label and time, e.g. "Amy 10:30".
func (m Model) cellName(pos Position) string {
	label := fmt.Sprintf("column %d", pos.Col)
	if c, err := m.sheet.Column(pos.Col); err == nil {
		label = c.Label()
	}
	t, err := m.sheet.RowToTime(pos.Row)
	if err != nil {
		return label
	}
	return label + " " + t.String()
}
