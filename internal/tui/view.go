package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/alee724/scheduler/internal/booking"
	"github.com/alee724/scheduler/internal/clock"
	"github.com/alee724/scheduler/internal/dateutil"
	"github.com/alee724/scheduler/internal/ledger"
	"github.com/alee724/scheduler/internal/sheet"
	"github.com/alee724/scheduler/internal/tui/input"
)

// Lines used by the title, column header, footer and prompt.
const chromeLines = 4

// View renders the board.
func (m Model) View() string {
	if m.sheet == nil {
		if m.err != nil {
			return m.styles.ErrorStyle.Render("Error: "+m.err.Error()) + "\n\nq quit\n"
		}
		return "Loading…\n"
	}
	if m.mode == ModeHelp {
		return m.renderHelp()
	}

	board := m.renderTitle() + "\n" + m.renderTable()
	if m.showQueuePanel() {
		board = lipgloss.JoinHorizontal(lipgloss.Top, board, " ", m.renderQueue())
	}
	return board + "\n" + m.renderFooter()
}

// visibleRows returns how many sheet rows fit on screen.
func (m Model) visibleRows() int {
	if m.height <= 0 {
		return 20
	}
	return max(m.height-chromeLines, 1)
}

// ensureCursorVisible scrolls so the cursor row is on screen.
func (m *Model) ensureCursorVisible() {
	visible := m.visibleRows()
	if m.cursor.Row < m.scrollOffset {
		m.scrollOffset = m.cursor.Row
	}
	if m.cursor.Row >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor.Row - visible + 1
	}
	m.scrollOffset = max(m.scrollOffset, 0)
}

func (m Model) showQueuePanel() bool {
	return len(m.queue) > 0 && (m.width == 0 || m.width >= timeColWidth+minColWidth+queuePanelWidth+2)
}

// colWidth divides the space left of the queue panel between the columns.
func (m Model) colWidth() int {
	cols := max(m.sheet.Len(), 1)
	width := m.width
	if width <= 0 {
		width = 120
	}
	width -= timeColWidth
	if m.showQueuePanel() {
		width -= queuePanelWidth + 3
	}
	return min(max(width/cols-1, minColWidth), maxColWidth)
}

func (m Model) renderTitle() string {
	weekday := m.day.Weekday().String()[:3]
	title := m.styles.TitleStyle.Render(fmt.Sprintf("%s %s", weekday, dateutil.FormatDate(m.day)))
	if !m.desk.IsWorkday(m.day) {
		title += m.styles.HelpStyle.Render("  day off")
	}
	switch {
	case m.dirty:
		title += m.styles.DirtyStyle.Render("  ● unsaved")
	case m.created:
		title += m.styles.HelpStyle.Render("  new sheet")
	}

	s := ledger.SummarizeSheet(m.sheet)
	title += fmt.Sprintf("   %d booked · %d served · ", s.Total.Bookings, s.Total.Served)
	title += m.styles.MoneyStyle.Render(fmt.Sprintf("$%d", s.Total.Gross))
	return title
}

func (m Model) renderTable() string {
	width := m.colWidth()
	var b strings.Builder

	b.WriteString(strings.Repeat(" ", timeColWidth))
	if m.sheet.Len() == 0 {
		b.WriteString(m.styles.HelpStyle.Render("No columns. Add one with /column <label>."))
	}
	for i, c := range m.sheet.Columns() {
		label := truncate(c.Label(), width)
		style := m.styles.ColumnHeader
		if i == m.cursor.Col {
			style = style.Underline(true)
		}
		b.WriteString(style.Render(padRight(label, width)))
		b.WriteString(" ")
	}
	b.WriteString("\n")

	nowRow := -1
	if m.isToday() {
		now := m.now()
		if r, err := m.sheet.TimeToRow(clock.MustNew(now.Hour(), now.Minute())); err == nil {
			nowRow = r
		}
	}

	end := min(m.scrollOffset+m.visibleRows(), m.sheet.RowCount())
	for row := m.scrollOffset; row < end; row++ {
		t, _ := m.sheet.RowToTime(row)
		timeStyle := m.styles.TimeColumnStyle
		if row == nowRow {
			timeStyle = m.styles.TimeNowStyle
		}
		b.WriteString(timeStyle.Render(t.String()))
		for col, c := range m.sheet.Columns() {
			b.WriteString(m.renderCell(c, Position{Col: col, Row: row}, width, row < nowRow))
			b.WriteString(" ")
		}
		if row < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderCell draws one slot. A booking's head shows the customer and
// services; the next slot shows price and time.
func (m Model) renderCell(c *sheet.Column, pos Position, width int, past bool) string {
	slot, _ := c.Slot(pos.Row)

	text := ""
	style := m.styles.EmptyCellStyle
	if past {
		style = m.styles.PastCellStyle
	}

	switch slot.State {
	case sheet.SlotHead:
		text = cellHeadText(slot.Booking)
		style = m.bookingStyle(c, slot.Head, slot.Booking)
	case sheet.SlotContinuation:
		head, _ := c.Slot(slot.Head)
		if pos.Row == slot.Head+1 {
			text = cellDetailText(head.Booking)
		}
		style = m.bookingStyle(c, slot.Head, head.Booking)
	default:
		text = "·"
	}

	if m.mode == ModePick && m.inDropPreview(pos) {
		style = m.styles.DropBlockedStyle
		if m.canDrop(m.cursor) {
			style = m.styles.DropOKStyle
		}
	} else if pos == m.cursor {
		style = m.styles.CursorStyle
	}

	return style.Render(padRight(truncate(" "+text, width), width))
}

// bookingStyle alternates shades between neighbouring bookings in a column.
func (m Model) bookingStyle(c *sheet.Column, head int, b *booking.Booking) lipgloss.Style {
	alt := false
	for i, p := range c.Placements() {
		if p.Head == head {
			alt = i%2 == 1
			break
		}
	}
	switch {
	case b.Served && alt:
		return m.styles.ServedAltStyle
	case b.Served:
		return m.styles.ServedStyle
	case alt:
		return m.styles.BookedAltStyle
	default:
		return m.styles.BookedStyle
	}
}

// inDropPreview reports whether pos lies under the carried booking at the cursor.
func (m Model) inDropPreview(pos Position) bool {
	_, span := m.pickedBooking()
	return pos.Col == m.cursor.Col && pos.Row >= m.cursor.Row && pos.Row < m.cursor.Row+max(span, 1)
}

func cellHeadText(b *booking.Booking) string {
	text := b.Name() + " " + b.Labels()
	if b.Served {
		text = "✓ " + text
	}
	return text
}

func cellDetailText(b *booking.Booking) string {
	return fmt.Sprintf("$%d · %s", b.Price(), formatMinutes(b.Duration().TotalMinutes()))
}

func (m Model) renderQueue() string {
	s := m.styles
	lines := []string{s.PanelTitleStyle.Render(fmt.Sprintf("Waiting (%d)", len(m.queue)))}
	inner := queuePanelWidth - 4
	for i, e := range m.queue {
		line := truncate(fmt.Sprintf("#%d %s %s", e.ID, e.Booking.Name(), e.Booking.Labels()), inner)
		if i == m.queueCursor {
			lines = append(lines, s.PanelSelectedStyle.Render(padRight(line, inner)))
			continue
		}
		lines = append(lines, s.PanelItemStyle.Render(line))
	}
	lines = append(lines, "", s.PanelMutedStyle.Render("n seat here · a first fit"))
	return s.PanelStyle.Width(queuePanelWidth - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderFooter() string {
	if m.mode == ModePrompt {
		line := m.prompt.View()
		if matches := input.PromptMatchingCommands(m.prompt.Value(), input.BoardCommands); len(matches) > 0 {
			names := make([]string, len(matches))
			for i, c := range matches {
				names[i] = c.Name
			}
			line += "  " + m.styles.HelpStyle.Render(strings.Join(names, " "))
		}
		return line
	}

	status := m.cellName(m.cursor)
	if b, err := m.bookingAtCursor(); err == nil {
		status += "  " + b.Name() + " · " + b.Labels()
	}
	switch {
	case m.err != nil:
		status = m.styles.ErrorStyle.Render(m.statusMsg)
	case m.statusMsg != "":
		status = m.styles.StatusStyle.Render(m.statusMsg)
	}

	hints := "enter move · x remove · s served · w save · [ ] day · / command · ? help · q quit"
	if m.mode == ModePick {
		hints = "arrows choose slot · enter drop · esc cancel"
	}
	return status + "\n" + m.styles.HelpStyle.Render(hints)
}

var helpLines = [][2]string{
	{"h j k l / arrows", "move the cursor"},
	{"g G / pgup pgdown", "first and last row, page"},
	{"enter, m", "pick up the booking, then drop it"},
	{"x, d", "remove the booking"},
	{"s", "toggle served"},
	{"J K", "select a waiting customer"},
	{"n / a", "seat them at the cursor / in the first slot that fits"},
	{"[ ] / t / N", "previous, next day / today / next workday"},
	{"w / r", "save / discard changes and reload"},
	{"y", "copy the day's totals"},
	{"/", "command prompt (tab completes)"},
	{"q / Q", "save and quit / quit without saving"},
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.TitleStyle.Render("Keys") + "\n\n")
	for _, l := range helpLines {
		fmt.Fprintf(&b, "  %-20s %s\n", l[0], m.styles.HelpStyle.Render(l[1]))
	}
	b.WriteString("\n" + m.styles.TitleStyle.Render("Commands") + "\n\n")
	for _, c := range input.BoardCommands {
		fmt.Fprintf(&b, "  %-20s %s\n", c.Name, m.styles.HelpStyle.Render(c.Description))
	}
	b.WriteString("\n" + m.styles.HelpStyle.Render("press any key"))
	return b.String()
}

// truncate shortens s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// padRight pads s with spaces to width cells.
func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func formatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}
