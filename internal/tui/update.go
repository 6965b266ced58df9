package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/alee724/scheduler/internal/clock"
	"github.com/alee724/scheduler/internal/dateutil"
	"github.com/alee724/scheduler/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		return m, nil

	case commands.SheetLoadedMsg:
		m.day = msg.Day
		m.sheet = msg.Sheet
		m.created = msg.Created
		m.dirty = false
		m.seated = nil
		m.loading = false
		m.mode = ModeNormal
		m.cursor = Position{}
		m.scrollOffset = 0
		m.focusCursorOnNow()
		m.logger.Debug("sheet loaded",
			zap.String("date", dateutil.FormatDate(msg.Day)),
			zap.Bool("created", msg.Created),
			zap.Int("bookings", len(msg.Sheet.Bookings())))
		return m, nil

	case commands.SheetSavedMsg:
		if msg.Quit {
			return m, tea.Quit
		}
		if msg.Day.Equal(m.day) {
			m.dirty = false
			m.created = false
			m.seated = nil
		}
		saved, status := m.setStatus(fmt.Sprintf("Saved %s", dateutil.FormatDate(msg.Day)))
		if msg.Next.IsZero() {
			return saved, status
		}
		saved.loading = true
		return saved, tea.Batch(status,
			commands.LoadSheet(m.desk, msg.Next), commands.LoadQueue(m.desk))

	case commands.QueueLoadedMsg:
		m.queue = m.waiting(msg.Entries)
		m.queueCursor = min(m.queueCursor, max(len(m.queue)-1, 0))
		return m, nil

	case commands.ErrMsg:
		m.err = msg.Err
		m.loading = false
		m.logger.Error("board error", zap.Error(msg.Err))
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = m.now().Add(5 * time.Second)
		return m, nil

	case commands.StatusMsgCmd:
		return m.setStatus(msg.Msg)

	case commands.ClearStatusMsg:
		if m.now().After(m.statusTime) {
			m.statusMsg = ""
			m.err = nil
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	return m, nil
}

// setStatus shows msg in the footer for a few seconds.
func (m Model) setStatus(msg string) (Model, tea.Cmd) {
	m.statusMsg = msg
	m.err = nil
	m.statusTime = m.now().Add(3 * time.Second)
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// setError shows err in the footer.
func (m Model) setError(err error) (Model, tea.Cmd) {
	m.logger.Debug("edit rejected", zap.Error(err))
	m.err = err
	m.statusMsg = err.Error()
	m.statusTime = m.now().Add(5 * time.Second)
	return m, tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// focusCursorOnNow puts the cursor on the current time when the board shows
// today.
func (m *Model) focusCursorOnNow() {
	if m.sheet == nil || !m.isToday() {
		return
	}
	now := m.now()
	row, err := m.sheet.TimeToRow(clock.MustNew(now.Hour(), now.Minute()))
	if err != nil {
		return
	}
	m.cursor.Row = row
	m.ensureCursorVisible()
}
