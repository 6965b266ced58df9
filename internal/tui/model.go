// Package tui provides the interactive appointment board.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/alee724/scheduler/internal/booking"
	"github.com/alee724/scheduler/internal/config"
	"github.com/alee724/scheduler/internal/dateutil"
	"github.com/alee724/scheduler/internal/desk"
	"github.com/alee724/scheduler/internal/logging"
	"github.com/alee724/scheduler/internal/sheet"
	"github.com/alee724/scheduler/internal/tui/commands"
	"github.com/alee724/scheduler/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePick        // Carrying a booking to a new slot
	ModePrompt
	ModeHelp
)

// Position is a cell on the sheet.
type Position struct {
	Col int
	Row int
}

// Model is the board model. Edits are made on the in-memory sheet and
// written when the user saves or quits.
type Model struct {
	desk   *desk.Desk
	config *config.Config
	logger *zap.Logger

	theme  *theme.Theme
	styles *Styles

	day     time.Time
	sheet   *sheet.Sheet
	created bool    // sheet has never been saved
	dirty   bool    // unsaved edits
	seated  []int64 // queue entries placed since the last save
	loading bool

	queue       []*booking.QueueEntry
	queueCursor int

	cursor Position
	picked Position // head of the booking being carried in ModePick
	mode   Mode

	prompt textinput.Model

	width        int
	height       int
	scrollOffset int

	statusMsg  string
	statusTime time.Time
	err        error

	now func() time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) { m.now = now }
}

// New creates a board for day.
func New(d *desk.Desk, cfg *config.Config, day time.Time, logger *zap.Logger, opts ...ModelOption) *Model {
	ti := textinput.New()
	ti.Placeholder = "/seat 3"
	ti.CharLimit = 128

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}

	m := &Model{
		desk:    d,
		config:  cfg,
		logger:  logging.Or(logger),
		theme:   t,
		styles:  NewStyles(t),
		day:     dateutil.TruncateToDay(day),
		loading: true,
		mode:    ModeNormal,
		prompt:  ti,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init loads the sheet and the queue.
func (m Model) Init() tea.Cmd {
	return tea.Batch(commands.LoadSheet(m.desk, m.day), commands.LoadQueue(m.desk))
}

// Run starts the board for day and blocks until the user quits.
func Run(d *desk.Desk, cfg *config.Config, day time.Time, logger *zap.Logger) error {
	m := New(d, cfg, day, logger)
	p := tea.NewProgram(*m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.dirty {
		m.logger.Warn("board closed with unsaved changes", zap.String("date", dateutil.FormatDate(fm.day)))
	}
	return nil
}

// isToday reports whether the board shows the current day.
func (m Model) isToday() bool {
	return dateutil.TruncateToDay(m.now()).Equal(m.day)
}

// selectedQueueEntry returns the highlighted queue entry, if any.
func (m Model) selectedQueueEntry() *booking.QueueEntry {
	if m.queueCursor < 0 || m.queueCursor >= len(m.queue) {
		return nil
	}
	return m.queue[m.queueCursor]
}

// waiting returns the queue without entries already seated on the board.
func (m Model) waiting(entries []*booking.QueueEntry) []*booking.QueueEntry {
	if len(m.seated) == 0 {
		return entries
	}
	out := make([]*booking.QueueEntry, 0, len(entries))
	for _, e := range entries {
		seated := false
		for _, id := range m.seated {
			if e.ID == id {
				seated = true
				break
			}
		}
		if !seated {
			out = append(out, e)
		}
	}
	return out
}
