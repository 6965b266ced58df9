package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alee724/scheduler/internal/tui/theme"
)

const (
	timeColWidth    = 7
	minColWidth     = 12
	maxColWidth     = 30
	queuePanelWidth = 30
)

// Styles holds all lipgloss styles for the board, derived from a theme.
type Styles struct {
	TitleStyle      lipgloss.Style
	DirtyStyle      lipgloss.Style
	ColumnHeader    lipgloss.Style
	TimeColumnStyle lipgloss.Style
	TimeNowStyle    lipgloss.Style

	// Cells
	EmptyCellStyle   lipgloss.Style
	PastCellStyle    lipgloss.Style
	BookedStyle      lipgloss.Style
	BookedAltStyle   lipgloss.Style // adjacent bookings in a column alternate
	ServedStyle      lipgloss.Style
	ServedAltStyle   lipgloss.Style
	CursorStyle      lipgloss.Style
	DropOKStyle      lipgloss.Style // pick-up preview that fits
	DropBlockedStyle lipgloss.Style

	// Queue panel
	PanelStyle         lipgloss.Style
	PanelTitleStyle    lipgloss.Style
	PanelItemStyle     lipgloss.Style
	PanelSelectedStyle lipgloss.Style
	PanelMutedStyle    lipgloss.Style

	// Footer
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style
	PromptStyle lipgloss.Style
	MoneyStyle  lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)
	s.DirtyStyle = lipgloss.NewStyle().
		Foreground(p.Warning)

	s.ColumnHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Fg).
		Background(p.BgHighlight)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Width(timeColWidth)
	s.TimeNowStyle = s.TimeColumnStyle.
		Foreground(p.Current).
		Bold(true)

	cell := lipgloss.NewStyle()
	s.EmptyCellStyle = cell.Foreground(p.FgMuted)
	s.PastCellStyle = cell.Foreground(p.FgMuted).Background(p.PastBg)

	s.BookedStyle = cell.Background(p.BookedCell.Bg).Foreground(p.BookedCell.Text).Bold(true)
	s.BookedAltStyle = cell.Background(p.BookedCell.AltBg).Foreground(p.BookedCell.AltText).Bold(true)
	s.ServedStyle = cell.Background(p.ServedCell.Bg).Foreground(p.ServedCell.Text)
	s.ServedAltStyle = cell.Background(p.ServedCell.AltBg).Foreground(p.ServedCell.AltText)

	s.CursorStyle = cell.Background(p.BgSelection).Foreground(p.Fg).Bold(true)
	s.DropOKStyle = cell.Background(p.Current).Foreground(p.TextOnCurrent)
	s.DropBlockedStyle = cell.Background(p.Warning).Foreground(p.TextOnWarning)

	s.PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Panel.Border).
		Background(p.Panel.Bg).
		Foreground(p.Panel.Text).
		Padding(0, 1)
	s.PanelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	s.PanelItemStyle = lipgloss.NewStyle().Foreground(p.Panel.Text)
	s.PanelSelectedStyle = lipgloss.NewStyle().Foreground(p.TextOnAccent).Background(p.Accent)
	s.PanelMutedStyle = lipgloss.NewStyle().Foreground(p.Panel.Muted)

	s.StatusStyle = lipgloss.NewStyle().Foreground(p.Current)
	s.ErrorStyle = lipgloss.NewStyle().Foreground(p.Warning).Bold(true)
	s.HelpStyle = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.PromptStyle = lipgloss.NewStyle().Foreground(p.Accent)
	s.MoneyStyle = lipgloss.NewStyle().Foreground(p.Served).Bold(true)

	return s
}
