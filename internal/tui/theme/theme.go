// Package theme provides color themes for the board.
package theme

import (
	"embed"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Theme holds all colors for a board theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Header, alternate rows
	BgSelection string `toml:"bg_selection"` // Cursor, selection
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Empty slots, hints
	Accent      string `toml:"accent"`       // Title, borders
	Booked      string `toml:"booked"`       // Bookings still waiting
	Served      string `toml:"served"`       // Bookings marked served
	Current     string `toml:"current"`      // Row of the current time
	Warning     string `toml:"warning"`      // Errors, pick-up mode

	// Side panel (queue and help), falls back to base colors
	PanelBg     string `toml:"panel_bg"`
	PanelBorder string `toml:"panel_border"`
	PanelText   string `toml:"panel_text"`
}

// Load loads a theme by name from embedded files.
// Falls back to mocha if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = "mocha"
	}
	name = strings.ToLower(name)

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != "mocha" {
			return Load("mocha")
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

func (t *Theme) applyDefaults() {
	t.PanelBg = coalesce(t.PanelBg, t.BgHighlight, t.Bg)
	t.PanelBorder = coalesce(t.PanelBorder, t.Accent)
	t.PanelText = coalesce(t.PanelText, t.Fg)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte", "light"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}
