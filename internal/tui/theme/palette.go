package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Booked      lipgloss.Color
	Served      lipgloss.Color
	Current     lipgloss.Color
	Warning     lipgloss.Color

	// Cell shades for waiting and served bookings.
	BookedCell CellColors
	ServedCell CellColors
	PastBg     lipgloss.Color // rows before the current time

	TextOnAccent  lipgloss.Color
	TextOnWarning lipgloss.Color
	TextOnCurrent lipgloss.Color

	Panel PanelColors
}

// CellColors holds a booking cell's background and text. Adjacent bookings
// in a column alternate between the base and Alt colors.
type CellColors struct {
	Bg      lipgloss.Color
	Text    lipgloss.Color
	AltBg   lipgloss.Color
	AltText lipgloss.Color
}

// PanelColors holds the side panel colors.
type PanelColors struct {
	Bg     lipgloss.Color
	Border lipgloss.AdaptiveColor
	Text   lipgloss.AdaptiveColor
	Muted  lipgloss.AdaptiveColor
}

// Shade factors. Dark themes scale the accent down, light themes wash it
// toward the background.
const (
	lightThreshold = 0.55

	cellScale    = 0.50
	cellFloor    = 40.0 / 255
	cellWash     = 0.75
	pastScale    = 0.30
	pastFloor    = 30.0 / 255
	pastWash     = 0.88
	altDarkLift  = 0.15
	altLightSink = 0.10
)

var (
	black = colorful.Color{}
	white = colorful.Color{R: 1, G: 1, B: 1}
)

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load("mocha")
	}
	light := luminance(t.Bg) > lightThreshold

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Booked:      lipgloss.Color(t.Booked),
		Served:      lipgloss.Color(t.Served),
		Current:     lipgloss.Color(t.Current),
		Warning:     lipgloss.Color(t.Warning),

		BookedCell: cellColors(t, t.Booked, light),
		ServedCell: cellColors(t, t.Served, light),
		PastBg:     lipgloss.Color(shade(t.FgMuted, t.Bg, light, pastScale, pastFloor, pastWash)),

		TextOnAccent:  lipgloss.Color(readableOn(t.Accent, t.Bg, t.Fg)),
		TextOnWarning: lipgloss.Color(readableOn(t.Warning, t.Bg, t.Fg)),
		TextOnCurrent: lipgloss.Color(readableOn(t.Current, t.Bg, t.Fg)),

		Panel: PanelColors{
			Bg:     lipgloss.Color(t.PanelBg),
			Border: adaptive(t.PanelBorder),
			Text:   adaptive(t.PanelText),
			Muted:  adaptive(t.FgMuted),
		},
	}
}

func cellColors(t *Theme, accent string, light bool) CellColors {
	bg := shade(accent, t.Bg, light, cellScale, cellFloor, cellWash)
	alt := blend(bg, white.Hex(), altDarkLift)
	if light {
		alt = blend(bg, black.Hex(), altLightSink)
	}
	return CellColors{
		Bg:      lipgloss.Color(bg),
		Text:    lipgloss.Color(readableOn(bg, t.Bg, t.Fg)),
		AltBg:   lipgloss.Color(alt),
		AltText: lipgloss.Color(readableOn(alt, t.Bg, t.Fg)),
	}
}

// shade turns accent into a cell background. On dark themes each channel
// is scaled by factor but kept above floor; on light themes accent is
// washed toward bg by wash.
func shade(accent, bg string, light bool, factor, floor, wash float64) string {
	if light {
		return blend(accent, bg, wash)
	}
	c, err := colorful.Hex(accent)
	if err != nil {
		return accent
	}
	return colorful.Color{
		R: max(c.R*factor, floor),
		G: max(c.G*factor, floor),
		B: max(c.B*factor, floor),
	}.Hex()
}

// blend mixes a toward b by ratio, clamped to [0, 1]. a is returned as is
// when either color does not parse.
func blend(a, b string, ratio float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendRgb(cb, min(max(ratio, 0), 1)).Clamped().Hex()
}

// readableOn picks whichever of the two text colors contrasts more with bg.
func readableOn(bg, lightText, darkText string) string {
	if contrast(bg, lightText) >= contrast(bg, darkText) {
		return lightText
	}
	return darkText
}

// contrast is the WCAG contrast ratio of two colors, from 1 to 21.
func contrast(a, b string) float64 {
	la, lb := luminance(a), luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// luminance is the WCAG relative luminance of hex; unparsable colors count
// as black.
func luminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func adaptive(hex string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: hex, Light: hex}
}
