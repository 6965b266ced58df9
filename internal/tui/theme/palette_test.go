package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func darkTheme() *Theme {
	return &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#000000",
		Accent:      "#ff0000",
		Booked:      "#000000",
		Served:      "#80ff40",
		Current:     "#777777",
		Warning:     "#888888",
	}
}

func TestNewPalette_BuiltInThemes(t *testing.T) {
	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			th, err := Load(name)
			if err != nil {
				t.Fatalf("Load(%q) failed: %v", name, err)
			}
			p := NewPalette(th)

			if p.BookedCell.Bg == p.ServedCell.Bg {
				t.Errorf("served cells look like booked cells: %q", p.BookedCell.Bg)
			}
			for _, cell := range []struct {
				name string
				c    CellColors
			}{{"booked", p.BookedCell}, {"served", p.ServedCell}} {
				if r := contrast(string(cell.c.Bg), string(cell.c.AltBg)); r < 1.1 {
					t.Errorf("%s alternate shade contrast = %.2f, want adjacent bookings apart", cell.name, r)
				}
				if r := contrast(string(cell.c.Text), string(cell.c.Bg)); r < 3 {
					t.Errorf("%s text contrast = %.2f, want at least 3", cell.name, r)
				}
				if r := contrast(string(cell.c.AltText), string(cell.c.AltBg)); r < 2.5 {
					t.Errorf("%s alternate text contrast = %.2f, want at least 2.5", cell.name, r)
				}
			}
			if p.PastBg == p.Bg || p.PastBg == p.BookedCell.Bg {
				t.Errorf("past rows shade %q blends with the board", p.PastBg)
			}
		})
	}
}

func TestNewPalette_DarkShadesKeepFloor(t *testing.T) {
	p := NewPalette(darkTheme())

	tests := []struct {
		name string
		got  lipgloss.Color
		want lipgloss.Color
	}{
		{"black booking stays visible", p.BookedCell.Bg, "#282828"},
		{"served is halved per channel", p.ServedCell.Bg, "#408028"},
		{"past rows have a lower floor", p.PastBg, "#1e1e1e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
	if luminance(string(p.ServedCell.AltBg)) <= luminance(string(p.ServedCell.Bg)) {
		t.Error("alternate shade should be lighter on a dark board")
	}
}

func TestNewPalette_LightWashesTowardBackground(t *testing.T) {
	th, err := Load("light")
	if err != nil {
		t.Fatal(err)
	}
	p := NewPalette(th)

	bg := luminance(th.Bg)
	cell := luminance(string(p.BookedCell.Bg))
	if cell <= luminance(th.Booked) || cell >= bg {
		t.Errorf("booked cell luminance = %.3f, want between %.3f and %.3f", cell, luminance(th.Booked), bg)
	}
	if luminance(string(p.BookedCell.AltBg)) >= cell {
		t.Error("alternate shade should be darker on a light board")
	}
	if p.BookedCell.Text != lipgloss.Color(th.Fg) {
		t.Errorf("text on a washed cell = %q, want the theme foreground %q", p.BookedCell.Text, th.Fg)
	}
}

func TestNewPalette_PanelFallbacks(t *testing.T) {
	tests := []struct {
		name       string
		edit       func(*Theme)
		wantBg     string
		wantBorder string
		wantText   string
	}{
		{
			name:       "highlight, accent and fg",
			edit:       func(*Theme) {},
			wantBg:     "#202020",
			wantBorder: "#ff0000",
			wantText:   "#ffffff",
		},
		{
			name:       "base background without a highlight",
			edit:       func(th *Theme) { th.BgHighlight = "" },
			wantBg:     "#101010",
			wantBorder: "#ff0000",
			wantText:   "#ffffff",
		},
		{
			name: "explicit panel colors win",
			edit: func(th *Theme) {
				th.PanelBg, th.PanelBorder, th.PanelText = "#010203", "#040506", "#070809"
			},
			wantBg:     "#010203",
			wantBorder: "#040506",
			wantText:   "#070809",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := darkTheme()
			tt.edit(th)
			th.applyDefaults()
			p := NewPalette(th)

			if p.Panel.Bg != lipgloss.Color(tt.wantBg) {
				t.Errorf("Panel.Bg = %q, want %q", p.Panel.Bg, tt.wantBg)
			}
			if p.Panel.Border.Dark != tt.wantBorder {
				t.Errorf("Panel.Border = %q, want %q", p.Panel.Border.Dark, tt.wantBorder)
			}
			if p.Panel.Text.Dark != tt.wantText {
				t.Errorf("Panel.Text = %q, want %q", p.Panel.Text.Dark, tt.wantText)
			}
		})
	}
}

func TestNewPalette_NilUsesDefaultTheme(t *testing.T) {
	if got := NewPalette(nil).Bg; got != "#1e1e2e" {
		t.Errorf("Bg = %q, want mocha's #1e1e2e", got)
	}
}

func TestBlend(t *testing.T) {
	tests := []struct {
		a, b  string
		ratio float64
		want  string
	}{
		{"#000000", "#ffffff", 0.5, "#808080"},
		{"#000000", "#ffffff", 2, "#ffffff"},
		{"#000000", "#ffffff", -1, "#000000"},
		{"bad", "#ffffff", 0.5, "bad"},
		{"#123456", "bad", 0.5, "#123456"},
	}
	for _, tt := range tests {
		if got := blend(tt.a, tt.b, tt.ratio); got != tt.want {
			t.Errorf("blend(%q, %q, %v) = %q, want %q", tt.a, tt.b, tt.ratio, got, tt.want)
		}
	}
}

func TestReadableOn(t *testing.T) {
	if got := readableOn("#f0f0f0", "#ffffff", "#111111"); got != "#111111" {
		t.Errorf("on a pale cell got %q, want the dark text", got)
	}
	if got := readableOn("#202020", "#ffffff", "#111111"); got != "#ffffff" {
		t.Errorf("on a dark cell got %q, want the light text", got)
	}
}
