package ui

import (
	"os"

	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Booking heads: bold cyan so the start of each appointment stands out
	colorBooked = color.New(color.FgCyan, color.Bold)

	// Continuation rows of a booking
	colorSpan = color.New(color.FgCyan)

	// Served bookings: green
	colorServed = color.New(color.FgGreen)

	// Money totals: yellow to make it pop
	colorMoney = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Warnings and rejected operations
	colorWarn = color.New(color.FgRed)
)

func init() {
	if termenv.EnvNoColor() {
		DisableColor()
	}
}

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatBooked(s string) string { return colorBooked.Sprint(s) }

func formatSpan(s string) string { return colorSpan.Sprint(s) }

func formatServed(s string) string { return colorServed.Sprint(s) }

func formatMoney(s string) string { return colorMoney.Sprint(s) }

func formatHeader(s string) string { return colorHeader.Sprint(s) }

func formatMuted(s string) string { return colorMuted.Sprint(s) }

func formatWarn(s string) string { return colorWarn.Sprint(s) }
