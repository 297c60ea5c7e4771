package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// palette is the cycle used for item kinds, chosen to stay readable on dark
// and light terminals.
var palette = []Color{
	ColorBrightRed,
	ColorBrightYellow,
	ColorMagenta,
	ColorBrightMagenta,
	ColorYellow,
	ColorOrange,
	ColorBrightGreen,
	ColorBlue,
	ColorGreen,
	ColorBrightCyan,
	ColorRed,
	ColorCyan,
}

// PaletteColor returns the n-th item color, cycling through the palette.
func PaletteColor(n int) Color {
	if n < 0 {
		n = -n
	}
	return palette[n%len(palette)]
}
