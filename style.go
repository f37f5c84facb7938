package pptgen

import (
	"strings"
)

// Color represents an ARGB color.
type Color struct {
	ARGB string // 8-character hex string, e.g., "FF000000" for black
}

// Predefined colors.
var (
	ColorBlack = Color{ARGB: "FF000000"}
	ColorWhite = Color{ARGB: "FFFFFFFF"}
)

// NewColor creates a new Color from an ARGB hex string.
// Accepts 6-char RGB (e.g. "FF0000") or 8-char ARGB (e.g. "FFFF0000").
// A leading "#" is stripped automatically.
func NewColor(argb string) Color {
	argb = strings.TrimPrefix(argb, "#")
	if len(argb) == 6 {
		argb = "FF" + argb
	}
	argb = strings.ToUpper(argb)
	if !isValidARGB(argb) {
		return ColorBlack
	}
	return Color{ARGB: argb}
}

// isValidARGB checks that s is exactly 8 hex characters.
func isValidARGB(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// Font represents text font properties. Zero-valued fields are left out
// of the emitted run properties so the placeholder's formatting shows
// through.
type Font struct {
	Size      int // in points
	Bold      bool
	Italic    bool
	Underline bool
	Color     Color
}

// Alignment represents paragraph alignment properties.
type Alignment struct {
	Horizontal HorizontalAlignment
	Level      int
}

// HorizontalAlignment represents horizontal text alignment.
type HorizontalAlignment string

const (
	HorizontalLeft   HorizontalAlignment = "l"
	HorizontalCenter HorizontalAlignment = "ctr"
	HorizontalRight  HorizontalAlignment = "r"
)

// Fill represents a shape fill.
type Fill struct {
	Type  FillType
	Color Color
}

// FillType represents the type of fill.
type FillType int

const (
	FillNone FillType = iota
	FillSolid
)

// SolidFill returns a solid fill of the given color.
func SolidFill(color Color) *Fill {
	return &Fill{Type: FillSolid, Color: color}
}

// Hyperlink represents an external hyperlink.
type Hyperlink struct {
	URL string
}
