// Package palette provides the colour swatches offered to the user: the
// preset palette, named palettes loaded from TOML files and the user's
// custom colours.
package palette

import (
	"image/color"

	"github.com/example/numbit/internal/grid"
)

// DefaultName names the built-in palette.
const DefaultName = "numbit"

// Palette is a named, ordered list of swatches plus the colours used to draw
// the editor chrome around them.
type Palette struct {
	Name       string
	Colors     []grid.Color
	Background grid.Color
	UI         UI
}

// UI holds the colours of the desktop window chrome.
type UI struct {
	Toolbar      color.RGBA
	Button       color.RGBA
	ButtonActive color.RGBA
	Text         color.RGBA
	GridLine     color.RGBA
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

var presets = []grid.Color{
	"#ffffff", "#000000", "#ef4444", "#f97316", "#f59e0b",
	"#84cc16", "#10b981", "#06b6d4", "#3b82f6", "#6366f1",
	"#8b5cf6", "#d946ef", "#f43f5e", "#78350f", "#71717a",
}

// DefaultUI returns the chrome colours used when a palette file omits them.
func DefaultUI() UI {
	return UI{
		Toolbar:      color.RGBA{39, 39, 42, 255},
		Button:       color.RGBA{63, 63, 70, 255},
		ButtonActive: color.RGBA{99, 102, 241, 255},
		Text:         color.RGBA{244, 244, 245, 255},
		GridLine:     color.RGBA{82, 82, 91, 255},
		CheckerLight: color.RGBA{220, 220, 220, 255},
		CheckerDark:  color.RGBA{192, 192, 192, 255},
	}
}

// Default returns the built-in palette.
func Default() Palette {
	cols := make([]grid.Color, len(presets))
	copy(cols, presets)
	return Palette{
		Name:       DefaultName,
		Colors:     cols,
		Background: "#000000",
		UI:         DefaultUI(),
	}
}

// Contains reports whether c is one of the palette swatches.
func (p Palette) Contains(c grid.Color) bool {
	return Index(p.Colors, c) >= 0
}

// Index returns the position of c in cols or -1.
func Index(cols []grid.Color, c grid.Color) int {
	for i, v := range cols {
		if v == c {
			return i
		}
	}
	return -1
}

// AddCustom appends c to custom unless it is empty or already present. The
// returned slice never aliases custom.
func AddCustom(custom []grid.Color, c grid.Color) ([]grid.Color, bool) {
	out := make([]grid.Color, len(custom), len(custom)+1)
	copy(out, custom)
	if c.IsEmpty() || Index(custom, c) >= 0 {
		return out, false
	}
	return append(out, c), true
}
