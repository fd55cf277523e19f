// Package tool implements the bodies of the pixel editing tools. Every tool
// is a member of the closed Tool enumeration; the editor session decides when
// a body runs and when its result is committed.
package tool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/numbit/internal/raster"
)

// Tool identifies an editing tool.
type Tool int

const (
	Pen Tool = iota
	Eraser
	Bucket
	Line
	Square
	Circle
	Mirror
	Dither
	Spray
	Shading
	Pipette
	Move
)

// ErrUnknown is returned by Parse for names that match no tool.
var ErrUnknown = errors.New("unknown tool")

var names = []string{
	Pen:     "pen",
	Eraser:  "eraser",
	Bucket:  "bucket",
	Line:    "line",
	Square:  "square",
	Circle:  "circle",
	Mirror:  "mirror",
	Dither:  "dither",
	Spray:   "spray",
	Shading: "shading",
	Pipette: "pipette",
	Move:    "move",
}

var aliases = map[string]Tool{
	"fill":       Bucket,
	"rect":       Square,
	"rectangle":  Square,
	"ellipse":    Circle,
	"picker":     Pipette,
	"eyedropper": Pipette,
	"shade":      Shading,
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(names) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return names[t]
}

// Valid reports whether t is a member of the enumeration.
func (t Tool) Valid() bool { return t >= 0 && int(t) < len(names) }

// All lists every tool in declaration order.
func All() []Tool {
	out := make([]Tool, len(names))
	for i := range names {
		out[i] = Tool(i)
	}
	return out
}

// Parse maps a tool name or alias to a Tool.
func Parse(s string) (Tool, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == name {
			return Tool(i), nil
		}
	}
	if t, ok := aliases[name]; ok {
		return t, nil
	}
	return Pen, fmt.Errorf("%w %q", ErrUnknown, s)
}

// Kind groups tools by how a gesture drives them.
type Kind int

const (
	// KindPoint tools write to the live grid on every cell entered.
	KindPoint Kind = iota
	// KindShape tools build a preview overlay from the gesture anchor.
	KindShape
	// KindMove translates the whole grid relative to the gesture anchor.
	KindMove
	// KindPicker reads a colour and never writes.
	KindPicker
)

// Kind returns the gesture behaviour of t.
func (t Tool) Kind() Kind {
	switch t {
	case Line, Square, Circle:
		return KindShape
	case Move:
		return KindMove
	case Pipette:
		return KindPicker
	default:
		return KindPoint
	}
}

// Shape returns the rasteriser used by a shape tool.
func (t Tool) Shape() (raster.Kind, bool) {
	switch t {
	case Line:
		return raster.KindLine, true
	case Square:
		return raster.KindRect, true
	case Circle:
		return raster.KindEllipse, true
	}
	return 0, false
}

// UsesBrush reports whether the brush size inflates writes of t.
func (t Tool) UsesBrush() bool {
	switch t {
	case Pen, Eraser, Mirror, Dither, Shading:
		return true
	}
	return false
}
