package grid

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is the value stored in a grid cell, encoded as "#rrggbb".
// The zero value is Empty and represents a transparent cell.
type Color string

// Empty marks a transparent cell.
const Empty Color = ""

// ShadeStep is the brightness step, in percent, removed by one shading pass.
const ShadeStep = 20

// IsEmpty reports whether c is the transparent value.
func (c Color) IsEmpty() bool { return c == Empty }

// RGBA decodes c. ok is false for Empty and for values that are not hex encoded.
func (c Color) RGBA() (rgba color.RGBA, ok bool) {
	s := strings.TrimPrefix(string(c), "#")
	if len(s) == len(c) {
		return color.RGBA{}, false
	}
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return color.RGBA{}, false
	}
	val, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{
		R: uint8(val >> 16),
		G: uint8((val >> 8) & 0xFF),
		B: uint8(val & 0xFF),
		A: 255,
	}, true
}

// String returns the hex form, or "none" for Empty.
func (c Color) String() string {
	if c == Empty {
		return "none"
	}
	return string(c)
}

// MarshalJSON encodes Empty as null.
func (c Color) MarshalJSON() ([]byte, error) {
	if c == Empty {
		return []byte("null"), nil
	}
	return json.Marshal(string(c))
}

// UnmarshalJSON decodes null as Empty.
func (c *Color) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Empty
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = Color(s)
	return nil
}

// FromRGBA encodes an opaque colour. Alpha is ignored.
func FromRGBA(c color.RGBA) Color {
	return Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// ParseColor accepts #rgb, #rrggbb, CSS colour names and "none"/"transparent".
// The result is normalised to lower case #rrggbb.
func ParseColor(s string) (Color, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	switch spec {
	case "":
		return Empty, fmt.Errorf("color cannot be empty")
	case "none", "transparent":
		return Empty, nil
	}
	if c, ok := colornames.Map[spec]; ok {
		return FromRGBA(c), nil
	}
	if !strings.HasPrefix(spec, "#") {
		return Empty, fmt.Errorf("invalid color %q", s)
	}
	rgba, ok := Color(spec).RGBA()
	if !ok {
		return Empty, fmt.Errorf("invalid color %q", s)
	}
	return FromRGBA(rgba), nil
}

// Shade darkens c by percent of the full channel range. Empty and
// undecodable values are returned unchanged with ok set to false.
func Shade(c Color, percent int) (shaded Color, ok bool) {
	rgba, ok := c.RGBA()
	if !ok {
		return c, false
	}
	step := int(math.Round(2.55 * float64(percent)))
	darken := func(v uint8) uint8 {
		n := int(v) - step
		if n < 0 {
			return 0
		}
		if n > 255 {
			return 255
		}
		return uint8(n)
	}
	rgba.R = darken(rgba.R)
	rgba.G = darken(rgba.G)
	rgba.B = darken(rgba.B)
	return FromRGBA(rgba), true
}
