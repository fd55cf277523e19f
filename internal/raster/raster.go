// Package raster converts a drag between two grid points into the cells a
// shape tool covers. Results may contain duplicates and are unordered for
// rectangles and ellipses; callers write them through map semantics.
package raster

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// FillMode selects how a shape is drawn.
type FillMode int

const (
	Filled FillMode = iota
	Outline
	Dashed
)

// ErrUnknownFillMode is returned by ParseFillMode.
var ErrUnknownFillMode = errors.New("unknown fill mode")

var fillModeNames = []string{"filled", "outline", "dashed"}

func (m FillMode) String() string {
	if m < 0 || int(m) >= len(fillModeNames) {
		return fmt.Sprintf("FillMode(%d)", int(m))
	}
	return fillModeNames[m]
}

// ParseFillMode maps a name to a FillMode.
func ParseFillMode(s string) (FillMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range fillModeNames {
		if n == name {
			return FillMode(i), nil
		}
	}
	return Filled, fmt.Errorf("%w %q", ErrUnknownFillMode, s)
}

// Kind names a rasterisable shape.
type Kind int

const (
	KindLine Kind = iota
	KindRect
	KindEllipse
)

// outlineThickness is the width of the ellipse ring in normalised units.
const outlineThickness = 0.15

// Shape dispatches to the rasteriser for k. A drag that has not left its
// anchor always covers exactly that cell, whatever the mode.
func Shape(k Kind, start, end image.Point, mode FillMode) []image.Point {
	if start == end {
		return []image.Point{start}
	}
	switch k {
	case KindLine:
		return Line(start, end, mode)
	case KindRect:
		return Rect(start, end, mode)
	case KindEllipse:
		return Ellipse(start, end, mode)
	}
	return nil
}

// Line walks Bresenham's algorithm from start to end inclusive. Dashed keeps
// every other step of the walk, counted from the start point.
func Line(start, end image.Point, mode FillMode) []image.Point {
	x0, y0 := start.X, start.Y
	x1, y1 := end.X, end.Y
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	var pts []image.Point
	for step := 0; ; step++ {
		if mode != Dashed || step%2 == 0 {
			pts = append(pts, image.Pt(x0, y0))
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
	return pts
}

// Rect covers the bounding box of start and end. Outline keeps the border;
// Dashed keeps border cells where x+y is even.
func Rect(start, end image.Point, mode FillMode) []image.Point {
	r := bounds(start, end)
	var pts []image.Point
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		for x := r.Min.X; x <= r.Max.X; x++ {
			if mode != Filled {
				edge := x == r.Min.X || x == r.Max.X || y == r.Min.Y || y == r.Max.Y
				if !edge || (mode == Dashed && !even(x+y)) {
					continue
				}
			}
			pts = append(pts, image.Pt(x, y))
		}
	}
	return pts
}

// Ellipse covers the ellipse inscribed in the bounding box of start and end.
// Radii are padded by half a cell so boundary cells are included.
func Ellipse(start, end image.Point, mode FillMode) []image.Point {
	r := bounds(start, end)
	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	rx := float64(r.Max.X-r.Min.X)/2 + 0.5
	ry := float64(r.Max.Y-r.Min.Y)/2 + 0.5
	var pts []image.Point
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		for x := r.Min.X; x <= r.Max.X; x++ {
			nx := (float64(x) - cx) / rx
			ny := (float64(y) - cy) / ry
			d := nx*nx + ny*ny
			if d > 1 {
				continue
			}
			if mode != Filled {
				if d < 1-outlineThickness || (mode == Dashed && !even(x+y)) {
					continue
				}
			}
			pts = append(pts, image.Pt(x, y))
		}
	}
	return pts
}

// bounds returns the inclusive box spanned by a and b; Max is part of the box.
func bounds(a, b image.Point) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(min(a.X, b.X), min(a.Y, b.Y)),
		Max: image.Pt(max(a.X, b.X), max(a.Y, b.Y)),
	}
}

func even(n int) bool { return n%2 == 0 }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
