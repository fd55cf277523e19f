// Package grid holds the pixel raster edited by a session. A Grid is an
// immutable value; edits go through a Canvas and are frozen back into a new
// Grid so history snapshots never share storage with the live raster.
package grid

import (
	"errors"
	"fmt"
	"image"
)

const (
	// MinSize and MaxSize bound each grid dimension.
	MinSize = 4
	MaxSize = 64
	// DefaultSize is the side length of a new session's grid.
	DefaultSize = 16
)

// Invalid is returned by IndexOf for coordinates outside the grid.
const Invalid = -1

// ErrSize reports a dimension outside [MinSize, MaxSize].
var ErrSize = errors.New("grid size out of range")

// ValidSize reports whether n is an accepted grid dimension.
func ValidSize(n int) bool { return n >= MinSize && n <= MaxSize }

type dims struct {
	width, height int
}

// Width returns the number of columns.
func (d dims) Width() int { return d.width }

// Height returns the number of rows.
func (d dims) Height() int { return d.height }

// Len returns width*height.
func (d dims) Len() int { return d.width * d.height }

// IndexOf maps (x, y) to its row-major index, or Invalid when out of bounds.
func (d dims) IndexOf(x, y int) int {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return Invalid
	}
	return y*d.width + x
}

// CoordOf is the inverse of IndexOf.
func (d dims) CoordOf(index int) image.Point {
	if d.width == 0 {
		return image.Point{}
	}
	return image.Pt(index%d.width, index/d.width)
}

// Contains reports whether p lies inside the grid.
func (d dims) Contains(p image.Point) bool {
	return d.IndexOf(p.X, p.Y) != Invalid
}

// ValidIndex reports whether index addresses a cell.
func (d dims) ValidIndex(index int) bool {
	return index >= 0 && index < d.Len()
}

// Grid is a width×height raster of nullable colours in row-major order.
type Grid struct {
	dims
	cells []Color
}

// New returns an all-empty grid.
func New(width, height int) (Grid, error) {
	if !ValidSize(width) || !ValidSize(height) {
		return Grid{}, fmt.Errorf("%w: %dx%d", ErrSize, width, height)
	}
	return Grid{dims: dims{width, height}, cells: make([]Color, width*height)}, nil
}

// FromCells builds a grid from a copy of cells.
func FromCells(width, height int, cells []Color) (Grid, error) {
	g, err := New(width, height)
	if err != nil {
		return Grid{}, err
	}
	if len(cells) != len(g.cells) {
		return Grid{}, fmt.Errorf("grid %dx%d needs %d cells, got %d", width, height, len(g.cells), len(cells))
	}
	copy(g.cells, cells)
	return g, nil
}

// At returns the colour at (x, y); out-of-range reads are Empty.
func (g Grid) At(x, y int) Color {
	i := g.IndexOf(x, y)
	if i == Invalid {
		return Empty
	}
	return g.cells[i]
}

// Get returns the colour at index; out-of-range reads are Empty.
func (g Grid) Get(index int) Color {
	if !g.ValidIndex(index) {
		return Empty
	}
	return g.cells[index]
}

// Set returns a copy of g with (x, y) set to c. Out-of-range writes return g.
func (g Grid) Set(x, y int, c Color) Grid {
	i := g.IndexOf(x, y)
	if i == Invalid {
		return g
	}
	cv := g.Canvas()
	cv.cells[i] = c
	return cv.freeze()
}

// Cells returns a copy of the cells.
func (g Grid) Cells() []Color {
	out := make([]Color, len(g.cells))
	copy(out, g.cells)
	return out
}

// Equal reports whether both grids have the same dimensions and cells.
func (g Grid) Equal(o Grid) bool {
	if g.dims != o.dims || len(g.cells) != len(o.cells) {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// IsBlank reports whether every cell is Empty.
func (g Grid) IsBlank() bool {
	for _, c := range g.cells {
		if c != Empty {
			return false
		}
	}
	return true
}

// Canvas returns a writable copy of g.
func (g Grid) Canvas() *Canvas {
	return &Canvas{dims: g.dims, cells: g.Cells()}
}

// Compose returns the cells of g with o drawn on top.
func (g Grid) Compose(o Overlay) []Color {
	out := g.Cells()
	for i, c := range o {
		if i >= 0 && i < len(out) {
			out[i] = c
		}
	}
	return out
}

// Merge returns a new grid with o written into it.
func (g Grid) Merge(o Overlay) Grid {
	return Grid{dims: g.dims, cells: g.Compose(o)}
}

// Canvas is a mutable working copy of a Grid used by tool bodies.
type Canvas struct {
	dims
	cells []Color
}

// NewCanvas returns an all-empty canvas; dimensions are not range checked.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{dims: dims{width, height}, cells: make([]Color, width*height)}
}

// At returns the colour at (x, y); out-of-range reads are Empty.
func (c *Canvas) At(x, y int) Color {
	i := c.IndexOf(x, y)
	if i == Invalid {
		return Empty
	}
	return c.cells[i]
}

// Get returns the colour at index; out-of-range reads are Empty.
func (c *Canvas) Get(index int) Color {
	if !c.ValidIndex(index) {
		return Empty
	}
	return c.cells[index]
}

// Set writes col at (x, y) and reports whether the point was in bounds.
func (c *Canvas) Set(x, y int, col Color) bool {
	i := c.IndexOf(x, y)
	if i == Invalid {
		return false
	}
	c.cells[i] = col
	return true
}

// SetIndex writes col at index and reports whether index was valid.
func (c *Canvas) SetIndex(index int, col Color) bool {
	if !c.ValidIndex(index) {
		return false
	}
	c.cells[index] = col
	return true
}

// Fill sets every cell to col.
func (c *Canvas) Fill(col Color) {
	for i := range c.cells {
		c.cells[i] = col
	}
}

// Grid returns an immutable copy of the canvas.
func (c *Canvas) Grid() Grid {
	out := make([]Color, len(c.cells))
	copy(out, c.cells)
	return Grid{dims: c.dims, cells: out}
}

// freeze hands the canvas storage to a Grid. The canvas must not be used afterwards.
func (c *Canvas) freeze() Grid {
	return Grid{dims: c.dims, cells: c.cells}
}

// Overlay is a sparse index→colour map drawn above a grid during a gesture.
type Overlay map[int]Color
