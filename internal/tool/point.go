package tool

import (
	"image"
	"math/rand"

	"github.com/example/numbit/internal/grid"
)

const (
	// MinBrush and MaxBrush bound the brush size.
	MinBrush = 1
	MaxBrush = 8

	sprayRadius      = 2
	sprayProbability = 0.3
)

// Params carries the session settings a tool body reads.
type Params struct {
	Color     grid.Color
	BrushSize int
	// Rand drives the spray tool. The package generator is used when nil.
	Rand *rand.Rand
}

// ClampBrush limits n to [MinBrush, MaxBrush].
func ClampBrush(n int) int {
	if n < MinBrush {
		return MinBrush
	}
	if n > MaxBrush {
		return MaxBrush
	}
	return n
}

// Apply runs the point tool t at p and reports whether any cell changed.
// Shape, move and picker tools are not point tools and leave c untouched.
func Apply(c *grid.Canvas, t Tool, p image.Point, params Params) bool {
	if !c.Contains(p) {
		return false
	}
	changed := false
	switch t {
	case Pen:
		for _, q := range brush(p, params.BrushSize) {
			changed = paint(c, q, params.Color) || changed
		}
	case Eraser:
		for _, q := range brush(p, params.BrushSize) {
			changed = paint(c, q, grid.Empty) || changed
		}
	case Mirror:
		for _, q := range brush(p, params.BrushSize) {
			changed = paint(c, q, params.Color) || changed
			if c.Contains(q) {
				changed = paint(c, image.Pt(c.Width()-1-q.X, q.Y), params.Color) || changed
			}
		}
	case Dither:
		for _, q := range brush(p, params.BrushSize) {
			if (q.X+q.Y)%2 == 0 {
				changed = paint(c, q, params.Color) || changed
			}
		}
	case Shading:
		for _, q := range brush(p, params.BrushSize) {
			if shaded, ok := grid.Shade(c.At(q.X, q.Y), grid.ShadeStep); ok {
				changed = paint(c, q, shaded) || changed
			}
		}
	case Spray:
		changed = spray(c, p, params.Color, params.Rand)
	case Bucket:
		changed = FloodFill(c, p, params.Color)
	}
	return changed
}

// brush returns the size×size block around p. Odd sizes are centred on p;
// even sizes extend one cell further right and down.
func brush(p image.Point, size int) []image.Point {
	size = ClampBrush(size)
	if size == 1 {
		return []image.Point{p}
	}
	off := (size - 1) / 2
	pts := make([]image.Point, 0, size*size)
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			pts = append(pts, image.Pt(p.X-off+dx, p.Y-off+dy))
		}
	}
	return pts
}

func paint(c *grid.Canvas, p image.Point, col grid.Color) bool {
	i := c.IndexOf(p.X, p.Y)
	if i == grid.Invalid || c.Get(i) == col {
		return false
	}
	return c.SetIndex(i, col)
}

func spray(c *grid.Canvas, p image.Point, col grid.Color, r *rand.Rand) bool {
	roll := rand.Float64
	if r != nil {
		roll = r.Float64
	}
	changed := false
	for dy := -sprayRadius; dy <= sprayRadius; dy++ {
		for dx := -sprayRadius; dx <= sprayRadius; dx++ {
			q := p.Add(image.Pt(dx, dy))
			if !c.Contains(q) {
				continue
			}
			if roll() < sprayProbability {
				changed = paint(c, q, col) || changed
			}
		}
	}
	return changed
}

// FloodFill replaces the 4-connected region of cells sharing the colour at
// start with fill. It uses an explicit stack so depth is bounded by the cell
// count, and reports whether anything changed.
func FloodFill(c *grid.Canvas, start image.Point, fill grid.Color) bool {
	first := c.IndexOf(start.X, start.Y)
	if first == grid.Invalid {
		return false
	}
	target := c.Get(first)
	if target == fill {
		return false
	}
	w, h := c.Width(), c.Height()
	visited := make([]bool, c.Len())
	stack := []int{first}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			continue
		}
		visited[i] = true
		if c.Get(i) != target {
			continue
		}
		c.SetIndex(i, fill)
		x, y := i%w, i/w
		if x > 0 {
			stack = append(stack, i-1)
		}
		if x < w-1 {
			stack = append(stack, i+1)
		}
		if y > 0 {
			stack = append(stack, i-w)
		}
		if y < h-1 {
			stack = append(stack, i+w)
		}
	}
	return true
}

// Pick returns the colour under p for the pipette; ok is false for empty or
// out-of-range cells.
func Pick(g grid.Grid, p image.Point) (grid.Color, bool) {
	col := g.At(p.X, p.Y)
	return col, col != grid.Empty
}
