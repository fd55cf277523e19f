package ui

import (
	"image"

	"github.com/example/numbit/internal/grid"
)

const (
	toolbarWidth  = 112
	statusHeight  = 24
	buttonHeight  = 20
	swatchSize    = 16
	swatchGap     = 4
	swatchColumns = 5
	canvasMargin  = 8
)

// layout positions every element of the window for one frame.
type layout struct {
	width, height int

	toolbar  image.Rectangle
	tools    []image.Rectangle
	swatches []image.Rectangle
	customs  []image.Rectangle
	status   image.Rectangle

	// canvas is square and a whole multiple of cells on each side.
	canvas image.Rectangle
	cells  int
}

func newLayout(width, height, cells, tools, swatches, customs int) layout {
	l := layout{
		width:   width,
		height:  height,
		cells:   cells,
		toolbar: image.Rect(0, 0, toolbarWidth, height),
		status:  image.Rect(toolbarWidth, height-statusHeight, width, height),
	}
	y := 4
	for i := 0; i < tools; i++ {
		l.tools = append(l.tools, image.Rect(4, y, toolbarWidth-4, y+buttonHeight))
		y += buttonHeight + 2
	}
	y += 6
	l.swatches, y = swatchGrid(y, swatches)
	y += 6
	l.customs, _ = swatchGrid(y, customs)

	area := image.Rect(toolbarWidth, 0, width, height-statusHeight).Inset(canvasMargin)
	side := area.Dx()
	if area.Dy() < side {
		side = area.Dy()
	}
	if cells > 0 {
		side -= side % cells
	}
	if side < 0 {
		side = 0
	}
	min := image.Pt(area.Min.X+(area.Dx()-side)/2, area.Min.Y+(area.Dy()-side)/2)
	l.canvas = image.Rectangle{Min: min, Max: min.Add(image.Pt(side, side))}
	return l
}

func swatchGrid(y, n int) ([]image.Rectangle, int) {
	var rects []image.Rectangle
	for i := 0; i < n; i++ {
		col := i % swatchColumns
		if i > 0 && col == 0 {
			y += swatchSize + swatchGap
		}
		x := 6 + col*(swatchSize+swatchGap)
		rects = append(rects, image.Rect(x, y, x+swatchSize, y+swatchSize))
	}
	if n > 0 {
		y += swatchSize
	}
	return rects, y
}

// cellAt maps a window point to a row-major cell index, or grid.Invalid.
func (l layout) cellAt(p image.Point) int {
	if l.cells <= 0 || !p.In(l.canvas) {
		return grid.Invalid
	}
	cell := l.canvas.Dx() / l.cells
	if cell == 0 {
		return grid.Invalid
	}
	x := (p.X - l.canvas.Min.X) / cell
	y := (p.Y - l.canvas.Min.Y) / cell
	if x >= l.cells || y >= l.cells {
		return grid.Invalid
	}
	return y*l.cells + x
}

// cellRect returns the window rectangle covered by cell index i.
func (l layout) cellRect(i int) image.Rectangle {
	cell := l.canvas.Dx() / l.cells
	x, y := i%l.cells, i/l.cells
	min := l.canvas.Min.Add(image.Pt(x*cell, y*cell))
	return image.Rectangle{Min: min, Max: min.Add(image.Pt(cell, cell))}
}

func hit(rects []image.Rectangle, p image.Point) int {
	for i, r := range rects {
		if p.In(r) {
			return i
		}
	}
	return -1
}
