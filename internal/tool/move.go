package tool

import (
	"image"

	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/raster"
)

// Translate returns ref shifted by (dx, dy). Cells whose source falls outside
// ref become empty.
func Translate(ref grid.Grid, dx, dy int) grid.Grid {
	out := grid.NewCanvas(ref.Width(), ref.Height())
	for y := 0; y < ref.Height(); y++ {
		for x := 0; x < ref.Width(); x++ {
			out.Set(x, y, ref.At(x-dx, y-dy))
		}
	}
	return out.Grid()
}

// Overlay rasterises the shape tool t from start to end and maps the in-bounds
// cells of g to col. Non-shape tools yield an empty overlay.
func Overlay(g grid.Grid, t Tool, start, end image.Point, mode raster.FillMode, col grid.Color) grid.Overlay {
	kind, ok := t.Shape()
	if !ok {
		return grid.Overlay{}
	}
	pts := raster.Shape(kind, start, end, mode)
	o := make(grid.Overlay, len(pts))
	for _, p := range pts {
		if i := g.IndexOf(p.X, p.Y); i != grid.Invalid {
			o[i] = col
		}
	}
	return o
}
