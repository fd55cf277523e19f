// Package render rasterises pixel grids into RGBA images.
package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/numbit/internal/grid"
)

// DefaultGridColor is used for grid lines when Options.GridColor is unset.
var DefaultGridColor = color.RGBA{82, 82, 91, 255}

// Options configures Cells.
type Options struct {
	// Scale is the edge length of one cell in pixels. Values below 1 are 1.
	Scale int
	// Background fills empty cells; Empty leaves them transparent.
	Background grid.Color
	// GridLines draws a one pixel line along every cell boundary when the
	// scale is at least 3.
	GridLines bool
	GridColor color.RGBA
}

// Grid renders g.
func Grid(g grid.Grid, opts Options) *image.RGBA {
	return Cells(g.Cells(), g.Width(), g.Height(), opts)
}

// Cells renders a row-major cell slice of width×height. Undecodable colours
// render like empty cells.
func Cells(cells []grid.Color, width, height int, opts Options) *image.RGBA {
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}
	base := image.NewRGBA(image.Rect(0, 0, width, height))
	if bg, ok := opts.Background.RGBA(); ok {
		draw.Draw(base, base.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}
	for i, c := range cells {
		if i >= width*height {
			break
		}
		if rgba, ok := c.RGBA(); ok {
			base.SetRGBA(i%width, i/width, rgba)
		}
	}
	if scale == 1 {
		return base
	}
	dst := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), base, base.Bounds(), draw.Src, nil)
	if opts.GridLines && scale >= 3 {
		col := opts.GridColor
		if col == (color.RGBA{}) {
			col = DefaultGridColor
		}
		Lines(dst, dst.Bounds(), width, height, col)
	}
	return dst
}

// Lines draws the cell boundaries of a cols×rows grid stretched over rect.
func Lines(dst draw.Image, rect image.Rectangle, cols, rows int, col color.Color) {
	if cols <= 0 || rows <= 0 {
		return
	}
	for i := 0; i <= cols; i++ {
		x := rect.Min.X + i*rect.Dx()/cols
		if i == cols {
			x = rect.Max.X - 1
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			dst.Set(x, y, col)
		}
	}
	for j := 0; j <= rows; j++ {
		y := rect.Min.Y + j*rect.Dy()/rows
		if j == rows {
			y = rect.Max.Y - 1
		}
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Set(x, y, col)
		}
	}
}

// Checkerboard fills rect with alternating size×size squares, the usual
// backdrop for transparent pixels.
func Checkerboard(dst draw.Image, rect image.Rectangle, size int, light, dark color.Color) {
	if size <= 0 {
		size = 8
	}
	for y := rect.Min.Y; y < rect.Max.Y; y += size {
		for x := rect.Min.X; x < rect.Max.X; x += size {
			c := light
			if ((x-rect.Min.X)/size+(y-rect.Min.Y)/size)%2 == 1 {
				c = dark
			}
			r := image.Rect(x, y, x+size, y+size).Intersect(rect)
			draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
		}
	}
}

// Flatten composites img over bg into an opaque copy.
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
