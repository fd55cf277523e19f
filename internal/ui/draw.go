package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/palette"
	"github.com/example/numbit/internal/raster"
	"github.com/example/numbit/internal/render"
	"github.com/example/numbit/internal/tool"
)

// frame is an immutable copy of everything drawn in one paint.
type frame struct {
	layout     layout
	cells      []grid.Color
	tool       tool.Tool
	color      grid.Color
	background grid.Color
	brush      int
	fill       raster.FillMode
	palette    palette.Palette
	custom     []grid.Color
	gridLines  bool
	canUndo    bool
	canRedo    bool
	hoverTool  int

	message      string
	messageUntil time.Time
}

var toolLabels = map[tool.Tool]string{
	tool.Pen:     "P:Pen",
	tool.Eraser:  "E:Eraser",
	tool.Bucket:  "B:Bucket",
	tool.Line:    "L:Line",
	tool.Square:  "R:Square",
	tool.Circle:  "O:Circle",
	tool.Mirror:  "M:Mirror",
	tool.Dither:  "D:Dither",
	tool.Spray:   "S:Spray",
	tool.Shading: "H:Shading",
	tool.Pipette: "I:Pipette",
	tool.Move:    "V:Move",
}

func drawFrame(dst *image.RGBA, f frame) {
	ui := f.palette.UI
	draw.Draw(dst, dst.Bounds(), image.NewUniform(ui.Toolbar), image.Point{}, draw.Src)
	drawCanvas(dst, f)
	drawToolbar(dst, f)
	drawStatus(dst, f)
	if f.message != "" && time.Now().Before(f.messageUntil) {
		drawMessage(dst, f.layout, f.message, ui)
	}
}

func drawCanvas(dst *image.RGBA, f frame) {
	l := f.layout
	if l.canvas.Empty() || l.cells == 0 {
		return
	}
	ui := f.palette.UI
	if f.background == grid.Empty {
		render.Checkerboard(dst, l.canvas, 8, ui.CheckerLight, ui.CheckerDark)
	} else if rgba, ok := f.background.RGBA(); ok {
		draw.Draw(dst, l.canvas, image.NewUniform(rgba), image.Point{}, draw.Src)
	}
	art := render.Cells(f.cells, l.cells, l.cells, render.Options{Scale: 1})
	xdraw.NearestNeighbor.Scale(dst, l.canvas, art, art.Bounds(), draw.Over, nil)
	if f.gridLines {
		render.Lines(dst, l.canvas, l.cells, l.cells, ui.GridLine)
	}
}

func drawToolbar(dst *image.RGBA, f frame) {
	l := f.layout
	ui := f.palette.UI
	for i, t := range tool.All() {
		if i >= len(l.tools) {
			break
		}
		r := l.tools[i]
		c := ui.Button
		switch {
		case t == f.tool:
			c = ui.ButtonActive
		case i == f.hoverTool:
			c = lighten(ui.Button, 24)
		}
		draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
		label(dst, toolLabels[t], r.Min.X+4, r.Min.Y+14, ui.Text)
	}
	drawSwatches(dst, l.swatches, f.palette.Colors, f.color, ui)
	drawSwatches(dst, l.customs, f.custom, f.color, ui)
}

func drawSwatches(dst *image.RGBA, rects []image.Rectangle, cols []grid.Color, active grid.Color, ui palette.UI) {
	for i, r := range rects {
		if i >= len(cols) {
			break
		}
		rgba, ok := cols[i].RGBA()
		if !ok {
			render.Checkerboard(dst, r, 4, ui.CheckerLight, ui.CheckerDark)
		} else {
			draw.Draw(dst, r, image.NewUniform(rgba), image.Point{}, draw.Src)
		}
		if cols[i] == active {
			outline(dst, r.Inset(-2), ui.ButtonActive)
		}
	}
}

func drawStatus(dst *image.RGBA, f frame) {
	l := f.layout
	ui := f.palette.UI
	draw.Draw(dst, l.status, image.NewUniform(ui.Button), image.Point{}, draw.Src)
	label(dst, statusLine(f), l.status.Min.X+6, l.status.Min.Y+16, ui.Text)
}

func statusLine(f frame) string {
	s := fmt.Sprintf("%dx%d  %s  %s  brush %d  %s  bg %s", f.layout.cells, f.layout.cells,
		f.tool, f.color, f.brush, f.fill, f.background)
	if f.canUndo {
		s += "  [undo]"
	}
	if f.canRedo {
		s += "  [redo]"
	}
	return s
}

func drawMessage(dst *image.RGBA, l layout, msg string, ui palette.UI) {
	d := &font.Drawer{Face: basicfont.Face7x13}
	w := d.MeasureString(msg).Ceil()
	px := l.canvas.Min.X + (l.canvas.Dx()-w)/2
	py := l.canvas.Min.Y + l.canvas.Dy()/2
	rect := image.Rect(px-8, py-18, px+w+8, py+8)
	draw.Draw(dst, rect, image.NewUniform(color.RGBA{ui.Toolbar.R, ui.Toolbar.G, ui.Toolbar.B, 230}), image.Point{}, draw.Over)
	outline(dst, rect, ui.ButtonActive)
	label(dst, msg, px, py, ui.Text)
}

func label(dst *image.RGBA, s string, x, y int, c color.RGBA) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func outline(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.SetRGBA(x, r.Min.Y, c)
		dst.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.SetRGBA(r.Min.X, y, c)
		dst.SetRGBA(r.Max.X-1, y, c)
	}
}

func lighten(c color.RGBA, n uint8) color.RGBA {
	add := func(v uint8) uint8 {
		if int(v)+int(n) > 255 {
			return 255
		}
		return v + n
	}
	return color.RGBA{add(c.R), add(c.G), add(c.B), c.A}
}

// labelWidth reports the pixel width of the widest tool label.
func labelWidth() int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	max := 0
	for _, lbl := range toolLabels {
		if w := d.MeasureString(lbl).Ceil(); w > max {
			max = w
		}
	}
	return max
}
