package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/example/numbit/internal/editor"
	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/raster"
	"github.com/example/numbit/internal/tool"
)

// drawCmd runs one gesture against the stored artwork.
type drawCmd struct {
	*root
	fs        *flag.FlagSet
	colorSpec string
	brush     int
	fillSpec  string
	tool      tool.Tool
	points    [][2]int
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ContinueOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.colorSpec, "color", "", "colour name or hex value (default from config)")
	fs.IntVar(&d.brush, "brush", 0, "brush size between 1 and 8 (default from config)")
	fs.StringVar(&d.fillSpec, "fill", "", "shape fill mode: filled, outline or dashed (default from config)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	positionals := fs.Args()
	if len(positionals) < 3 {
		return nil, &UsageError{of: d}
	}
	t, err := tool.Parse(positionals[0])
	if err != nil {
		return nil, err
	}
	d.tool = t
	d.points, err = parsePoints(positionals[1:])
	if err != nil {
		return nil, err
	}
	return d, nil
}

// parsePoints reads x y pairs.
func parsePoints(args []string) ([][2]int, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, fmt.Errorf("expected x y pairs, got %d values", len(args))
	}
	points := make([][2]int, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		x, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("invalid x %q", args[i])
		}
		y, err := strconv.Atoi(args[i+1])
		if err != nil {
			return nil, fmt.Errorf("invalid y %q", args[i+1])
		}
		points = append(points, [2]int{x, y})
	}
	return points, nil
}

// indexes converts points to cell indexes of a size×size grid.
func indexes(size int, points [][2]int) ([]int, error) {
	out := make([]int, len(points))
	for i, p := range points {
		if p[0] < 0 || p[1] < 0 || p[0] >= size || p[1] >= size {
			return nil, fmt.Errorf("point %d,%d is outside the %dx%d grid", p[0], p[1], size, size)
		}
		out[i] = p[1]*size + p[0]
	}
	return out, nil
}

// stroke runs begin, continue and end over the cells.
func stroke(e *editor.Editor, t tool.Tool, cells []int) {
	e.BeginGesture(t, cells[0])
	for _, c := range cells[1:] {
		e.ContinueGesture(c)
	}
	e.EndGesture()
}

func (d *drawCmd) applySettings(e *editor.Editor) error {
	if d.colorSpec != "" {
		c, err := grid.ParseColor(d.colorSpec)
		if err != nil {
			return err
		}
		e.SetActiveColor(c)
	}
	if d.brush != 0 {
		e.SetBrushSize(d.brush)
	}
	if d.fillSpec != "" {
		m, err := raster.ParseFillMode(d.fillSpec)
		if err != nil {
			return err
		}
		e.SetShapeFillMode(m)
	}
	return nil
}

func (d *drawCmd) Run() error {
	ctx := context.Background()
	st, closeStore, err := d.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	e, err := d.openEditor(ctx, st, d.storeKey)
	if err != nil {
		return err
	}
	if err := d.applySettings(e); err != nil {
		return err
	}
	cells, err := indexes(e.Size(), d.points)
	if err != nil {
		return err
	}
	stroke(e, d.tool, cells)
	if d.tool.Kind() == tool.KindPicker {
		fmt.Fprintf(os.Stdout, "picked %s\n", e.ActiveColor())
		return nil
	}
	fmt.Fprintf(os.Stderr, "%s applied to %s\n", strings.ToLower(d.tool.String()), d.storeKey)
	d.notifySave(d.storeKey)
	return nil
}
