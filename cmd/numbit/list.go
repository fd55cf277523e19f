package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/palette"
	"github.com/example/numbit/internal/store"
)

type colorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ContinueOnError)
	cmd := &colorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	p, err := c.loadPalette()
	if err != nil {
		return err
	}
	active, _ := grid.ParseColor(c.config.Color)
	fmt.Fprintf(os.Stdout, "palette %s (* marks the default color):\n", p.Name)
	printSwatches(p.Colors, active)

	ctx := context.Background()
	st, closeStore, err := c.openStore(ctx)
	if err != nil {
		c.logger().WithError(err).Debug("custom colors unavailable")
		return nil
	}
	defer closeStore()
	state, err := store.Load(ctx, st, c.storeKey)
	if err != nil || len(state.CustomColors) == 0 {
		return nil
	}
	fmt.Fprintln(os.Stdout, "custom colors:")
	printSwatches(state.CustomColors, active)
	return nil
}

func printSwatches(cols []grid.Color, active grid.Color) {
	for idx, col := range cols {
		marker := " "
		if col == active {
			marker = "*"
		}
		block := "  "
		if v, ok := col.RGBA(); ok {
			block = ansiBlock([3]uint8{v.R, v.G, v.B})
		}
		fmt.Fprintf(os.Stdout, "%s %2d: %s %s\n", marker, idx, col, block)
	}
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

type palettesCmd struct {
	*root
	fs *flag.FlagSet
}

func parsePalettesCmd(args []string, r *root) (*palettesCmd, error) {
	fs := flag.NewFlagSet("palettes", flag.ContinueOnError)
	cmd := &palettesCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (p *palettesCmd) Run() error {
	l := palette.NewLoader()
	l.Inline = p.config.Palettes
	current := p.paletteName
	if current == "" {
		current = palette.DefaultName
	}
	fmt.Fprintln(os.Stdout, "available palettes (* marks the active palette):")
	for _, name := range l.List() {
		marker := " "
		if name == current {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %s\n", marker, name)
	}
	return nil
}

func (p *palettesCmd) FlagSet() *flag.FlagSet {
	return p.fs
}
