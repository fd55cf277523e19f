package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/numbit/internal/grid"
)

type showCmd struct {
	*root
	fs    *flag.FlagSet
	plain bool
	out   io.Writer
}

func (s *showCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseShowCmd(args []string, r *root) (*showCmd, error) {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	s := &showCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(s)
	fs.BoolVar(&s.plain, "plain", false, "print # and . instead of colour blocks")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	return s, nil
}

func (s *showCmd) Run() error {
	ctx := context.Background()
	st, closeStore, err := s.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	e, err := s.openEditor(ctx, st, s.storeKey)
	if err != nil {
		return err
	}
	return writeGrid(s.out, e.Grid(), e.Background(), s.plain)
}

var (
	checkerLight = [3]uint8{220, 220, 220}
	checkerDark  = [3]uint8{192, 192, 192}
)

// writeGrid prints one row per line, two characters per cell. Empty cells
// show the background, or a checkerboard when it is transparent.
func writeGrid(w io.Writer, g grid.Grid, background grid.Color, plain bool) error {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := g.At(x, y)
			if plain {
				cell := ". "
				if c != grid.Empty {
					cell = "# "
				}
				if _, err := io.WriteString(w, cell); err != nil {
					return err
				}
				continue
			}
			if c == grid.Empty {
				c = background
			}
			rgb := checkerLight
			if (x+y)%2 == 1 {
				rgb = checkerDark
			}
			if v, ok := c.RGBA(); ok {
				rgb = [3]uint8{v.R, v.G, v.B}
			}
			if _, err := io.WriteString(w, ansiBlock(rgb)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func ansiBlock(rgb [3]uint8) string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", rgb[0], rgb[1], rgb[2])
}
