package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/numbit/internal/clipboard"
	"github.com/example/numbit/internal/editor"
	"github.com/example/numbit/internal/export"
	"github.com/example/numbit/internal/grid"
)

// exportCmd renders the stored artwork to a file and optionally the clipboard.
type exportCmd struct {
	*root
	fs          *flag.FlagSet
	formatSpec  string
	output      string
	scale       int
	gridLines   bool
	toClipboard bool
	bgSpec      string
}

func (e *exportCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	e := &exportCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	defScale, defGrid := export.DefaultScale, false
	if r != nil && r.config != nil {
		defScale, defGrid = r.config.Export.Scale, r.config.Export.GridLines
	}
	fs.StringVar(&e.formatSpec, "format", "", "png, jpg, pdf, bmp or tiff (default from the output name, then config)")
	fs.StringVar(&e.output, "output", "", "output file path (default 8bit-art.<format> in save_dir)")
	fs.IntVar(&e.scale, "scale", defScale, "output pixels per cell")
	fs.BoolVar(&e.gridLines, "grid-lines", defGrid, "draw cell boundaries")
	fs.BoolVar(&e.toClipboard, "to-clipboard", false, "copy the result to the clipboard as PNG")
	fs.BoolVar(&e.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.StringVar(&e.bgSpec, "background", "", "background colour or none (default from the saved state)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: e}
	}
	if e.scale < 1 {
		return nil, fmt.Errorf("scale must be at least 1")
	}
	return e, nil
}

// resolve picks the output format and path.
func (e *exportCmd) resolve() (export.Format, string, error) {
	var spec, saveDir string
	if e.root != nil && e.config != nil {
		spec, saveDir = e.config.Export.Format, e.config.SaveDir
	}
	switch {
	case e.formatSpec != "":
		spec = e.formatSpec
	case e.output != "":
		if f, err := export.FormatFromPath(e.output); err == nil {
			spec = string(f)
		}
	}
	if spec == "" {
		spec = string(export.PNG)
	}
	f, err := export.ParseFormat(spec)
	if err != nil {
		return "", "", err
	}
	path := e.output
	if path == "" {
		path = filepath.Join(saveDir, export.DefaultFilename(f))
	}
	return f, path, nil
}

func (e *exportCmd) Run() error {
	f, path, err := e.resolve()
	if err != nil {
		return err
	}
	ctx := context.Background()
	st, closeStore, err := e.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	ed, err := e.openEditor(ctx, st, e.storeKey)
	if err != nil {
		return err
	}
	opts, err := e.options(ed)
	if err != nil {
		return err
	}
	return e.write(ed.Grid(), f, path, opts)
}

func (e *exportCmd) options(ed *editor.Editor) (export.Options, error) {
	opts := export.Options{Scale: e.scale, Background: ed.Background(), GridLines: e.gridLines}
	if e.bgSpec != "" {
		bg, err := grid.ParseColor(e.bgSpec)
		if err != nil {
			return opts, err
		}
		opts.Background = bg
	}
	return opts, nil
}

func (e *exportCmd) write(g grid.Grid, f export.Format, path string, opts export.Options) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := export.WriteFile(path, g, f, opts); err != nil {
		return err
	}
	saved := path
	if abs, err := filepath.Abs(path); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	e.notifyExport(saved)
	if e.toClipboard {
		if err := clipboard.WriteImage(export.Image(g, opts)); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := filepath.Base(path)
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		e.notifyCopy(detail)
	}
	return nil
}
