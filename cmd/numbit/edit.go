package main

import (
	"context"
	"flag"

	"github.com/example/numbit/internal/export"
	"github.com/example/numbit/internal/ui"
)

type editCmd struct {
	*root
	fs        *flag.FlagSet
	gridLines bool
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.BoolVar(&e.gridLines, "grid-lines", true, "show cell boundaries")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: e}
	}
	return e, nil
}

func (e *editCmd) Run() error {
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
	format, err := export.ParseFormat(e.config.Export.Format)
	if err != nil {
		format = export.PNG
	}
	dir := e.config.SaveDir
	if dir == "" {
		dir = "."
	}
	w := ui.New(ed,
		ui.WithTitle("Numbit - "+e.storeKey),
		ui.WithGridLines(e.gridLines),
		ui.WithExport(dir, format, e.config.Export.Scale),
		ui.WithNotifier(e.notifier),
		ui.WithLogger(e.logger().WithField("component", "ui")),
		ui.WithOnClose(func() {
			if err := e.saveNow(ctx, st, e.storeKey, ed); err != nil {
				e.logger().WithError(err).Warn("saving on close")
			}
		}),
	)
	w.Run()
	return nil
}
