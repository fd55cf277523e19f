package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/numbit/internal/editor"
	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/palette"
	"github.com/example/numbit/internal/raster"
	"github.com/example/numbit/internal/store"
)

// openStore returns the configured persistence backend and a function that
// releases it.
func (r *root) openStore(ctx context.Context) (store.Store, func(), error) {
	cfg := r.config.Store
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "file":
		dir := cfg.Dir
		if dir == "" {
			dir = store.DefaultDir()
		}
		return store.NewFile(dir), func() {}, nil
	case "redis":
		rs, err := store.Dial(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() {
			if err := rs.Close(); err != nil {
				r.logger().WithError(err).Warn("closing redis store")
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func (r *root) logger() *logrus.Entry {
	if r.log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logrus.NewEntry(r.log)
}

func (r *root) loadPalette() (palette.Palette, error) {
	l := palette.NewLoader()
	l.Inline = r.config.Palettes
	return l.Load(r.paletteName)
}

// editorOptions turns the configured defaults into editor options.
func (r *root) editorOptions() ([]editor.Option, error) {
	cfg := r.config
	col, err := grid.ParseColor(cfg.Color)
	if err != nil {
		return nil, fmt.Errorf("config color: %w", err)
	}
	bg, err := grid.ParseColor(cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("config background: %w", err)
	}
	mode, err := raster.ParseFillMode(cfg.FillMode)
	if err != nil {
		return nil, fmt.Errorf("config fill_mode: %w", err)
	}
	pal, err := r.loadPalette()
	if err != nil {
		return nil, err
	}
	return []editor.Option{
		editor.WithHistoryLimit(cfg.HistoryLimit),
		editor.WithSize(cfg.Size),
		editor.WithColor(col),
		editor.WithBackground(bg),
		editor.WithBrushSize(cfg.BrushSize),
		editor.WithFillMode(mode),
		editor.WithPalette(pal),
	}, nil
}

// openEditor restores the session saved under key and saves it again after
// every change. Malformed saved state is ignored.
func (r *root) openEditor(ctx context.Context, st store.Store, key string) (*editor.Editor, error) {
	log := r.logger().WithField("key", key)
	opts, err := r.editorOptions()
	if err != nil {
		return nil, err
	}
	state, err := store.Load(ctx, st, key)
	switch {
	case err == nil:
		g, gerr := state.Grid()
		if gerr != nil {
			log.WithError(gerr).Warn("ignoring saved state")
			break
		}
		opts = append(opts, editor.WithState(g, state.BackgroundColor, state.CustomColors))
		log.Debug("restored saved state")
	case errors.Is(err, store.ErrNotFound):
		log.Debug("no saved state")
	case errors.Is(err, store.ErrMalformed):
		log.WithError(err).Warn("ignoring saved state")
	default:
		return nil, fmt.Errorf("load state %s: %w", key, err)
	}
	opts = append(opts,
		editor.WithLogger(log),
		editor.WithChangeListener(func(s editor.Snapshot) {
			if err := store.Save(ctx, st, key, stateOf(s)); err != nil {
				log.WithError(err).Warn("saving state")
			}
		}),
	)
	return editor.New(opts...), nil
}

func stateOf(s editor.Snapshot) store.State {
	return store.State{
		Pixels:          s.Pixels,
		Size:            s.Size,
		BackgroundColor: s.Background,
		CustomColors:    s.CustomColors,
	}
}

// saveNow writes the current session state immediately.
func (r *root) saveNow(ctx context.Context, st store.Store, key string, e *editor.Editor) error {
	if err := store.Save(ctx, st, key, stateOf(e.Snapshot())); err != nil {
		return fmt.Errorf("save state %s: %w", key, err)
	}
	r.notifySave(key)
	return nil
}
