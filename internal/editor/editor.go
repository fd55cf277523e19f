// Package editor owns one pixel editing session: the live grid, its undo
// history, the active drawing settings and any gesture in progress.
package editor

import (
	"image"
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/history"
	"github.com/example/numbit/internal/palette"
	"github.com/example/numbit/internal/raster"
	"github.com/example/numbit/internal/tool"
)

// Default drawing settings.
const (
	DefaultColor      grid.Color = "#ffffff"
	DefaultBackground grid.Color = "#000000"
)

// Snapshot is the persistable part of a session.
type Snapshot struct {
	Pixels       []grid.Color
	Size         int
	Background   grid.Color
	CustomColors []grid.Color
}

// Editor is an editing session. Its methods are safe for concurrent use,
// although a session is normally driven by a single event loop.
type Editor struct {
	mu sync.Mutex

	grid    grid.Grid
	history *history.History
	gesture gesture

	tool       tool.Tool
	color      grid.Color
	background grid.Color
	brush      int
	fillMode   raster.FillMode
	palette    palette.Palette
	custom     []grid.Color
	rand       *rand.Rand

	listener func(Snapshot)
	log      *logrus.Entry
}

type gesture struct {
	active  bool
	tool    tool.Tool
	anchor  image.Point
	ref     grid.Grid
	overlay grid.Overlay
}

// Option modifies an Editor during creation.
type Option func(*Editor)

// New creates a session with an empty square grid of the default size and a
// single history entry.
func New(opts ...Option) *Editor {
	e := &Editor{
		tool:       tool.Pen,
		color:      DefaultColor,
		background: DefaultBackground,
		brush:      tool.MinBrush,
		fillMode:   raster.Filled,
		palette:    palette.Default(),
		grid:       blank(grid.DefaultSize),
	}
	for _, o := range opts {
		o(e)
	}
	if e.history == nil {
		e.history = history.New(e.grid, history.DefaultLimit)
	}
	return e
}

// WithSize sets the side length of the initial grid. Out-of-range sizes are
// ignored.
func WithSize(n int) Option {
	return func(e *Editor) {
		if grid.ValidSize(n) {
			e.grid = blank(n)
			e.resetHistory()
		}
	}
}

// WithHistoryLimit sets how many snapshots undo can reach.
func WithHistoryLimit(n int) Option {
	return func(e *Editor) { e.history = history.New(e.grid, n) }
}

// WithColor sets the initial active colour.
func WithColor(c grid.Color) Option { return func(e *Editor) { e.color = c } }

// WithBackground sets the background colour; Empty means transparent.
func WithBackground(c grid.Color) Option { return func(e *Editor) { e.background = c } }

// WithBrushSize sets the initial brush size.
func WithBrushSize(n int) Option { return func(e *Editor) { e.brush = tool.ClampBrush(n) } }

// WithFillMode sets the initial shape fill mode.
func WithFillMode(m raster.FillMode) Option { return func(e *Editor) { e.fillMode = m } }

// WithTool sets the initial active tool.
func WithTool(t tool.Tool) Option {
	return func(e *Editor) {
		if t.Valid() {
			e.tool = t
		}
	}
}

// WithRand sets the random source used by the spray tool.
func WithRand(r *rand.Rand) Option { return func(e *Editor) { e.rand = r } }

// WithPalette sets the swatches offered to the user.
func WithPalette(p palette.Palette) Option { return func(e *Editor) { e.palette = p } }

// WithState restores a previously saved session. The grid must be square;
// history restarts with it as the only entry.
func WithState(g grid.Grid, background grid.Color, custom []grid.Color) Option {
	return func(e *Editor) {
		if g.Width() != g.Height() || !grid.ValidSize(g.Width()) {
			return
		}
		e.grid = g
		e.background = background
		e.custom = append([]grid.Color(nil), custom...)
		e.resetHistory()
	}
}

// WithChangeListener registers a callback invoked after every change to the
// persistable state. It runs without the session lock held.
func WithChangeListener(fn func(Snapshot)) Option { return func(e *Editor) { e.listener = fn } }

// WithLogger enables debug tracing of gestures.
func WithLogger(l *logrus.Entry) Option { return func(e *Editor) { e.log = l } }

func (e *Editor) resetHistory() {
	if e.history == nil {
		return
	}
	e.history = history.New(e.grid, e.history.Limit())
}

func blank(n int) grid.Grid {
	g, err := grid.New(n, n)
	if err != nil {
		panic(err)
	}
	return g
}

// Grid returns the live grid without any preview overlay.
func (e *Editor) Grid() grid.Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid
}

// Size returns the side length of the grid.
func (e *Editor) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Width()
}

// DisplayGrid returns the live grid with the preview overlay drawn on top.
func (e *Editor) DisplayGrid() []grid.Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Compose(e.gesture.overlay)
}

// Dragging reports whether a gesture is in progress.
func (e *Editor) Dragging() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gesture.active
}

// Snapshot returns the persistable state.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Editor) snapshot() Snapshot {
	return Snapshot{
		Pixels:       e.grid.Cells(),
		Size:         e.grid.Width(),
		Background:   e.background,
		CustomColors: append([]grid.Color(nil), e.custom...),
	}
}

// changed releases the lock and notifies the listener.
func (e *Editor) changed() {
	fn := e.listener
	var snap Snapshot
	if fn != nil {
		snap = e.snapshot()
	}
	e.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (e *Editor) tracef(format string, args ...interface{}) {
	if e.log != nil {
		e.log.Debugf(format, args...)
	}
}
