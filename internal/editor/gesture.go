package editor

import (
	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/tool"
)

// BeginGesture starts a gesture with t at the cell index. t becomes the
// active tool and drives the whole gesture. A gesture already in progress is
// ended first. Invalid tools and indices are ignored.
func (e *Editor) BeginGesture(t tool.Tool, index int) {
	e.mu.Lock()
	if !t.Valid() || !e.grid.ValidIndex(index) {
		e.mu.Unlock()
		return
	}
	notify := false
	if e.gesture.active {
		e.end()
		notify = true
	}
	e.tool = t
	p := e.grid.CoordOf(index)
	e.tracef("begin %s at %d,%d", t, p.X, p.Y)

	switch t.Kind() {
	case tool.KindPicker:
		if c, ok := tool.Pick(e.grid, p); ok {
			e.color = c
		}
	case tool.KindShape:
		e.gesture = gesture{active: true, tool: t, anchor: p}
		e.gesture.overlay = tool.Overlay(e.grid, t, p, p, e.fillMode, e.color)
	case tool.KindMove:
		e.gesture = gesture{active: true, tool: t, anchor: p, ref: e.grid}
	default:
		e.gesture = gesture{active: true, tool: t, anchor: p}
		e.apply(index)
	}
	if notify {
		e.changed()
		return
	}
	e.mu.Unlock()
}

// ContinueGesture feeds the next cell entered during a gesture. It does
// nothing while idle or for invalid indices.
func (e *Editor) ContinueGesture(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.gesture.active || !e.grid.ValidIndex(index) {
		return
	}
	g := &e.gesture
	p := e.grid.CoordOf(index)
	switch g.tool.Kind() {
	case tool.KindShape:
		g.overlay = tool.Overlay(e.grid, g.tool, g.anchor, p, e.fillMode, e.color)
	case tool.KindMove:
		d := p.Sub(g.anchor)
		e.grid = tool.Translate(g.ref, d.X, d.Y)
	case tool.KindPoint:
		e.apply(index)
	}
}

// EndGesture finishes the gesture and commits one history entry. It does
// nothing while idle.
func (e *Editor) EndGesture() {
	e.mu.Lock()
	if !e.gesture.active {
		e.mu.Unlock()
		return
	}
	e.end()
	e.changed()
}

// DoubleClick erases the cell at index and commits immediately.
func (e *Editor) DoubleClick(index int) {
	e.mu.Lock()
	if !e.grid.ValidIndex(index) {
		e.mu.Unlock()
		return
	}
	if e.gesture.active {
		e.end()
	}
	p := e.grid.CoordOf(index)
	e.tracef("erase %d,%d", p.X, p.Y)
	e.grid = e.grid.Set(p.X, p.Y, grid.Empty)
	e.history.Commit(e.grid)
	e.changed()
}

func (e *Editor) apply(index int) {
	cv := e.grid.Canvas()
	params := tool.Params{Color: e.color, BrushSize: e.brush, Rand: e.rand}
	if tool.Apply(cv, e.gesture.tool, e.grid.CoordOf(index), params) {
		e.grid = cv.Grid()
	}
}

func (e *Editor) end() {
	g := e.gesture
	if g.tool.Kind() == tool.KindShape {
		e.grid = e.grid.Merge(g.overlay)
	}
	e.gesture = gesture{}
	e.history.Commit(e.grid)
	e.tracef("end %s, history %d/%d", g.tool, e.history.Cursor()+1, e.history.Len())
}

// cancel abandons the gesture and restores the last committed grid.
func (e *Editor) cancel() {
	if !e.gesture.active {
		return
	}
	e.gesture = gesture{}
	e.grid = e.history.Current()
}
