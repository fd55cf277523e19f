package editor

import (
	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/palette"
	"github.com/example/numbit/internal/raster"
	"github.com/example/numbit/internal/tool"
)

// Undo steps back one history entry. An active gesture is abandoned.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	e.cancel()
	g, ok := e.history.Undo()
	if !ok {
		e.mu.Unlock()
		return false
	}
	e.grid = g
	e.changed()
	return true
}

// Redo steps forward one history entry. An active gesture is abandoned.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	e.cancel()
	g, ok := e.history.Redo()
	if !ok {
		e.mu.Unlock()
		return false
	}
	e.grid = g
	e.changed()
	return true
}

// CanUndo reports whether Undo would change the grid.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// CanRedo reports whether Redo would change the grid.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// Resize changes the grid to n×n, keeping the overlapping top-left region,
// and commits. A resize to the current size still commits, discarding any
// redo entries. Sizes outside the allowed range are ignored.
func (e *Editor) Resize(n int) bool {
	e.mu.Lock()
	if !grid.ValidSize(n) {
		e.mu.Unlock()
		return false
	}
	e.cancel()
	g, err := grid.Resize(e.grid, n, n)
	if err != nil {
		e.mu.Unlock()
		return false
	}
	e.tracef("resize %d -> %d", e.grid.Width(), n)
	e.grid = g
	e.history.Commit(g)
	e.changed()
	return true
}

// ResetSize resizes to the default size.
func (e *Editor) ResetSize() bool { return e.Resize(grid.DefaultSize) }

// Clear empties every cell and commits.
func (e *Editor) Clear() {
	e.mu.Lock()
	e.cancel()
	e.grid = blank(e.grid.Width())
	e.history.Commit(e.grid)
	e.changed()
}

// ActiveTool returns the active tool.
func (e *Editor) ActiveTool() tool.Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

// SetActiveTool selects the tool used by the next gesture.
func (e *Editor) SetActiveTool(t tool.Tool) {
	if !t.Valid() {
		return
	}
	e.mu.Lock()
	e.tool = t
	e.mu.Unlock()
}

// ActiveColor returns the drawing colour.
func (e *Editor) ActiveColor() grid.Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.color
}

// SetActiveColor sets the drawing colour.
func (e *Editor) SetActiveColor(c grid.Color) {
	e.mu.Lock()
	e.color = c
	e.mu.Unlock()
}

// BrushSize returns the brush size.
func (e *Editor) BrushSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.brush
}

// SetBrushSize sets the brush size, clamped to the allowed range.
func (e *Editor) SetBrushSize(n int) {
	e.mu.Lock()
	e.brush = tool.ClampBrush(n)
	e.mu.Unlock()
}

// FillMode returns the shape fill mode.
func (e *Editor) FillMode() raster.FillMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fillMode
}

// SetShapeFillMode sets the fill mode used by shape tools.
func (e *Editor) SetShapeFillMode(m raster.FillMode) {
	if m < raster.Filled || m > raster.Dashed {
		return
	}
	e.mu.Lock()
	e.fillMode = m
	e.mu.Unlock()
}

// Background returns the background colour.
func (e *Editor) Background() grid.Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.background
}

// SetBackground sets the background colour; Empty means transparent.
func (e *Editor) SetBackground(c grid.Color) {
	e.mu.Lock()
	if e.background == c {
		e.mu.Unlock()
		return
	}
	e.background = c
	e.changed()
}

// Palette returns the preset swatches.
func (e *Editor) Palette() palette.Palette {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.palette
}

// CustomColors returns a copy of the user's custom swatches.
func (e *Editor) CustomColors() []grid.Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]grid.Color(nil), e.custom...)
}

// AddCustomColor appends c to the custom swatches unless it is transparent or
// already present.
func (e *Editor) AddCustomColor(c grid.Color) bool {
	e.mu.Lock()
	custom, ok := palette.AddCustom(e.custom, c)
	if !ok {
		e.mu.Unlock()
		return false
	}
	e.custom = custom
	e.changed()
	return true
}
