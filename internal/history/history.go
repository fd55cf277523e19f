// Package history keeps a bounded, linear undo/redo buffer of grid snapshots.
package history

import "github.com/example/numbit/internal/grid"

// DefaultLimit is the number of snapshots retained when no limit is given.
const DefaultLimit = 50

// History is a sequence of snapshots with a cursor on the current one.
// Committing after an undo discards the undone entries.
type History struct {
	entries []grid.Grid
	cursor  int
	limit   int
}

// New returns a history holding initial as its only entry. Limits below 1
// use DefaultLimit.
func New(initial grid.Grid, limit int) *History {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &History{entries: []grid.Grid{initial}, limit: limit}
}

// Reset discards every entry and starts over from initial.
func (h *History) Reset(initial grid.Grid) {
	h.entries = []grid.Grid{initial}
	h.cursor = 0
}

// Commit truncates the redo tail, appends g and evicts the oldest entry when
// the limit is exceeded.
func (h *History) Commit(g grid.Grid) {
	h.entries = append(h.entries[:h.cursor+1:h.cursor+1], g)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.cursor = len(h.entries) - 1
}

// Undo moves the cursor back and returns that snapshot. ok is false at the
// oldest entry.
func (h *History) Undo() (g grid.Grid, ok bool) {
	if !h.CanUndo() {
		return grid.Grid{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo moves the cursor forward and returns that snapshot. ok is false at the
// newest entry.
func (h *History) Redo() (g grid.Grid, ok bool) {
	if !h.CanRedo() {
		return grid.Grid{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Current returns the snapshot under the cursor.
func (h *History) Current() grid.Grid { return h.entries[h.cursor] }

// Len returns the number of retained snapshots.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the index of the current snapshot.
func (h *History) Cursor() int { return h.cursor }

// Limit returns the maximum number of retained snapshots.
func (h *History) Limit() int { return h.limit }
