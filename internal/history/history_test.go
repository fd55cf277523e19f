package history

import (
	"fmt"
	"testing"

	"github.com/example/numbit/internal/grid"
)

func snapshot(t *testing.T, n int) grid.Grid {
	t.Helper()
	g, err := grid.New(4, 4)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	return g.Set(n%4, (n/4)%4, grid.Color(fmt.Sprintf("#%06x", n+1)))
}

func TestInitialState(t *testing.T) {
	h := New(snapshot(t, 0), 0)
	if h.Len() != 1 || h.Cursor() != 0 || h.Limit() != DefaultLimit {
		t.Fatalf("len=%d cursor=%d limit=%d", h.Len(), h.Cursor(), h.Limit())
	}
	if h.CanUndo() || h.CanRedo() {
		t.Fatalf("fresh history should not undo or redo")
	}
	if _, ok := h.Undo(); ok {
		t.Fatalf("undo past the first state")
	}
	if _, ok := h.Redo(); ok {
		t.Fatalf("redo with nothing ahead")
	}
}

func TestUndoRedoRestoresSnapshots(t *testing.T) {
	h := New(snapshot(t, 0), 10)
	for i := 1; i <= 5; i++ {
		h.Commit(snapshot(t, i))
	}
	for i := 4; i >= 0; i-- {
		g, ok := h.Undo()
		if !ok || !g.Equal(snapshot(t, i)) {
			t.Fatalf("undo to %d failed", i)
		}
	}
	for i := 1; i <= 5; i++ {
		g, ok := h.Redo()
		if !ok || !g.Equal(snapshot(t, i)) {
			t.Fatalf("redo to %d failed", i)
		}
	}
	if h.CanRedo() {
		t.Fatalf("redo should be exhausted")
	}
}

func TestCommitTruncatesRedoTail(t *testing.T) {
	h := New(snapshot(t, 0), 10)
	h.Commit(snapshot(t, 1))
	h.Commit(snapshot(t, 2))
	h.Undo()
	h.Undo()
	h.Commit(snapshot(t, 9))
	if h.Len() != 2 || h.CanRedo() {
		t.Fatalf("len=%d canRedo=%v", h.Len(), h.CanRedo())
	}
	if !h.Current().Equal(snapshot(t, 9)) {
		t.Fatalf("current is not the new commit")
	}
	g, _ := h.Undo()
	if !g.Equal(snapshot(t, 0)) {
		t.Fatalf("undo should reach the initial state")
	}
}

func TestCommitAfterUndoDoesNotClobberRetainedEntries(t *testing.T) {
	h := New(snapshot(t, 0), 10)
	h.Commit(snapshot(t, 1))
	h.Commit(snapshot(t, 2))
	h.Undo()
	h.Commit(snapshot(t, 7))
	h.Undo()
	h.Undo()
	h.Redo()
	if !h.Current().Equal(snapshot(t, 1)) {
		t.Fatalf("entry 1 was overwritten")
	}
}

func TestLimitEvictsOldest(t *testing.T) {
	h := New(snapshot(t, 0), DefaultLimit)
	for i := 1; i <= DefaultLimit; i++ {
		h.Commit(snapshot(t, i))
	}
	if h.Len() != DefaultLimit {
		t.Fatalf("len = %d, want %d", h.Len(), DefaultLimit)
	}
	if h.Cursor() != DefaultLimit-1 {
		t.Fatalf("cursor = %d", h.Cursor())
	}
	var oldest grid.Grid
	for h.CanUndo() {
		oldest, _ = h.Undo()
	}
	if oldest.Equal(snapshot(t, 0)) {
		t.Fatalf("initial snapshot still reachable after %d commits", DefaultLimit)
	}
	if !oldest.Equal(snapshot(t, 1)) {
		t.Fatalf("oldest reachable snapshot should be the first commit")
	}
}

func TestReset(t *testing.T) {
	h := New(snapshot(t, 0), 5)
	h.Commit(snapshot(t, 1))
	h.Reset(snapshot(t, 3))
	if h.Len() != 1 || h.CanUndo() || !h.Current().Equal(snapshot(t, 3)) {
		t.Fatalf("reset failed")
	}
}
