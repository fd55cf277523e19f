package editor

import (
	"testing"

	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/raster"
	"github.com/example/numbit/internal/tool"
)

const red grid.Color = "#ff0000"

func idx(e *Editor, x, y int) int { return e.Grid().IndexOf(x, y) }

func countColored(cells []grid.Color) int {
	n := 0
	for _, c := range cells {
		if c != grid.Empty {
			n++
		}
	}
	return n
}

func TestBucketFillsInOneCommit(t *testing.T) {
	e := New(WithSize(4), WithColor(red))
	e.BeginGesture(tool.Bucket, 0)
	e.EndGesture()
	for i, c := range e.Grid().Cells() {
		if c != red {
			t.Fatalf("cell %d = %q", i, c)
		}
	}
	if !e.Undo() {
		t.Fatalf("undo failed")
	}
	if !e.Grid().IsBlank() {
		t.Fatalf("undo did not restore the blank grid")
	}
	if e.CanUndo() {
		t.Fatalf("bucket gesture committed more than once")
	}
	if !e.Redo() || e.Grid().At(3, 3) != red {
		t.Fatalf("redo did not restore the fill")
	}
}

func TestPointGestureCommitsOnce(t *testing.T) {
	e := New(WithSize(4), WithColor(red))
	e.BeginGesture(tool.Pen, 0)
	for i := 1; i < 4; i++ {
		e.ContinueGesture(i)
	}
	if !e.Dragging() {
		t.Fatalf("not dragging mid gesture")
	}
	if e.CanUndo() {
		t.Fatalf("committed before end")
	}
	e.EndGesture()
	if got := countColored(e.Grid().Cells()); got != 4 {
		t.Fatalf("colored = %d, want 4", got)
	}
	e.Undo()
	if e.CanUndo() || !e.Grid().IsBlank() {
		t.Fatalf("stroke was not a single commit")
	}
}

func TestGestureToolIsFixed(t *testing.T) {
	e := New(WithSize(4), WithColor(red))
	e.BeginGesture(tool.Pen, 0)
	e.SetActiveTool(tool.Eraser)
	e.ContinueGesture(1)
	e.EndGesture()
	g := e.Grid()
	if g.At(0, 0) != red || g.At(1, 0) != red {
		t.Fatalf("tool changed mid gesture")
	}
	if e.ActiveTool() != tool.Eraser {
		t.Fatalf("active tool = %s", e.ActiveTool())
	}
}

func TestShapePreviewMergesOnEnd(t *testing.T) {
	e := New(WithSize(4), WithColor(red), WithFillMode(raster.Outline))
	e.BeginGesture(tool.Square, 0)
	if got := countColored(e.DisplayGrid()); got != 1 {
		t.Fatalf("seed overlay = %d cells", got)
	}
	e.ContinueGesture(idx(e, 3, 3))
	if got := countColored(e.DisplayGrid()); got != 12 {
		t.Fatalf("preview = %d cells, want 12", got)
	}
	if !e.Grid().IsBlank() {
		t.Fatalf("preview leaked into the grid")
	}
	e.ContinueGesture(idx(e, 1, 1))
	if got := countColored(e.DisplayGrid()); got != 4 {
		t.Fatalf("preview accumulated: %d cells", got)
	}
	e.ContinueGesture(idx(e, 3, 3))
	e.EndGesture()
	if got := countColored(e.Grid().Cells()); got != 12 {
		t.Fatalf("merged = %d cells, want 12", got)
	}
	if got := countColored(e.DisplayGrid()); got != 12 {
		t.Fatalf("overlay not cleared")
	}
	e.Undo()
	if !e.Grid().IsBlank() {
		t.Fatalf("shape was not a single commit")
	}
}

func TestMoveTranslates(t *testing.T) {
	e := New(WithSize(4), WithColor(red))
	e.BeginGesture(tool.Pen, idx(e, 1, 1))
	e.EndGesture()

	e.BeginGesture(tool.Move, idx(e, 0, 0))
	e.ContinueGesture(idx(e, 1, 0))
	e.ContinueGesture(idx(e, 2, 0))
	e.EndGesture()

	g := e.Grid()
	if g.At(3, 1) != red || countColored(g.Cells()) != 1 {
		t.Fatalf("move result %v", g.Cells())
	}
	e.Undo()
	if e.Grid().At(1, 1) != red {
		t.Fatalf("undo did not restore the pre-move grid")
	}
}

func TestMoveOffGridThenBack(t *testing.T) {
	e := New(WithSize(4), WithColor(red))
	e.BeginGesture(tool.Pen, idx(e, 3, 0))
	e.EndGesture()
	e.BeginGesture(tool.Move, idx(e, 0, 0))
	e.ContinueGesture(idx(e, 2, 0))
	if !e.Grid().IsBlank() {
		t.Fatalf("cell should be shifted out")
	}
	e.ContinueGesture(idx(e, 0, 0))
	e.EndGesture()
	if e.Grid().At(3, 0) != red {
		t.Fatalf("move must rebuild from the reference grid")
	}
}

func TestMirror(t *testing.T) {
	e := New(WithSize(8), WithColor(red))
	e.BeginGesture(tool.Mirror, idx(e, 2, 3))
	e.EndGesture()
	g := e.Grid()
	if g.At(2, 3) != red || g.At(5, 3) != red || countColored(g.Cells()) != 2 {
		t.Fatalf("mirror wrote %v", g.Cells())
	}
}

func TestPipette(t *testing.T) {
	e := New(WithSize(4), WithColor(red))
	e.BeginGesture(tool.Pen, idx(e, 2, 2))
	e.EndGesture()
	e.SetActiveColor("#ffffff")

	e.BeginGesture(tool.Pipette, idx(e, 0, 0))
	if e.ActiveColor() != "#ffffff" {
		t.Fatalf("empty cell changed the colour")
	}
	e.BeginGesture(tool.Pipette, idx(e, 2, 2))
	if e.ActiveColor() != red {
		t.Fatalf("colour = %q", e.ActiveColor())
	}
	if e.Dragging() {
		t.Fatalf("pipette started a drag")
	}
	e.EndGesture()
	e.Undo()
	if e.CanUndo() || !e.Grid().IsBlank() {
		t.Fatalf("pipette committed history")
	}
}

func TestDoubleClickErases(t *testing.T) {
	e := New(WithSize(4), WithColor(red))
	e.BeginGesture(tool.Bucket, 0)
	e.EndGesture()
	e.DoubleClick(5)
	if e.Grid().Get(5) != grid.Empty || e.Grid().Get(4) != red {
		t.Fatalf("double click wrong cells")
	}
	if e.Dragging() {
		t.Fatalf("double click entered a drag")
	}
	e.Undo()
	if e.Grid().Get(5) != red {
		t.Fatalf("double click was not committed separately")
	}
}

func TestIdleEventsAreIgnored(t *testing.T) {
	e := New(WithSize(4))
	e.ContinueGesture(0)
	e.EndGesture()
	e.BeginGesture(tool.Pen, -1)
	e.BeginGesture(tool.Pen, 16)
	e.DoubleClick(99)
	if e.CanUndo() || e.Dragging() {
		t.Fatalf("idle events changed the session")
	}
}

func TestBeginWhileDraggingEndsPrevious(t *testing.T) {
	e := New(WithSize(4), WithColor(red))
	e.BeginGesture(tool.Pen, 0)
	e.BeginGesture(tool.Pen, 1)
	e.EndGesture()
	e.Undo()
	if e.Grid().Get(0) != red || e.Grid().Get(1) != grid.Empty {
		t.Fatalf("first gesture not committed on its own")
	}
}

func TestUndoCancelsGesture(t *testing.T) {
	e := New(WithSize(4), WithColor(red))
	e.BeginGesture(tool.Pen, 0)
	e.EndGesture()
	e.BeginGesture(tool.Pen, 1)
	if !e.Undo() {
		t.Fatalf("undo failed")
	}
	if e.Dragging() || !e.Grid().IsBlank() {
		t.Fatalf("undo left gesture state behind")
	}
	e.EndGesture()
	if e.CanUndo() {
		t.Fatalf("end after undo committed")
	}
}

func TestResize(t *testing.T) {
	e := New(WithSize(16), WithColor(red))
	e.BeginGesture(tool.Pen, idx(e, 3, 3))
	e.ContinueGesture(idx(e, 12, 12))
	e.EndGesture()

	if e.Resize(3) || e.Resize(65) {
		t.Fatalf("invalid resize accepted")
	}
	if !e.Resize(8) {
		t.Fatalf("resize rejected")
	}
	g := e.Grid()
	if g.Width() != 8 || g.Height() != 8 || len(g.Cells()) != 64 {
		t.Fatalf("size %dx%d", g.Width(), g.Height())
	}
	if g.At(3, 3) != red {
		t.Fatalf("overlap lost")
	}
	e.ResetSize()
	if e.Size() != grid.DefaultSize || e.Grid().At(12, 12) != grid.Empty {
		t.Fatalf("cropped region resurrected")
	}
	e.Undo()
	e.Undo()
	if e.Size() != 16 || e.Grid().At(12, 12) != red {
		t.Fatalf("undo across resize failed")
	}
}

func TestResizeToSameSizeCommits(t *testing.T) {
	e := New(WithSize(8), WithColor(red))
	e.BeginGesture(tool.Pen, 0)
	e.EndGesture()
	e.Undo()
	if !e.CanRedo() {
		t.Fatalf("expected a redo entry")
	}
	if !e.Resize(8) {
		t.Fatalf("same size resize rejected")
	}
	if e.CanRedo() {
		t.Fatalf("same size resize kept the redo tail")
	}
	if e.Size() != 8 || !e.Grid().IsBlank() {
		t.Fatalf("same size resize changed the grid")
	}
	if !e.Undo() || e.Size() != 8 {
		t.Fatalf("same size resize was not undoable")
	}
}

func TestClearCommits(t *testing.T) {
	e := New(WithSize(4), WithColor(red))
	e.BeginGesture(tool.Bucket, 0)
	e.EndGesture()
	e.Clear()
	if !e.Grid().IsBlank() {
		t.Fatalf("clear left pixels")
	}
	e.Undo()
	if e.Grid().Get(0) != red {
		t.Fatalf("clear was not undoable")
	}
}

func TestHistoryLimit(t *testing.T) {
	e := New(WithHistoryLimit(3), WithSize(4))
	for i := 0; i < 5; i++ {
		e.Clear()
	}
	n := 0
	for e.Undo() {
		n++
	}
	if n != 2 {
		t.Fatalf("undo steps = %d, want 2", n)
	}
}

func TestChangeListener(t *testing.T) {
	var got []Snapshot
	e := New(WithSize(4), WithColor(red), WithChangeListener(func(s Snapshot) { got = append(got, s) }))
	e.BeginGesture(tool.Pen, 0)
	e.ContinueGesture(1)
	if len(got) != 0 {
		t.Fatalf("listener fired mid gesture")
	}
	e.EndGesture()
	e.SetBackground(grid.Empty)
	e.SetBackground(grid.Empty)
	e.AddCustomColor("#00ff00")
	e.AddCustomColor("#00ff00")
	if len(got) != 3 {
		t.Fatalf("listener calls = %d, want 3", len(got))
	}
	last := got[2]
	if last.Size != 4 || last.Pixels[1] != red || !last.Background.IsEmpty() || len(last.CustomColors) != 1 {
		t.Fatalf("snapshot %+v", last)
	}
}

func TestWithStateRestores(t *testing.T) {
	g, err := grid.New(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	g = g.Set(1, 2, red)
	e := New(WithState(g, "#112233", []grid.Color{"#abcdef"}))
	if e.Size() != 8 || e.Grid().At(1, 2) != red || e.Background() != "#112233" {
		t.Fatalf("state not restored")
	}
	if e.CanUndo() {
		t.Fatalf("restored session has history")
	}
	if cc := e.CustomColors(); len(cc) != 1 || cc[0] != "#abcdef" {
		t.Fatalf("custom colours %v", cc)
	}
}

func TestSettings(t *testing.T) {
	e := New()
	if e.Size() != grid.DefaultSize || e.ActiveColor() != DefaultColor || e.Background() != DefaultBackground {
		t.Fatalf("unexpected defaults")
	}
	e.SetBrushSize(100)
	if e.BrushSize() != tool.MaxBrush {
		t.Fatalf("brush = %d", e.BrushSize())
	}
	e.SetShapeFillMode(raster.Dashed)
	e.SetShapeFillMode(raster.FillMode(9))
	if e.FillMode() != raster.Dashed {
		t.Fatalf("fill mode = %s", e.FillMode())
	}
	e.SetActiveTool(tool.Tool(-1))
	if e.ActiveTool() != tool.Pen {
		t.Fatalf("invalid tool accepted")
	}
	if len(e.Palette().Colors) != 15 {
		t.Fatalf("palette not defaulted")
	}
}
