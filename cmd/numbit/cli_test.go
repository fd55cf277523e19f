package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/example/numbit/internal/config"
	"github.com/example/numbit/internal/export"
	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/store"
	"github.com/example/numbit/internal/tool"
)

func testRoot(t *testing.T) (*root, *test.Hook) {
	t.Helper()
	cfg := config.New()
	cfg.Store.Dir = t.TempDir()
	cfg.SaveDir = t.TempDir()
	log, hook := test.NewNullLogger()
	return &root{program: "numbit", config: cfg, storeKey: cfg.Store.Key, log: log}, hook
}

func savedState(t *testing.T, r *root) store.State {
	t.Helper()
	s, err := store.Load(context.Background(), store.NewFile(r.config.Store.Dir), r.storeKey)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	return s
}

func newSession(t *testing.T, r *root) (*interactiveCmd, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	i := &interactiveCmd{r: r, stdout: &out, stderr: &out}
	closeStore, err := i.open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(closeStore)
	return i, &out
}

func run(t *testing.T, i *interactiveCmd, lines ...string) {
	t.Helper()
	for _, l := range lines {
		if _, err := i.executeLine(l); err != nil {
			t.Fatalf("%q: %v", l, err)
		}
	}
}

func TestParseDrawErrors(t *testing.T) {
	r, _ := testRoot(t)
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"brush", "0", "0"}, "unknown tool"},
		{[]string{"pen", "0", "0", "1"}, "expected x y pairs"},
		{[]string{"pen", "a", "0"}, "invalid x"},
		{[]string{"-fill", "x", "pen"}, "Usage:"},
	}
	for _, c := range cases {
		_, err := parseDrawCmd(c.args, r)
		if err == nil {
			t.Fatalf("%v: expected error", c.args)
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%v: error %q does not mention %q", c.args, err, c.want)
		}
	}
}

func TestDrawPersistsGesture(t *testing.T) {
	r, _ := testRoot(t)
	cmd, err := parseDrawCmd([]string{"-color", "red", "line", "0", "0", "3", "0"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	s := savedState(t, r)
	if s.Size != grid.DefaultSize {
		t.Fatalf("size = %d", s.Size)
	}
	for x := 0; x <= 3; x++ {
		if s.Pixels[x] != "#ff0000" {
			t.Fatalf("pixel %d = %q", x, s.Pixels[x])
		}
	}
	if s.Pixels[4] != grid.Empty {
		t.Fatalf("line overran: %q", s.Pixels[4])
	}

	cmd, err = parseDrawCmd([]string{"eraser", "1", "0"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if s := savedState(t, r); s.Pixels[1] != grid.Empty || s.Pixels[0] != "#ff0000" {
		t.Fatalf("second draw did not build on the saved state: %v", s.Pixels[:4])
	}
}

func TestDrawRejectsPointsOutsideGrid(t *testing.T) {
	r, _ := testRoot(t)
	cmd, err := parseDrawCmd([]string{"pen", "16", "0"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "outside") {
		t.Fatalf("expected outside error, got %v", err)
	}
}

func TestMalformedStateFallsBackToDefaults(t *testing.T) {
	r, hook := testRoot(t)
	path := filepath.Join(r.config.Store.Dir, r.storeKey+".json")
	if err := os.WriteFile(path, []byte(`{"pixels":[],"size":16}`), 0o644); err != nil {
		t.Fatal(err)
	}
	i, _ := newSession(t, r)
	if !i.editor.Grid().IsBlank() || i.editor.Size() != grid.DefaultSize {
		t.Fatalf("expected a blank default grid")
	}
	found := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, "ignoring saved state") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no warning logged")
	}
}

func TestInteractiveSession(t *testing.T) {
	r, _ := testRoot(t)
	i, out := newSession(t, r)
	run(t, i,
		"tool pen",
		"color #00ff00",
		"drag 0 0 1 0 2 0",
		"undo",
		"redo",
		"dblclick 1 0",
		"resize 8",
		"bg none",
		"addcolor #123456",
		"show plain",
	)
	if i.editor.Size() != 8 {
		t.Fatalf("size = %d", i.editor.Size())
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("show printed %d rows:\n%s", len(lines), out.String())
	}
	if got := lines[0]; got != "# . # . . . . . " {
		t.Fatalf("row 0 = %q", got)
	}

	s := savedState(t, r)
	if s.Size != 8 || s.BackgroundColor != grid.Empty {
		t.Fatalf("saved size %d background %q", s.Size, s.BackgroundColor)
	}
	if len(s.CustomColors) != 1 || s.CustomColors[0] != "#123456" {
		t.Fatalf("custom colors = %v", s.CustomColors)
	}
}

func TestInteractiveErrorsLeaveSessionUsable(t *testing.T) {
	r, _ := testRoot(t)
	i, _ := newSession(t, r)
	for _, line := range []string{"tool laser", "resize 65", "click 0", "color none", "brush x", "nope"} {
		if _, err := i.executeLine(line); err == nil {
			t.Fatalf("%q: expected error", line)
		}
	}
	if _, err := i.executeLine("resize 65"); !errors.Is(err, grid.ErrSize) {
		t.Fatalf("resize error = %v", err)
	}
	done, err := i.executeLine("exit")
	if err != nil || !done {
		t.Fatalf("exit = %v, %v", done, err)
	}
	if i.editor.CanUndo() {
		t.Fatalf("failed commands changed the artwork")
	}
}

func TestPipetteDoesNotCommit(t *testing.T) {
	r, _ := testRoot(t)
	i, out := newSession(t, r)
	run(t, i, "color red", "click 2 2", "color blue", "tool pipette", "click 2 2")
	if got := i.editor.ActiveColor(); got != "#ff0000" {
		t.Fatalf("picked %s", got)
	}
	if !strings.Contains(out.String(), "picked #ff0000") {
		t.Fatalf("output = %q", out.String())
	}
	run(t, i, "undo")
	if !i.editor.Grid().IsBlank() {
		t.Fatalf("pipette created a history entry")
	}
}

func TestExportResolve(t *testing.T) {
	r, _ := testRoot(t)
	cases := []struct {
		args       []string
		wantFormat export.Format
		wantPath   string
	}{
		{nil, export.PNG, filepath.Join(r.config.SaveDir, "8bit-art.png")},
		{[]string{"-output", "art.jpeg"}, export.JPEG, "art.jpeg"},
		{[]string{"-format", "pdf"}, export.PDF, filepath.Join(r.config.SaveDir, "8bit-art.pdf")},
		{[]string{"-format", "tif", "-output", "x.png"}, export.TIFF, "x.png"},
	}
	for _, c := range cases {
		cmd, err := parseExportCmd(c.args, r)
		if err != nil {
			t.Fatalf("%v: %v", c.args, err)
		}
		f, path, err := cmd.resolve()
		if err != nil {
			t.Fatalf("%v: %v", c.args, err)
		}
		if f != c.wantFormat || path != c.wantPath {
			t.Fatalf("%v: got %s %s", c.args, f, path)
		}
	}
	cmd, err := parseExportCmd([]string{"-format", "gif"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := cmd.resolve(); !errors.Is(err, export.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := parseExportCmd([]string{"-scale", "0"}, r); err == nil {
		t.Fatalf("expected scale error")
	}
}

func TestExportWritesScaledImage(t *testing.T) {
	r, _ := testRoot(t)
	i, _ := newSession(t, r)
	run(t, i, "resize 4", "click 0 0")

	out := filepath.Join(t.TempDir(), "nested", "art.png")
	cmd, err := parseExportCmd([]string{"-output", out, "-scale", "3"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 12 {
		t.Fatalf("bounds = %v", b)
	}
}

func TestWriteGridANSI(t *testing.T) {
	g, _ := grid.New(4, 4)
	g = g.Set(0, 0, "#ff0000")
	var buf bytes.Buffer
	if err := writeGrid(&buf, g, grid.Empty, false); err != nil {
		t.Fatal(err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	want := ansiBlock([3]uint8{255, 0, 0}) + ansiBlock(checkerDark) + ansiBlock(checkerLight) + ansiBlock(checkerDark)
	if first != want {
		t.Fatalf("got %q want %q", first, want)
	}

	buf.Reset()
	if err := writeGrid(&buf, g, "#0000ff", false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), ansiBlock([3]uint8{255, 0, 0})+ansiBlock([3]uint8{0, 0, 255})) {
		t.Fatalf("background not used for empty cells: %q", buf.String())
	}
}

func TestConfigPrint(t *testing.T) {
	r, _ := testRoot(t)
	cmd, err := parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	cmd.stdout = &buf
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "size = 16") || !strings.Contains(buf.String(), "[store]") {
		t.Fatalf("unexpected config output:\n%s", buf.String())
	}
}

func TestConfigSaveToOutput(t *testing.T) {
	r, _ := testRoot(t)
	path := filepath.Join(t.TempDir(), "numbit.rc")
	cmd, err := parseConfigCmd([]string{"-output", path, "save"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != r.config.String() {
		t.Fatalf("saved config differs")
	}
}

func TestUsageErrorRendersTemplate(t *testing.T) {
	r, _ := testRoot(t)
	_, err := parseShowCmd([]string{"extra"}, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UsageError, got %v", err)
	}
	msg := uerr.Error()
	if !strings.Contains(msg, "Usage: numbit") || !strings.Contains(msg, "-plain") {
		t.Fatalf("help = %q", msg)
	}
}

func TestServeDoesNotPersistByDefault(t *testing.T) {
	r, _ := testRoot(t)
	s, err := parseServeCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	if s.persist {
		t.Fatalf("sessions are persisted without -persist")
	}
	s, err = parseServeCmd([]string{"-persist"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if !s.persist {
		t.Fatalf("-persist was ignored")
	}
}

func TestServeFactoryWritesOnlyWithStore(t *testing.T) {
	r, _ := testRoot(t)
	s, err := parseServeCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	factory, err := s.factory(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"a", "b", "c"} {
		stroke(factory(id), tool.Pen, []int{0})
	}
	entries, err := os.ReadDir(r.config.Store.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("%d files written without a store", len(entries))
	}

	factory, err = s.factory(ctx, store.NewFile(r.config.Store.Dir))
	if err != nil {
		t.Fatal(err)
	}
	stroke(factory("a"), tool.Pen, []int{0})
	saved, err := store.Load(ctx, store.NewFile(r.config.Store.Dir), r.storeKey+"-a")
	if err != nil {
		t.Fatalf("persisted session not saved: %v", err)
	}
	if saved.Pixels[0] == grid.Empty {
		t.Fatalf("saved session is blank")
	}
}

type colorClipboard struct{ c grid.Color }

func (m *colorClipboard) WriteColor(c grid.Color) error {
	m.c = c
	return nil
}

func (m *colorClipboard) ReadColor() (grid.Color, error) {
	if m.c == grid.Empty {
		return grid.Empty, errors.New("clipboard does not contain text data")
	}
	return m.c, nil
}

func TestInteractiveCopyAndPasteColor(t *testing.T) {
	r, _ := testRoot(t)
	i, out := newSession(t, r)
	clip := &colorClipboard{}
	i.colors = clip

	if _, err := i.executeLine("pastecolor"); err == nil {
		t.Fatalf("paste from an empty clipboard succeeded")
	}
	run(t, i, "color red", "copycolor", "color blue", "pastecolor")
	if clip.c != "#ff0000" {
		t.Fatalf("clipboard = %q", clip.c)
	}
	if got := i.editor.ActiveColor(); got != "#ff0000" {
		t.Fatalf("active color = %s", got)
	}
	if !strings.Contains(out.String(), "copied #ff0000") {
		t.Fatalf("output = %q", out.String())
	}
}
