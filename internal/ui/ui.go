// Package ui is the desktop editor window. It draws one editor session with
// shiny and translates pointer and keyboard input into editor operations.
package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/numbit/internal/clipboard"
	"github.com/example/numbit/internal/editor"
	"github.com/example/numbit/internal/export"
	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/notify"
	"github.com/example/numbit/internal/raster"
	"github.com/example/numbit/internal/tool"
)

// doubleClickInterval bounds the gap between two presses on the same cell
// that count as a double click.
const doubleClickInterval = 400 * time.Millisecond

const messageDuration = 2 * time.Second

// Window drives an editor session from a native window.
type Window struct {
	editor *editor.Editor
	log    *logrus.Entry

	title        string
	gridLines    bool
	exportDir    string
	exportFormat export.Format
	exportScale  int
	notifier     *notify.Notifier
	colors       clipboard.Colors
	onClose      func()
	closeOnce    sync.Once

	keys   *keymap
	layout layout

	pressed   bool
	lastCell  int
	lastPress time.Time
	pressCell int
	hoverTool int

	message      string
	messageUntil time.Time
	quit         bool
}

// Option configures a Window.
type Option func(*Window)

// WithTitle sets the window title.
func WithTitle(t string) Option { return func(w *Window) { w.title = t } }

// WithGridLines sets whether cell boundaries are drawn initially.
func WithGridLines(on bool) Option { return func(w *Window) { w.gridLines = on } }

// WithExport sets where ctrl+s writes the artwork.
func WithExport(dir string, f export.Format, scale int) Option {
	return func(w *Window) {
		w.exportDir = dir
		w.exportFormat = f
		w.exportScale = scale
	}
}

// WithNotifier raises desktop notifications after exports and copies.
func WithNotifier(n *notify.Notifier) Option { return func(w *Window) { w.notifier = n } }

// WithLogger sets the logger.
func WithLogger(l *logrus.Entry) Option { return func(w *Window) { w.log = l } }

// WithColorClipboard replaces the clipboard used to copy and paste colours.
func WithColorClipboard(c clipboard.Colors) Option { return func(w *Window) { w.colors = c } }

// WithOnClose registers fn to run once when the window goes away.
func WithOnClose(fn func()) Option { return func(w *Window) { w.onClose = fn } }

// New creates a window for e.
func New(e *editor.Editor, opts ...Option) *Window {
	w := &Window{
		editor:       e,
		log:          logrus.NewEntry(logrus.StandardLogger()),
		title:        "Numbit",
		gridLines:    true,
		exportDir:    ".",
		exportFormat: export.PNG,
		exportScale:  export.DefaultScale,
		colors:       clipboard.System,
		lastCell:     grid.Invalid,
		pressCell:    grid.Invalid,
		hoverTool:    -1,
	}
	for _, o := range opts {
		o(w)
	}
	w.keys = w.bindKeys()
	w.relayout(640, 480)
	return w
}

// Run executes the UI loop using shiny's driver.
func (w *Window) Run() { driver.Main(w.Main) }

// Main runs the event loop on s until the window is closed.
func (w *Window) Main(s screen.Screen) {
	width := toolbarWidth + 16*grid.DefaultSize*2 + 2*canvasMargin
	height := 16*grid.DefaultSize*2 + statusHeight + 2*canvasMargin
	win, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: w.title})
	if err != nil {
		w.log.WithError(err).Error("new window")
		return
	}
	defer win.Release()
	defer w.notifyClose()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	paintCh := make(chan frame, 1)
	defer close(paintCh)
	go func() {
		for f := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			w.paint(ctx, s, win, f)
			paintMu.Lock()
			paintCancel = nil
			paintMu.Unlock()
			cancel()
		}
	}()

	for {
		switch e := win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			w.relayout(e.WidthPx, e.HeightPx)
		case paint.Event:
			f := w.frame()
			select {
			case paintCh <- f:
			default:
				// A frame is still in flight; replace it with the newer one.
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				select {
				case <-paintCh:
				default:
				}
				paintCh <- f
			}
		case mouse.Event:
			if w.handleMouse(e, time.Now()) {
				win.Send(paint.Event{})
			}
		case key.Event:
			if w.handleKey(e) {
				win.Send(paint.Event{})
			}
			if w.quit {
				return
			}
		case error:
			w.log.WithError(e).Warn("window event")
		}
	}
}

func (w *Window) paint(ctx context.Context, s screen.Screen, win screen.Window, f frame) {
	b, err := s.NewBuffer(image.Point{f.layout.width, f.layout.height})
	if err != nil {
		w.log.WithError(err).Error("new buffer")
		return
	}
	defer b.Release()
	drawFrame(b.RGBA(), f)
	if ctx.Err() != nil {
		return
	}
	win.Upload(image.Point{}, b, b.Bounds())
	win.Publish()
}

func (w *Window) notifyClose() {
	w.closeOnce.Do(func() {
		if w.onClose != nil {
			w.onClose()
		}
	})
}

func (w *Window) relayout(width, height int) {
	p := w.editor.Palette()
	w.layout = newLayout(width, height, w.editor.Size(), len(tool.All()), len(p.Colors), len(w.editor.CustomColors()))
}

func (w *Window) frame() frame {
	e := w.editor
	w.relayout(w.layout.width, w.layout.height)
	return frame{
		layout:       w.layout,
		cells:        e.DisplayGrid(),
		tool:         e.ActiveTool(),
		color:        e.ActiveColor(),
		background:   e.Background(),
		brush:        e.BrushSize(),
		fill:         e.FillMode(),
		palette:      e.Palette(),
		custom:       e.CustomColors(),
		gridLines:    w.gridLines,
		canUndo:      e.CanUndo(),
		canRedo:      e.CanRedo(),
		hoverTool:    w.hoverTool,
		message:      w.message,
		messageUntil: w.messageUntil,
	}
}

func (w *Window) flash(format string, args ...interface{}) {
	w.message = fmt.Sprintf(format, args...)
	w.messageUntil = time.Now().Add(messageDuration)
	w.log.Info(w.message)
}

// handleMouse applies a pointer event and reports whether a repaint is due.
func (w *Window) handleMouse(e mouse.Event, now time.Time) bool {
	p := image.Pt(int(e.X), int(e.Y))
	ed := w.editor
	switch e.Direction {
	case mouse.DirStep:
		switch e.Button {
		case mouse.ButtonWheelUp:
			ed.SetBrushSize(ed.BrushSize() + 1)
		case mouse.ButtonWheelDown:
			ed.SetBrushSize(ed.BrushSize() - 1)
		default:
			return false
		}
		return true
	case mouse.DirPress:
		if i := hit(w.layout.tools, p); i >= 0 {
			if e.Button == mouse.ButtonLeft {
				ed.SetActiveTool(tool.All()[i])
			}
			return true
		}
		if i := hit(w.layout.swatches, p); i >= 0 {
			ed.SetActiveColor(ed.Palette().Colors[i])
			return true
		}
		if i := hit(w.layout.customs, p); i >= 0 {
			if cols := ed.CustomColors(); i < len(cols) {
				ed.SetActiveColor(cols[i])
			}
			return true
		}
		cell := w.layout.cellAt(p)
		if cell == grid.Invalid {
			return false
		}
		switch e.Button {
		case mouse.ButtonLeft:
			if cell == w.pressCell && now.Sub(w.lastPress) <= doubleClickInterval {
				w.pressCell = grid.Invalid
				ed.DoubleClick(cell)
				return true
			}
			w.pressCell = cell
			w.lastPress = now
			w.pressed = true
			w.lastCell = cell
			ed.BeginGesture(ed.ActiveTool(), cell)
		case mouse.ButtonRight:
			prev := ed.ActiveTool()
			ed.BeginGesture(tool.Pipette, cell)
			ed.SetActiveTool(prev)
		default:
			return false
		}
		return true
	case mouse.DirRelease:
		if !w.pressed {
			return false
		}
		w.pressed = false
		w.lastCell = grid.Invalid
		ed.EndGesture()
		return true
	case mouse.DirNone:
		if !w.pressed {
			hover := hit(w.layout.tools, p)
			if hover != w.hoverTool {
				w.hoverTool = hover
				return true
			}
			return false
		}
		cell := w.layout.cellAt(p)
		if cell == grid.Invalid || cell == w.lastCell {
			return false
		}
		w.lastCell = cell
		ed.ContinueGesture(cell)
		return true
	}
	return false
}

// handleKey runs the action bound to a key press and reports whether one ran.
func (w *Window) handleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	name, ok := w.keys.lookup(e)
	if !ok {
		return false
	}
	w.log.WithField("action", name).Debug("shortcut")
	return w.keys.run(name)
}

func (w *Window) bindKeys() *keymap {
	k := newKeymap()
	ed := w.editor
	ctrl := func(r rune, c key.Code) shortcutList {
		return shortcutList{{Rune: r, Modifiers: key.ModControl}, {Code: c, Modifiers: key.ModControl}}
	}
	for _, t := range tool.All() {
		t := t
		lbl := toolLabels[t]
		r := []rune(lbl)[0] + ('a' - 'A')
		k.register(t.String(), shortcutList{{Rune: r}}, func() { ed.SetActiveTool(t) })
	}
	k.register("undo", ctrl('z', key.CodeZ), func() {
		if !ed.Undo() {
			w.flash("nothing to undo")
		}
	})
	k.register("redo", append(ctrl('y', key.CodeY),
		KeyShortcut{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
		KeyShortcut{Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift}), func() {
		if !ed.Redo() {
			w.flash("nothing to redo")
		}
	})
	k.register("copy", ctrl('c', key.CodeC), w.copyImage)
	k.register("copy-color", shortcutList{
		{Rune: 'c', Modifiers: key.ModControl | key.ModShift},
		{Code: key.CodeC, Modifiers: key.ModControl | key.ModShift},
	}, w.copyColor)
	k.register("paste-color", ctrl('v', key.CodeV), w.pasteColor)
	k.register("export", ctrl('s', key.CodeS), w.exportImage)
	k.register("grid", shortcutList{{Rune: 'g'}}, func() { w.gridLines = !w.gridLines })
	k.register("brush-", shortcutList{{Rune: '['}}, func() { ed.SetBrushSize(ed.BrushSize() - 1) })
	k.register("brush+", shortcutList{{Rune: ']'}}, func() { ed.SetBrushSize(ed.BrushSize() + 1) })
	k.register("fill", shortcutList{{Rune: 'f'}}, func() {
		next := (ed.FillMode() + 1) % (raster.Dashed + 1)
		ed.SetShapeFillMode(next)
		w.flash("fill %s", next)
	})
	k.register("grow", shortcutList{{Rune: '='}, {Rune: '+'}}, func() { w.resize(ed.Size() + 4) })
	k.register("shrink", shortcutList{{Rune: '-'}}, func() { w.resize(ed.Size() - 4) })
	k.register("reset-size", shortcutList{{Rune: '0'}}, func() { w.resize(grid.DefaultSize) })
	k.register("clear", shortcutList{{Code: key.CodeDeleteForward}}, func() {
		ed.Clear()
		w.flash("cleared")
	})
	k.register("background", shortcutList{{Rune: 't'}}, func() {
		if ed.Background() == grid.Empty {
			ed.SetBackground(editor.DefaultBackground)
		} else {
			ed.SetBackground(grid.Empty)
		}
	})
	k.register("keep-color", shortcutList{{Rune: 'k'}}, func() {
		if ed.AddCustomColor(ed.ActiveColor()) {
			w.flash("added %s", ed.ActiveColor())
		}
	})
	k.register("quit", ctrl('q', key.CodeQ), func() { w.quit = true })
	return k
}

func (w *Window) resize(n int) {
	if !grid.ValidSize(n) {
		w.flash("size must be between %d and %d", grid.MinSize, grid.MaxSize)
		return
	}
	w.editor.Resize(n)
}

func (w *Window) exportOptions() export.Options {
	return export.Options{Scale: w.exportScale, Background: w.editor.Background()}
}

func (w *Window) copyImage() {
	img := export.Image(w.editor.Grid(), w.exportOptions())
	if err := clipboard.WriteImage(img); err != nil {
		w.log.WithError(err).Warn("copy to clipboard")
		w.flash("copy failed: %v", err)
		return
	}
	w.flash("copied to clipboard")
	if w.notifier != nil {
		w.notifier.Copy("image")
	}
}

func (w *Window) copyColor() {
	c := w.editor.ActiveColor()
	if err := w.colors.WriteColor(c); err != nil {
		w.log.WithError(err).Warn("copy colour")
		w.flash("copy failed: %v", err)
		return
	}
	w.flash("copied %s", c)
	if w.notifier != nil {
		w.notifier.Copy(string(c))
	}
}

// pasteColor makes the clipboard colour the active colour.
func (w *Window) pasteColor() {
	c, err := w.colors.ReadColor()
	if err == nil && c.IsEmpty() {
		err = errors.New("transparent is not a drawing color")
	}
	if err != nil {
		w.log.WithError(err).Debug("paste colour")
		w.flash("paste failed: %v", err)
		return
	}
	w.editor.SetActiveColor(c)
	w.flash("active color %s", c)
}

func (w *Window) exportImage() {
	path := filepath.Join(w.exportDir, export.DefaultFilename(w.exportFormat))
	if err := export.WriteFile(path, w.editor.Grid(), w.exportFormat, w.exportOptions()); err != nil {
		w.log.WithError(err).WithField("path", path).Warn("export")
		w.flash("export failed: %v", err)
		return
	}
	w.flash("saved %s", path)
	if w.notifier != nil {
		w.notifier.Export(path)
	}
}
