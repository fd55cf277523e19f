//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"os"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	errNoTarget  = errors.New("clipboard target unavailable")
	owner        *selectionOwner
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		owner, initErr = newSelectionOwner()
	})
	return initErr
}

func writePNG(data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return owner.publish(payload{kind: kindPNG, data: data})
}

func writeText(data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return owner.publish(payload{kind: kindText, data: data})
}

func readText() ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := owner.request(owner.atoms[atomUTF8])
	if err != nil {
		return owner.request(xproto.AtomString)
	}
	return data, nil
}

type payloadKind int

const (
	kindNone payloadKind = iota
	kindText
	kindPNG
)

// payload is what this process currently offers on the CLIPBOARD selection.
type payload struct {
	kind payloadKind
	data []byte
}

const (
	atomClipboard = iota
	atomTargets
	atomUTF8
	atomTextPlain
	atomPNG
	atomProperty
	atomCount
)

var atomNames = [atomCount]string{
	atomClipboard: "CLIPBOARD",
	atomTargets:   "TARGETS",
	atomUTF8:      "UTF8_STRING",
	atomTextPlain: "text/plain;charset=utf-8",
	atomPNG:       "image/png",
	atomProperty:  "NUMBIT_SELECTION",
}

// selectionOwner holds the CLIPBOARD selection through an unmapped window and
// answers conversion requests from other clients.
type selectionOwner struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  [atomCount]xproto.Atom

	mu      sync.RWMutex
	current payload
}

func newSelectionOwner() (*selectionOwner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	o := &selectionOwner{conn: conn}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	mask := []uint32{xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify}
	if o.window, err = createWindow(conn, screen, xproto.WindowClassInputOutput, mask); err != nil {
		conn.Close()
		return nil, err
	}
	if err := o.internAtoms(); err != nil {
		xproto.DestroyWindow(conn, o.window)
		conn.Close()
		return nil, err
	}
	go o.serve()
	return o, nil
}

func createWindow(conn *xgb.Conn, screen *xproto.ScreenInfo, class uint16, mask []uint32) (xproto.Window, error) {
	w, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}
	depth, visual := screen.RootDepth, screen.RootVisual
	if class == xproto.WindowClassInputOnly {
		depth, visual = 0, 0
	}
	err = xproto.CreateWindowChecked(conn, depth, w, screen.Root, 0, 0, 1, 1, 0, class, visual, xproto.CwEventMask, mask).Check()
	return w, err
}

func (o *selectionOwner) internAtoms() error {
	for i, name := range atomNames {
		reply, err := xproto.InternAtom(o.conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return err
		}
		o.atoms[i] = reply.Atom
	}
	return nil
}

func (o *selectionOwner) publish(p payload) error {
	p.data = append([]byte(nil), p.data...)
	o.mu.Lock()
	o.current = p
	o.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(o.conn, o.window, o.atoms[atomClipboard], xproto.TimeCurrentTime).Check()
}

func (o *selectionOwner) serve() {
	for {
		ev, err := o.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.current = payload{}
			o.mu.Unlock()
		}
	}
}

// targets lists the conversions available for p.
func (o *selectionOwner) targets(p payload) []xproto.Atom {
	out := []xproto.Atom{o.atoms[atomTargets]}
	switch p.kind {
	case kindText:
		out = append(out, o.atoms[atomUTF8], xproto.AtomString, o.atoms[atomTextPlain])
	case kindPNG:
		out = append(out, o.atoms[atomPNG])
	}
	return out
}

// convert returns the property type, format and data for target, or ok false
// when p cannot be converted.
func (o *selectionOwner) convert(p payload, target xproto.Atom) (typ xproto.Atom, format byte, data []byte, ok bool) {
	switch target {
	case o.atoms[atomTargets]:
		atoms := o.targets(p)
		data = make([]byte, 4*len(atoms))
		for i, a := range atoms {
			xgb.Put32(data[4*i:], uint32(a))
		}
		return xproto.AtomAtom, 32, data, true
	case o.atoms[atomUTF8], xproto.AtomString, o.atoms[atomTextPlain]:
		if p.kind != kindText {
			return 0, 0, nil, false
		}
		return o.atoms[atomUTF8], 8, p.data, true
	case o.atoms[atomPNG]:
		if p.kind != kindPNG {
			return 0, 0, nil, false
		}
		return o.atoms[atomPNG], 8, p.data, true
	}
	return 0, 0, nil, false
}

func (o *selectionOwner) answer(e xproto.SelectionRequestEvent) {
	o.mu.RLock()
	p := o.current
	o.mu.RUnlock()

	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}
	if typ, format, data, ok := o.convert(p, e.Target); ok {
		n := uint32(len(data)) / uint32(format/8)
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property, typ, format, n, data)
	} else {
		property = xproto.AtomNone
	}
	reply := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	_ = xproto.SendEvent(o.conn, false, e.Requestor, 0, string(reply.Bytes()))
}

// request asks the current selection owner for target on a separate
// connection so the serving loop is not disturbed.
func (o *selectionOwner) request(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	w, err := createWindow(conn, screen, xproto.WindowClassInputOnly, []uint32{xproto.EventMaskPropertyChange})
	if err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, w)

	prop := o.atoms[atomProperty]
	if err := xproto.DeletePropertyChecked(conn, w, prop).Check(); err != nil {
		return nil, err
	}
	if err := xproto.ConvertSelectionChecked(conn, w, o.atoms[atomClipboard], target, prop, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		n, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if n.Property == xproto.AtomNone {
			return nil, errNoTarget
		}
		if n.Property != prop {
			continue
		}
		reply, perr := xproto.GetProperty(conn, false, w, prop, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if perr != nil {
			return nil, perr
		}
		return append([]byte(nil), reply.Value...), nil
	}
}
