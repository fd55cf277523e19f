//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"errors"
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

func writePNG(data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

func writeText(data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, data)
	return nil
}

func readText() ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return clipboard.Read(clipboard.FmtText), nil
}
