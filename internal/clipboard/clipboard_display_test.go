//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"errors"
	"sync"
	"testing"
)

func TestEnsureInitWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	initOnce = sync.Once{}
	initErr = nil
	t.Cleanup(func() {
		initOnce = sync.Once{}
		initErr = nil
	})

	err := WriteColor("#ff0000")
	if !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
	if _, err := ReadColor(); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay from ReadColor, got %v", err)
	}
}
