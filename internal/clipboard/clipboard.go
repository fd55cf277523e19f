// Package clipboard publishes exported artwork and colour values on the
// system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/example/numbit/internal/grid"
)

// WriteImage encodes img as PNG and publishes it.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return writePNG(buf.Bytes())
}

// WriteColor publishes c as text so it can be pasted into other programs.
func WriteColor(c grid.Color) error {
	if c.IsEmpty() {
		return errors.New("clipboard: cannot copy a transparent colour")
	}
	return writeText([]byte(c))
}

// ReadColor parses the clipboard text as a colour.
func ReadColor() (grid.Color, error) {
	data, err := readText()
	if err != nil {
		return grid.Empty, err
	}
	// Some applications include a trailing NUL in STRING responses.
	text := strings.TrimSpace(strings.TrimRight(string(data), "\x00"))
	if text == "" {
		return grid.Empty, fmt.Errorf("clipboard does not contain text data")
	}
	return grid.ParseColor(text)
}

// Colors copies and pastes colour values.
type Colors interface {
	WriteColor(c grid.Color) error
	ReadColor() (grid.Color, error)
}

// System is the host clipboard.
var System Colors = system{}

type system struct{}

func (system) WriteColor(c grid.Color) error  { return WriteColor(c) }
func (system) ReadColor() (grid.Color, error) { return ReadColor() }
