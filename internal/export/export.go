// Package export writes rendered grids to image and document formats.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/render"
)

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpg"
	PDF  Format = "pdf"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// DefaultScale is the number of output pixels per cell.
const DefaultScale = 16

// BaseName is the file name used when no output path is given.
const BaseName = "8bit-art"

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported formats.
func Formats() []Format { return []Format{PNG, JPEG, PDF, BMP, TIFF} }

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "pdf":
		return PDF, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// DefaultFilename returns the file name for f, e.g. 8bit-art.png.
func DefaultFilename(f Format) string { return BaseName + "." + string(f) }

// Options configures an export.
type Options struct {
	Scale      int
	Background grid.Color
	GridLines  bool
}

// Image renders g at the configured scale.
func Image(g grid.Grid, opts Options) *image.RGBA {
	scale := opts.Scale
	if scale < 1 {
		scale = DefaultScale
	}
	return render.Grid(g, render.Options{
		Scale:      scale,
		Background: opts.Background,
		GridLines:  opts.GridLines,
	})
}

// Encode writes img to w in format f. Formats without transparency are
// composited over background, or black when background is Empty.
func Encode(w io.Writer, img *image.RGBA, f Format, background grid.Color) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, render.Flatten(img, opaque(background)), &jpeg.Options{Quality: 95})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case PDF:
		return encodePDF(w, img)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, string(f))
}

// Write renders g and encodes it to w.
func Write(w io.Writer, g grid.Grid, f Format, opts Options) error {
	return Encode(w, Image(g, opts), f, opts.Background)
}

// WriteFile renders g into path, creating or truncating it.
func WriteFile(path string, g grid.Grid, f Format, opts Options) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(out, g, f, opts); err != nil {
		out.Close()
		return fmt.Errorf("export %s: %w", f, err)
	}
	return out.Close()
}

// PNGBytes renders g as PNG, the form placed on the clipboard.
func PNGBytes(g grid.Grid, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, g, PNG, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func opaque(c grid.Color) color.Color {
	if rgba, ok := c.RGBA(); ok {
		return rgba
	}
	return color.Black
}

// encodePDF places img on a landscape A4 page, scaled to the page width.
func encodePDF(w io.Writer, img *image.RGBA) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(BaseName, opt, &buf)
	pageW, _ := pdf.GetPageSize()
	b := img.Bounds()
	height := float64(b.Dy()) * pageW / float64(b.Dx())
	pdf.ImageOptions(BaseName, 0, 0, pageW, height, false, opt, 0, "")
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
