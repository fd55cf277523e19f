package palette

import (
	"fmt"
	"image/color"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/example/numbit/internal/grid"
)

type file struct {
	Name       string   `toml:"name"`
	Colors     []string `toml:"colors"`
	Background string   `toml:"background"`
	UI         struct {
		Toolbar      string `toml:"toolbar"`
		Button       string `toml:"button"`
		ButtonActive string `toml:"button_active"`
		Text         string `toml:"text"`
		GridLine     string `toml:"grid_line"`
		CheckerLight string `toml:"checker_light"`
		CheckerDark  string `toml:"checker_dark"`
	} `toml:"ui"`
}

// Parse reads a palette definition in TOML:
//
//	name = "gameboy"
//	colors = ["#0f380f", "#306230"]
//	background = "#9bbc0f"
//
//	[ui]
//	toolbar = "#0f380f"
//
// Missing chrome colours fall back to DefaultUI.
func Parse(r io.Reader) (Palette, error) {
	var f file
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return Palette{}, fmt.Errorf("decode palette: %w", err)
	}
	if len(f.Colors) == 0 {
		return Palette{}, fmt.Errorf("palette %q has no colors", f.Name)
	}
	p := Palette{Name: f.Name, UI: DefaultUI()}
	var err error
	if p.Colors, err = ParseColors(f.Colors); err != nil {
		return Palette{}, err
	}
	if f.Background != "" {
		if p.Background, err = grid.ParseColor(f.Background); err != nil {
			return Palette{}, fmt.Errorf("background: %w", err)
		}
	}
	fields := []struct {
		key string
		val string
		dst *color.RGBA
	}{
		{"toolbar", f.UI.Toolbar, &p.UI.Toolbar},
		{"button", f.UI.Button, &p.UI.Button},
		{"button_active", f.UI.ButtonActive, &p.UI.ButtonActive},
		{"text", f.UI.Text, &p.UI.Text},
		{"grid_line", f.UI.GridLine, &p.UI.GridLine},
		{"checker_light", f.UI.CheckerLight, &p.UI.CheckerLight},
		{"checker_dark", f.UI.CheckerDark, &p.UI.CheckerDark},
	}
	for _, fl := range fields {
		if fl.val == "" {
			continue
		}
		c, err := grid.ParseColor(fl.val)
		if err != nil {
			return Palette{}, fmt.Errorf("ui.%s: %w", fl.key, err)
		}
		rgba, ok := c.RGBA()
		if !ok {
			return Palette{}, fmt.Errorf("ui.%s: %q is not opaque", fl.key, fl.val)
		}
		*fl.dst = rgba
	}
	return p, nil
}

// ParseColors parses a list of swatches, skipping duplicates. Transparent
// entries are rejected.
func ParseColors(list []string) ([]grid.Color, error) {
	out := make([]grid.Color, 0, len(list))
	for _, s := range list {
		c, err := grid.ParseColor(s)
		if err != nil {
			return nil, err
		}
		if c.IsEmpty() {
			return nil, fmt.Errorf("palette colour %q is transparent", s)
		}
		if Index(out, c) < 0 {
			out = append(out, c)
		}
	}
	return out, nil
}
