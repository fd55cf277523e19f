package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/raster"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentPalette string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentPalette = ""

			if strings.HasPrefix(currentSection, "palette.") {
				currentPalette = strings.TrimPrefix(currentSection, "palette.")
				if _, ok := cfg.Palettes[currentPalette]; !ok {
					cfg.Palettes[currentPalette] = nil
				}
			}
			continue
		}

		// Parse Key = Value or Key: Value. Colours contain no ':' so '='
		// wins when both appear.
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := unquote(strings.TrimSpace(parts[1]))

		var err error
		switch {
		case currentPalette != "":
			err = setPaletteField(cfg, currentPalette, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		case currentSection == "export":
			err = setExportField(&cfg.Export, key, value)
		case currentSection == "store":
			err = setStoreField(&cfg.Store, key, value)
		case currentSection == "server":
			err = setServerField(&cfg.Server, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func unquote(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		return value[1 : len(value)-1]
	}
	return value
}

func setRootField(cfg *Config, key, value string) error {
	var err error
	switch key {
	case "size":
		cfg.Size, err = parseSize(key, value)
	case "color":
		cfg.Color, err = parseColor(key, value)
	case "background":
		cfg.Background, err = parseColor(key, value)
	case "brush_size":
		cfg.BrushSize, err = parseInt(key, value)
	case "fill_mode":
		if _, err = raster.ParseFillMode(value); err == nil {
			cfg.FillMode = value
		}
	case "history_limit":
		cfg.HistoryLimit, err = parseInt(key, value)
		if err == nil && cfg.HistoryLimit < 1 {
			err = fmt.Errorf("history_limit must be positive")
		}
	case "palette":
		cfg.Palette = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return err
}

func setExportField(e *Export, key, value string) error {
	var err error
	switch key {
	case "scale":
		e.Scale, err = parseInt(key, value)
		if err == nil && e.Scale < 1 {
			err = fmt.Errorf("scale must be positive")
		}
	case "format":
		e.Format = strings.ToLower(value)
	case "grid_lines":
		e.GridLines, err = parseBool(key, value)
	}
	return err
}

func setStoreField(s *Store, key, value string) error {
	var err error
	switch key {
	case "backend":
		switch strings.ToLower(value) {
		case "file", "redis":
			s.Backend = strings.ToLower(value)
		default:
			err = fmt.Errorf("unknown backend %q", value)
		}
	case "dir":
		s.Dir = value
	case "key":
		s.Key = value
	case "redis_addr":
		s.RedisAddr = value
	case "redis_db":
		s.RedisDB, err = parseInt(key, value)
	}
	return err
}

func setServerField(s *Server, key, value string) error {
	if key == "addr" {
		s.Addr = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch key {
	case "export":
		n.Export = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func setPaletteField(cfg *Config, name, key, value string) error {
	if key != "colors" {
		return nil
	}
	var cols []string
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		c, err := grid.ParseColor(field)
		if err != nil {
			return err
		}
		if c.IsEmpty() {
			return fmt.Errorf("palette colour %q is transparent", field)
		}
		cols = append(cols, string(c))
	}
	cfg.Palettes[name] = append(cfg.Palettes[name], cols...)
	return nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	return n, nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func parseSize(key, value string) (int, error) {
	n, err := parseInt(key, value)
	if err != nil {
		return 0, err
	}
	if !grid.ValidSize(n) {
		return 0, fmt.Errorf("%s: %w", key, grid.ErrSize)
	}
	return n, nil
}

// parseColor validates a colour and returns its canonical spelling.
func parseColor(key, value string) (string, error) {
	c, err := grid.ParseColor(value)
	if err != nil {
		return "", fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	return c.String(), nil
}
