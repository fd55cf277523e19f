package palette

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed defaults/*.toml
var embedded embed.FS

const ext = ".toml"

// Loader finds palettes by name or path.
type Loader struct {
	ConfigDir string
	SystemDir string
	// Inline holds palettes defined in the configuration file.
	Inline map[string][]string
}

// NewLoader creates a Loader with the standard search paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "numbit", "palettes"),
		SystemDir: "/usr/share/numbit/palettes",
	}
}

// Load resolves name in order: an existing file path, inline configuration,
// the embedded defaults, ConfigDir, then SystemDir. An empty name is the
// built-in palette.
func (l *Loader) Load(name string) (Palette, error) {
	if name == "" || name == DefaultName {
		return Default(), nil
	}
	if _, err := os.Stat(name); err == nil {
		return parseFile(name)
	}
	if cols, ok := l.Inline[name]; ok {
		parsed, err := ParseColors(cols)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %s: %w", name, err)
		}
		p := Default()
		p.Name = name
		p.Colors = parsed
		return p, nil
	}
	filename := name
	if !strings.HasSuffix(filename, ext) {
		filename += ext
	}
	if f, err := embedded.Open("defaults/" + filename); err == nil {
		defer f.Close()
		p, err := Parse(f)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %s: %w", name, err)
		}
		return p, nil
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
	}
	return Palette{}, fmt.Errorf("palette %q not found", name)
}

// List returns the names of every palette Load can find without a path,
// sorted and without duplicates.
func (l *Loader) List() []string {
	seen := map[string]bool{DefaultName: true}
	for name := range l.Inline {
		seen[name] = true
	}
	if entries, err := fs.ReadDir(embedded, "defaults"); err == nil {
		addNames(seen, entries)
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		if entries, err := os.ReadDir(dir); err == nil {
			addNames(seen, entries)
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func addNames(seen map[string]bool, entries []fs.DirEntry) {
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		seen[strings.TrimSuffix(e.Name(), ext)] = true
	}
}

func parseFile(path string) (Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return Palette{}, err
	}
	defer f.Close()
	p, err := Parse(f)
	if err != nil {
		return Palette{}, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), ext)
	}
	return p, nil
}
