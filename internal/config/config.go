package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/history"
	"github.com/example/numbit/internal/tool"
)

// DefaultStoreKey is the key the editor state is saved under.
const DefaultStoreKey = "8bit-art-state"

// Export holds export defaults.
type Export struct {
	Scale     int
	Format    string
	GridLines bool
}

// Store selects and configures the persistence backend.
type Store struct {
	Backend   string
	Dir       string
	Key       string
	RedisAddr string
	RedisDB   int
}

// Server holds settings for the websocket bridge.
type Server struct {
	Addr string
}

// Notify holds notification settings.
type Notify struct {
	Export bool
	Save   bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Size         int
	Color        string
	Background   string
	BrushSize    int
	FillMode     string
	HistoryLimit int
	Palette      string
	SaveDir      string

	Export Export
	Store  Store
	Server Server
	Notify Notify
	// Palettes maps inline palette names to their colours.
	Palettes map[string][]string
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Size:         grid.DefaultSize,
		Color:        "#ffffff",
		Background:   "#000000",
		BrushSize:    tool.MinBrush,
		FillMode:     "filled",
		HistoryLimit: history.DefaultLimit,
		Export: Export{
			Scale:  16,
			Format: "png",
		},
		Store: Store{
			Backend:   "file",
			Key:       DefaultStoreKey,
			RedisAddr: "localhost:6379",
		},
		Server: Server{
			Addr: ":8080",
		},
		Palettes: make(map[string][]string),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	fmt.Fprintf(&sb, "size = %d\n", c.Size)
	fmt.Fprintf(&sb, "color = %s\n", c.Color)
	fmt.Fprintf(&sb, "background = %s\n", c.Background)
	fmt.Fprintf(&sb, "brush_size = %d\n", c.BrushSize)
	fmt.Fprintf(&sb, "fill_mode = %s\n", c.FillMode)
	fmt.Fprintf(&sb, "history_limit = %d\n", c.HistoryLimit)
	if c.Palette != "" {
		fmt.Fprintf(&sb, "palette = %s\n", c.Palette)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[export]\n")
	fmt.Fprintf(&sb, "scale = %d\n", c.Export.Scale)
	fmt.Fprintf(&sb, "format = %s\n", c.Export.Format)
	fmt.Fprintf(&sb, "grid_lines = %v\n", c.Export.GridLines)
	sb.WriteString("\n")

	sb.WriteString("[store]\n")
	fmt.Fprintf(&sb, "backend = %s\n", c.Store.Backend)
	if c.Store.Dir != "" {
		fmt.Fprintf(&sb, "dir = %s\n", c.Store.Dir)
	}
	fmt.Fprintf(&sb, "key = %s\n", c.Store.Key)
	fmt.Fprintf(&sb, "redis_addr = %s\n", c.Store.RedisAddr)
	fmt.Fprintf(&sb, "redis_db = %d\n", c.Store.RedisDB)
	sb.WriteString("\n")

	sb.WriteString("[server]\n")
	fmt.Fprintf(&sb, "addr = %s\n", c.Server.Addr)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var names []string
	for name := range c.Palettes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(&sb, "[palette.%s]\n", name)
		fmt.Fprintf(&sb, "colors = %s\n", strings.Join(c.Palettes[name], ", "))
		sb.WriteString("\n")
	}

	return sb.String()
}
