package config

import (
	"os"
	"path/filepath"
)

// EnvPrefix prefixes environment overrides, e.g. NUMBIT_SIZE.
const EnvPrefix = "NUMBIT_"

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed
	// Lookup reads environment overrides. os.LookupEnv when nil.
	Lookup func(string) (string, bool)
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the configuration file, if any, and applies environment
// overrides on top of it.
func (l *Loader) Load() (*Config, error) {
	cfg, err := l.loadFile()
	if err != nil {
		return nil, err
	}
	lookup := l.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) loadFile() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil // No config file found, return defaults
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".numbitrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. XDG Config Path
	if path := DefaultPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// DefaultPath is where `config save` writes when no path is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "numbit", "config.rc")
}

// Save writes cfg in RC format to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(cfg.String()), 0o644)
}
