package config

import "fmt"

// envKeys maps environment variable suffixes to section and key.
var envKeys = []struct {
	env     string
	section string
	key     string
}{
	{"SIZE", "", "size"},
	{"COLOR", "", "color"},
	{"BACKGROUND", "", "background"},
	{"BRUSH_SIZE", "", "brush_size"},
	{"FILL_MODE", "", "fill_mode"},
	{"HISTORY_LIMIT", "", "history_limit"},
	{"PALETTE", "", "palette"},
	{"SAVE_DIR", "", "save_dir"},
	{"EXPORT_SCALE", "export", "scale"},
	{"EXPORT_FORMAT", "export", "format"},
	{"STORE_BACKEND", "store", "backend"},
	{"STORE_DIR", "store", "dir"},
	{"STORE_KEY", "store", "key"},
	{"REDIS_ADDR", "store", "redis_addr"},
	{"REDIS_DB", "store", "redis_db"},
	{"ADDR", "server", "addr"},
}

// ApplyEnv overrides fields from NUMBIT_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, k := range envKeys {
		value, ok := lookup(EnvPrefix + k.env)
		if !ok || value == "" {
			continue
		}
		var err error
		switch k.section {
		case "":
			err = setRootField(c, k.key, value)
		case "export":
			err = setExportField(&c.Export, k.key, value)
		case "store":
			err = setStoreField(&c.Store, k.key, value)
		case "server":
			err = setServerField(&c.Server, k.key, value)
		}
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, k.env, err)
		}
	}
	return nil
}
