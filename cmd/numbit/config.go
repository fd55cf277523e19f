package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/numbit/internal/config"
)

type configCmd struct {
	*root
	fs     *flag.FlagSet
	output string
	stdout io.Writer
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	c := &configCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.output, "output", "", "file written by save (default the loaded config file)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		_, err := fmt.Fprint(c.stdout, c.config.String())
		return err
	case "save":
		return c.runSave()
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) runSave() error {
	path := c.output
	if path == "" {
		path = config.NewLoader(version, configPathOverride).GetConfigPath()
	}
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return fmt.Errorf("no config path: home directory unknown")
	}
	if err := config.Save(c.config, path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
