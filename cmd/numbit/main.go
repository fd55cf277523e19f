package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/numbit/internal/config"
	"github.com/example/numbit/internal/notify"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	config       *config.Config
	notifier     *notify.Notifier
	log          *logrus.Logger
	exportAlerts bool
	saveAlerts   bool
	copyAlerts   bool
	paletteName  string
	storeKey     string
	verbose      bool
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	sub := *r
	sub.program = program
	return &sub
}

func newRoot() *root {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		log.WithError(err).Warn("failed to load config")
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("numbit", flag.ExitOnError),
		program:  "numbit",
		config:   cfg,
		notifier: notify.New(notify.LoadPreferences(nil)),
		log:      log,
	}
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving the editor state")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.StringVar(&r.paletteName, "palette", "", "palette name or TOML file (default from config)")
	r.fs.StringVar(&r.storeKey, "key", "", "key the editor state is stored under (default from config)")
	r.fs.BoolVar(&r.verbose, "v", false, "log debug output")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventExport, r.exportAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	if r.verbose && r.log != nil {
		r.log.SetLevel(logrus.DebugLevel)
	}
	// Precedence: CLI > Env > Config > Default. Env is already folded into config.
	if r.paletteName == "" {
		r.paletteName = r.config.Palette
	}
	if r.storeKey == "" {
		r.storeKey = r.config.Store.Key
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r.subcommand(cmdName))
	case "show":
		cmd, err = parseShowCmd(subArgs, r.subcommand(cmdName))
	case "export":
		cmd, err = parseExportCmd(subArgs, r.subcommand(cmdName))
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r.subcommand(cmdName))
	case "serve":
		cmd, err = parseServeCmd(subArgs, r.subcommand(cmdName))
	case "edit":
		cmd, err = parseEditCmd(subArgs, r.subcommand(cmdName))
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r.subcommand(cmdName))
	case "palettes":
		cmd, err = parsePalettesCmd(subArgs, r.subcommand(cmdName))
	case "config":
		cmd, err = parseConfigCmd(subArgs, r.subcommand(cmdName))
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (r *root) notifyExport(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Export(path)
}

func (r *root) notifySave(key string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(key)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}
