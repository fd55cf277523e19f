package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"os"
	"sync"
	"text/template"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").Funcs(map[string]any{
		"flags": func(fs *flag.FlagSet) []flagInfo {
			result := []flagInfo{}
			if fs == nil {
				return result
			}
			fs.VisitAll(func(f *flag.Flag) {
				result = append(result, flagInfo{f.Name, f.DefValue, f.Usage})
			})
			return result
		},
	}).ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), e.of)
	if err != nil {
		logrus.WithError(err).Error("rendering help template")
		return "", err
	}
	return buf.String(), nil
}

func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprint(os.Stderr, (&UsageError{of: h}).Error())
	}
}

func (r *root) Template() string {
	return "root.txt"
}

func (d *drawCmd) Template() string {
	return "draw.txt"
}

func (s *showCmd) Template() string {
	return "show.txt"
}

func (e *exportCmd) Template() string {
	return "export.txt"
}

func (i *interactiveCmd) Template() string {
	return "interactive.txt"
}

func (s *serveCmd) Template() string {
	return "serve.txt"
}

func (e *editCmd) Template() string {
	return "edit.txt"
}

func (c *colorsCmd) Template() string {
	return "colors.txt"
}

func (p *palettesCmd) Template() string {
	return "palettes.txt"
}

func (c *configCmd) Template() string {
	return "config.txt"
}
