package notify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/example/numbit/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func recorder(n *Notifier) *[]sent {
	var out []sent
	n.send = func(title, body string, opts platform.Options) error {
		out = append(out, sent{title, body, opts})
		return nil
	}
	return &out
}

func TestDisabledEventsAreSilent(t *testing.T) {
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Copy("image")
	n.Save("8bit-art-state")
	if len(*got) != 0 {
		t.Fatalf("unexpected notifications %+v", *got)
	}
	var nilNotifier *Notifier
	nilNotifier.Copy("x")
	nilNotifier.Enable(EventCopy, true)
}

func TestExportUsesImageIcon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "art.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	n := New(DefaultPreferences())
	n.Enable(EventExport, true)
	got := recorder(n)

	n.Export(path)
	n.Export(filepath.Join(dir, "art.pdf"))
	if len(*got) != 2 {
		t.Fatalf("notifications = %d", len(*got))
	}
	first := (*got)[0]
	if first.title != platform.AppName || first.body != "Exported "+path || first.opts.IconPath != path {
		t.Fatalf("unexpected notification %+v", first)
	}
	if (*got)[1].opts.IconPath != "" {
		t.Fatalf("pdf used as icon")
	}
}

func TestLoadPreferences(t *testing.T) {
	env := map[string]string{
		"NUMBIT_NOTIFY_TITLE":     "Pixels",
		"NUMBIT_NOTIFY_COPY_TEXT": "Clipboard: %s",
	}
	prefs := LoadPreferences(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	n := New(prefs)
	n.Enable(EventCopy, true)
	got := recorder(n)
	n.Copy("")
	if len(*got) != 1 || (*got)[0].title != "Pixels" || (*got)[0].body != "Clipboard: image" {
		t.Fatalf("unexpected notification %+v", *got)
	}
	if prefs.Events[EventSave].Template != "Saved %s" {
		t.Fatalf("unrelated template overridden")
	}
}

func TestSendFailureIsLogged(t *testing.T) {
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	logger, hook := test.NewNullLogger()
	n.log = logger
	n.send = func(string, string, platform.Options) error { return errors.New("no bus") }

	n.Save("k")
	if len(hook.Entries) != 1 || hook.LastEntry().Level != logrus.WarnLevel {
		t.Fatalf("expected one warning, got %d entries", len(hook.Entries))
	}
}
