// Package notify raises desktop notifications after exports, saves and
// clipboard copies.
package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/numbit/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventExport fires when artwork is written to an image or PDF file.
	EventExport Event = "export"
	// EventSave fires when the editor state is persisted.
	EventSave Event = "save"
	// EventCopy fires when artwork or a colour is copied to the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.AppName,
		Events: map[Event]EventPreference{
			EventExport: {Template: "Exported %s"},
			EventSave:   {Template: "Saved %s"},
			EventCopy:   {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences reads overrides from NUMBIT_NOTIFY_* variables.
func LoadPreferences(lookup func(string) (string, bool)) Preferences {
	prefs := DefaultPreferences()
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	if v := get("NUMBIT_NOTIFY_TITLE"); v != "" {
		prefs.Title = v
	}
	for _, ev := range []Event{EventExport, EventSave, EventCopy} {
		key := "NUMBIT_NOTIFY_" + strings.ToUpper(string(ev)) + "_TEXT"
		if v := get(key); v != "" {
			prefs.Events[ev] = EventPreference{Template: v}
		}
	}
	return prefs
}

// Notifier sends OS-level notifications for enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    func(title, body string, opts platform.Options) error
	log     logrus.FieldLogger
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{
		prefs:   cloned,
		enabled: make(map[Event]bool),
		send:    platform.Notify,
		log:     logrus.StandardLogger(),
	}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Export announces a written file, using it as the icon when it is an image.
func (n *Notifier) Export(path string) {
	if !n.enabledFor(EventExport) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		switch strings.ToLower(filepath.Ext(abs)) {
		case ".png", ".jpg", ".jpeg", ".bmp":
			if _, statErr := os.Stat(abs); statErr == nil {
				opts.IconPath = abs
			}
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Save announces that state was persisted under key.
func (n *Notifier) Save(key string) {
	n.dispatch(EventSave, key, platform.Options{})
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := template
	if strings.Contains(template, "%") {
		body = fmt.Sprintf(template, strings.TrimSpace(detail))
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.log.WithField("event", event).WithError(err).Warn("notification failed")
	}
}
