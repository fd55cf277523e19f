package ui

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

type keymap struct {
	actions  map[string]func()
	bindings map[KeyShortcut]string
}

func newKeymap() *keymap {
	return &keymap{actions: map[string]func(){}, bindings: map[KeyShortcut]string{}}
}

func (k *keymap) register(name string, keys KeyboardShortcuts, fn func()) {
	k.actions[name] = fn
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			k.bindings[sc] = name
		}
	}
}

// lookup resolves a key press. Rune shortcuts ignore the key code, and
// shift is dropped when no binding needs it.
func (k *keymap) lookup(e key.Event) (string, bool) {
	var candidates []KeyShortcut
	if e.Rune > 0 {
		r := unicode.ToLower(e.Rune)
		candidates = append(candidates,
			KeyShortcut{Rune: r, Modifiers: e.Modifiers},
			KeyShortcut{Rune: r, Modifiers: e.Modifiers &^ key.ModShift})
	}
	candidates = append(candidates, KeyShortcut{Code: e.Code, Modifiers: e.Modifiers})
	for _, ks := range candidates {
		if name, ok := k.bindings[ks]; ok {
			return name, true
		}
	}
	return "", false
}

func (k *keymap) run(name string) bool {
	fn, ok := k.actions[name]
	if ok && fn != nil {
		fn()
	}
	return ok
}
