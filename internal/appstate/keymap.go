package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

const (
	actionTool      = "tool-"
	actionUndo      = "undo"
	actionRedo      = "redo"
	actionNew       = "new"
	actionClear     = "clear"
	actionSave      = "save"
	actionCopy      = "copy"
	actionPaste     = "paste"
	actionCancel    = "cancel"
	actionQuit      = "quit"
	modifierMask    = key.ModShift | key.ModControl | key.ModAlt | key.ModMeta
	controlRuneBase = 'a' - 1
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code identifies the key.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// keymap binds shortcuts to named actions.
type keymap struct {
	actions map[string]func()
	keys    map[KeyShortcut]string
}

func newKeymap() *keymap {
	return &keymap{actions: map[string]func(){}, keys: map[KeyShortcut]string{}}
}

func (k *keymap) register(name string, keys KeyboardShortcuts, fn func()) {
	k.actions[name] = fn
	if keys == nil {
		return
	}
	for _, ks := range keys.KeyboardShortcuts() {
		k.keys[ks] = name
	}
}

// normalize folds a key event into the form shortcuts are registered in.
// Control combinations may arrive as ASCII control characters.
func normalize(e key.Event) (byRune, byCode KeyShortcut) {
	mods := e.Modifiers & modifierMask
	r := e.Rune
	if mods&key.ModControl != 0 && r > 0 && r < ' ' {
		r += controlRuneBase
	}
	if r > 0 {
		r = unicode.ToLower(r)
	}
	if r < 0 {
		r = 0
	}
	return KeyShortcut{Rune: r, Modifiers: mods}, KeyShortcut{Code: e.Code, Modifiers: mods}
}

// lookup returns the action bound to e.
func (k *keymap) lookup(e key.Event) (string, bool) {
	byRune, byCode := normalize(e)
	if byRune.Rune != 0 {
		if name, ok := k.keys[byRune]; ok {
			return name, true
		}
	}
	if byCode.Code != key.CodeUnknown {
		if name, ok := k.keys[byCode]; ok {
			return name, true
		}
	}
	return "", false
}

// trigger runs the named action.
func (k *keymap) trigger(name string) bool {
	fn, ok := k.actions[name]
	if !ok || fn == nil {
		return false
	}
	fn()
	return true
}
