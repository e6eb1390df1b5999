package key

import (
	"unicode"
)

// Event is a single key press. Events are values and compare with ==.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the held modifier keys.
	Modifiers Modifier
}

// Rune creates an event for a character. Shift is dropped because it is
// already reflected in the character.
func Rune(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods.Without(ModShift)}
}

// Special creates an event for a special key.
func Special(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// Escape is the unmodified Escape key.
var Escape = Special(KeyEscape, ModNone)

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is an unmodified printable character.
func (e Event) IsChar() bool {
	return e.IsRune() && e.Modifiers == ModNone && unicode.IsPrint(e.Rune)
}

// IsEscape returns true if this is the Escape key with no modifiers.
func (e Event) IsEscape() bool {
	return e == Escape
}

// String returns the Vim notation of the event: "a", "<Esc>", "<C-r>".
func (e Event) String() string {
	if e.IsRune() && e.Modifiers == ModNone {
		switch e.Rune {
		case ' ':
			return "<Space>"
		case '<':
			return "<lt>"
		}
		return string(e.Rune)
	}

	name := e.Key.String()
	if e.Key == KeyRune {
		name = string(e.Rune)
		if e.Rune == ' ' {
			name = "Space"
		}
	}
	return "<" + e.Modifiers.prefix() + name + ">"
}
