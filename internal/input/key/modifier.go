package key

import "strings"

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift is only kept for special keys; character keys fold it into the rune.
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns m with mod removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// prefix renders the modifiers in Vim notation, e.g. "C-A-".
func (m Modifier) prefix() string {
	var sb strings.Builder
	if m.Has(ModCtrl) {
		sb.WriteString("C-")
	}
	if m.Has(ModAlt) {
		sb.WriteString("A-")
	}
	if m.Has(ModMeta) {
		sb.WriteString("D-")
	}
	if m.Has(ModShift) {
		sb.WriteString("S-")
	}
	return sb.String()
}

func modifierFromName(name string) Modifier {
	switch strings.ToLower(name) {
	case "c", "ctrl":
		return ModCtrl
	case "a", "alt", "m":
		return ModAlt
	case "d", "cmd", "meta":
		return ModMeta
	case "s", "shift":
		return ModShift
	}
	return ModNone
}
