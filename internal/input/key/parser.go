package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a single key specification into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Vim-style: "<Esc>", "<CR>", "<C-r>", "<A-x>", "<S-Tab>", "<lt>"
//   - Bare key names: "Escape", "Enter", "Tab"
func Parse(spec string) (Event, error) {
	if strings.TrimSpace(spec) == "" {
		if spec == " " {
			return Rune(' ', ModNone), nil
		}
		return Event{}, ErrEmptySpec
	}

	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		return Rune(r, ModNone), nil
	}

	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	if k := KeyFromName(spec); k != KeyNone {
		return Special(k, ModNone), nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
}

// parseVimStyle parses the inside of <...> notation like "C-s" or "Esc".
func parseVimStyle(inner string) (Event, error) {
	if inner == "" {
		return Event{}, ErrInvalidSpec
	}

	// "<C-->" binds Ctrl+minus; keep a trailing hyphen as the key.
	parts := strings.Split(inner, "-")
	keyPart := parts[len(parts)-1]
	modParts := parts[:len(parts)-1]
	if keyPart == "" && len(parts) > 1 {
		keyPart = "-"
		modParts = parts[:len(parts)-2]
	}

	var mods Modifier
	for _, p := range modParts {
		mod := modifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	lower := strings.ToLower(keyPart)
	if k, ok := keyNameMap[lower]; ok {
		return Special(k, mods), nil
	}
	if r, ok := runeAliases[lower]; ok {
		return Rune(r, mods), nil
	}

	if utf8.RuneCountInString(keyPart) == 1 {
		r, _ := utf8.DecodeRuneInString(keyPart)
		switch {
		case mods.Has(ModCtrl):
			r = unicode.ToLower(r)
		case mods.Has(ModShift):
			r = unicode.ToUpper(r)
		}
		return Rune(r, mods), nil
	}
	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Event {
	ev, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return ev
}

func decodeRune(s string) (rune, int) {
	return utf8.DecodeRuneInString(s)
}
