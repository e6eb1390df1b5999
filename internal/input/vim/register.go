package vim

import (
	"strings"
	"sync"
	"unicode"
)

// DefaultRegister is the unnamed register used when none is given.
const DefaultRegister = '"'

// RegisterEntry is the text captured for one cursor.
type RegisterEntry struct {
	// Contents is the captured text, without a trailing newline for linewise entries.
	Contents string

	// Linewise indicates the entry is whole lines rather than a character span.
	Linewise bool
}

// ClipboardProvider abstracts system clipboard access.
type ClipboardProvider interface {
	// Get returns the current clipboard content.
	Get() (string, error)

	// Set sets the clipboard content.
	Set(content string) error
}

// RegisterStore maps register names to per-cursor entry lists.
type RegisterStore struct {
	mu        sync.RWMutex
	registers map[rune][]RegisterEntry

	// clipboard provides system clipboard access for + and *.
	clipboard ClipboardProvider
}

// NewRegisterStore creates an empty register store.
func NewRegisterStore() *RegisterStore {
	return &RegisterStore{
		registers: make(map[rune][]RegisterEntry),
	}
}

// SetClipboard sets the clipboard provider for system clipboard integration.
func (rs *RegisterStore) SetClipboard(clipboard ClipboardProvider) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.clipboard = clipboard
}

func (rs *RegisterStore) clipboardProvider() ClipboardProvider {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.clipboard
}

// Get returns a copy of the entries held by a register.
// Unknown or empty registers return nil.
func (rs *RegisterStore) Get(name rune) []RegisterEntry {
	name = unicode.ToLower(name)

	if isClipboard(name) {
		if cb := rs.clipboardProvider(); cb != nil {
			content, err := cb.Get()
			if err != nil || content == "" {
				return nil
			}
			return []RegisterEntry{fromClipboard(content)}
		}
	}

	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return cloneEntries(rs.registers[name])
}

// Entry returns the entry for cursor index i, or false when the register
// has no entry for that cursor.
func (rs *RegisterStore) Entry(name rune, i int) (RegisterEntry, bool) {
	entries := rs.Get(name)
	if i < 0 || i >= len(entries) {
		return RegisterEntry{}, false
	}
	return entries[i], true
}

// Set replaces the entries of a register.
// Uppercase names append to the matching lowercase register, entry by entry.
func (rs *RegisterStore) Set(name rune, entries []RegisterEntry) {
	if name == '_' || !IsValidRegister(name) {
		return
	}

	if isClipboard(name) {
		if cb := rs.clipboardProvider(); cb != nil {
			_ = cb.Set(toClipboard(entries))
			return
		}
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	if unicode.IsUpper(name) {
		name = unicode.ToLower(name)
		rs.registers[name] = appendEntries(rs.registers[name], entries)
		return
	}
	rs.registers[name] = cloneEntries(entries)
}

// SetYank stores a yank in the target register, the unnamed register and register 0.
func (rs *RegisterStore) SetYank(name rune, entries []RegisterEntry) {
	if name == '_' {
		return
	}
	rs.Set(name, entries)
	if name != DefaultRegister {
		rs.Set(DefaultRegister, entries)
	}
	rs.Set('0', entries)
}

// SetDelete stores deleted text in the target register and the unnamed
// register. Deletes within a single line go to the small delete register;
// everything else rotates the numbered registers 1-9.
func (rs *RegisterStore) SetDelete(name rune, entries []RegisterEntry) {
	if name == '_' {
		return
	}
	rs.Set(name, entries)
	if name != DefaultRegister {
		rs.Set(DefaultRegister, entries)
	}

	if isSmallDelete(entries) {
		rs.Set('-', entries)
		return
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	for i := '9'; i > '1'; i-- {
		rs.registers[i] = rs.registers[i-1]
	}
	rs.registers['1'] = cloneEntries(entries)
}

// Clear empties every register. The clipboard is left untouched.
func (rs *RegisterStore) Clear() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.registers = make(map[rune][]RegisterEntry)
}

// IsValidRegister returns true if the register name is valid.
func IsValidRegister(name rune) bool {
	switch {
	case name == DefaultRegister:
		return true
	case name >= 'a' && name <= 'z', name >= 'A' && name <= 'Z':
		return true
	case name >= '0' && name <= '9':
		return true
	case name == '-', name == '_', name == '+', name == '*':
		return true
	}
	return false
}

func isClipboard(name rune) bool {
	return name == '+' || name == '*'
}

func isSmallDelete(entries []RegisterEntry) bool {
	for _, e := range entries {
		if e.Linewise || strings.Contains(e.Contents, "\n") {
			return false
		}
	}
	return true
}

func cloneEntries(entries []RegisterEntry) []RegisterEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]RegisterEntry, len(entries))
	copy(out, entries)
	return out
}

func appendEntries(dst, src []RegisterEntry) []RegisterEntry {
	out := cloneEntries(dst)
	for i, e := range src {
		if i >= len(out) {
			out = append(out, e)
			continue
		}
		if out[i].Linewise || e.Linewise {
			out[i] = RegisterEntry{Contents: out[i].Contents + "\n" + e.Contents, Linewise: true}
		} else {
			out[i].Contents += e.Contents
		}
	}
	return out
}

// toClipboard joins per-cursor entries into one clipboard string.
// Linewise text ends with a newline so it round-trips as linewise.
func toClipboard(entries []RegisterEntry) string {
	parts := make([]string, len(entries))
	linewise := false
	for i, e := range entries {
		parts[i] = e.Contents
		linewise = linewise || e.Linewise
	}
	s := strings.Join(parts, "\n")
	if linewise {
		s += "\n"
	}
	return s
}

func fromClipboard(content string) RegisterEntry {
	if strings.HasSuffix(content, "\n") {
		return RegisterEntry{Contents: strings.TrimSuffix(content, "\n"), Linewise: true}
	}
	return RegisterEntry{Contents: content}
}
