package keymap

import (
	"fmt"
	"sync"

	"github.com/dshills/keymode/internal/input/mode"
)

// Table is the ordered command table.
type Table struct {
	mu       sync.RWMutex
	bindings []parsedBinding
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add appends bindings to the end of the table.
func (t *Table) Add(bindings ...Binding) error {
	parsed, err := parseAll(bindings)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.bindings = append(t.bindings, parsed...)
	return nil
}

// Override inserts bindings at the front of the table so they win over
// existing bindings with the same keys.
func (t *Table) Override(bindings ...Binding) error {
	parsed, err := parseAll(bindings)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.bindings = append(parsed, t.bindings...)
	return nil
}

// RemoveSource drops every binding added from the given source.
func (t *Table) RemoveSource(source string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.bindings[:0]
	removed := 0
	for _, pb := range t.bindings {
		if pb.Source == source {
			removed++
			continue
		}
		kept = append(kept, pb)
	}
	t.bindings = kept
	return removed
}

// Replace drops every binding whose source matches and puts bindings at
// the front, in one step. The table is untouched if a binding fails to
// parse.
func (t *Table) Replace(match func(source string) bool, bindings ...Binding) (int, error) {
	parsed, err := parseAll(bindings)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	kept := make([]parsedBinding, 0, len(parsed)+len(t.bindings))
	kept = append(kept, parsed...)
	removed := 0
	for _, pb := range t.bindings {
		if match(pb.Source) {
			removed++
			continue
		}
		kept = append(kept, pb)
	}
	t.bindings = kept
	return removed, nil
}

// Bindings returns a copy of all bindings in table order.
func (t *Table) Bindings() []Binding {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Binding, len(t.bindings))
	for i, pb := range t.bindings {
		out[i] = *pb.Binding
	}
	return out
}

// ForMode returns the bindings eligible in m, in table order.
func (t *Table) ForMode(m mode.Mode) []Binding {
	var out []Binding
	for _, b := range t.Bindings() {
		if b.Modes.Has(m) {
			out = append(out, b)
		}
	}
	return out
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.bindings)
}

// snapshot returns the parsed bindings eligible in m.
func (t *Table) snapshot(m mode.Mode) []parsedBinding {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]parsedBinding, 0, len(t.bindings))
	for _, pb := range t.bindings {
		if pb.Modes.Has(m) {
			out = append(out, pb)
		}
	}
	return out
}

func parseAll(bindings []Binding) ([]parsedBinding, error) {
	parsed := make([]parsedBinding, 0, len(bindings))
	for _, b := range bindings {
		pb, err := parseBinding(b)
		if err != nil {
			return nil, fmt.Errorf("parsing binding: %w", err)
		}
		parsed = append(parsed, pb)
	}
	return parsed, nil
}
