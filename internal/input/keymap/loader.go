package keymap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/keymode/internal/input/mode"
)

// BindingSpec is the file representation of a binding.
type BindingSpec struct {
	Keys        string   `json:"keys" toml:"keys" yaml:"keys"`
	Kind        string   `json:"kind,omitempty" toml:"kind,omitempty" yaml:"kind,omitempty"`
	Modes       []string `json:"modes,omitempty" toml:"modes,omitempty" yaml:"modes,omitempty"`
	Action      string   `json:"action,omitempty" toml:"action,omitempty" yaml:"action,omitempty"`
	Description string   `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
	Category    string   `json:"category,omitempty" toml:"category,omitempty" yaml:"category,omitempty"`
}

// ToBinding converts the spec into a Binding. No modes means Normal.
func (s BindingSpec) ToBinding(source string) (Binding, error) {
	kind, err := ParsePatternKind(s.Kind)
	if err != nil {
		return Binding{}, err
	}

	modes := mode.SetOf(mode.Normal)
	if len(s.Modes) > 0 {
		modes = 0
		for _, name := range s.Modes {
			m, err := mode.Parse(name)
			if err != nil {
				return Binding{}, fmt.Errorf("binding %q: %w", s.Keys, err)
			}
			modes |= mode.SetOf(m)
		}
	}

	return Binding{
		Keys:        s.Keys,
		Kind:        kind,
		Modes:       modes,
		Action:      s.Action,
		Description: s.Description,
		Category:    s.Category,
		Source:      source,
	}, nil
}

// SourcePrefix tags bindings loaded from keymap files. The file's base
// name follows it.
const SourcePrefix = "keymap:"

// IsFileSource reports whether source names a keymap file.
func IsFileSource(source string) bool {
	return strings.HasPrefix(source, SourcePrefix)
}

// keymapFile is the JSON structure for keymap files.
type keymapFile struct {
	Name     string        `json:"name"`
	Bindings []BindingSpec `json:"bindings"`
}

// Loader loads bindings from the JSON keymap files in a set of
// directories.
type Loader struct {
	searchPaths []string
}

// NewLoader creates a loader over the given directories.
func NewLoader(paths ...string) *Loader {
	return &Loader{searchPaths: paths}
}

// LoadFile loads the bindings of one JSON keymap file.
func (l *Loader) LoadFile(path string) ([]Binding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	return l.LoadReader(f, SourcePrefix+filepath.Base(path))
}

// LoadReader loads bindings from a reader, tagging them with source.
func (l *Loader) LoadReader(r io.Reader, source string) ([]Binding, error) {
	var file keymapFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}

	bindings := make([]Binding, 0, len(file.Bindings))
	for _, spec := range file.Bindings {
		b, err := spec.ToBinding(source)
		if err != nil {
			return nil, fmt.Errorf("keymap %q: %w", file.Name, err)
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("keymap %q: %w", file.Name, err)
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

// LoadAll loads every *.json file in the search paths, directories in
// order and files by name. A missing directory is skipped. Every file that
// fails is reported in the joined error.
func (l *Loader) LoadAll() ([]Binding, error) {
	var bindings []Binding
	var errs []error

	for _, dir := range l.searchPaths {
		matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sort.Strings(matches)

		for _, path := range matches {
			bs, err := l.LoadFile(path)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				continue
			}
			bindings = append(bindings, bs...)
		}
	}
	return bindings, errors.Join(errs...)
}

// LoadInto replaces the table's file bindings with the ones now on disk,
// ahead of every other binding. On error the table is left as it was.
func (l *Loader) LoadInto(t *Table) (int, error) {
	bindings, err := l.LoadAll()
	if err != nil {
		return 0, err
	}
	if _, err := t.Replace(IsFileSource, bindings...); err != nil {
		return 0, err
	}
	return len(bindings), nil
}
