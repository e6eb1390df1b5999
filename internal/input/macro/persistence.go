package macro

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/keymode/internal/input/key"
)

// file is the on-disk form of a recorder:
//
//	[macros]
//	q = "dwjA;<Esc>"
type file struct {
	Macros map[string]string `toml:"macros"`
}

// Save writes every non-empty register to path in Vim notation. The file
// is replaced atomically.
func (r *Recorder) Save(path string) error {
	f := file{Macros: make(map[string]string)}
	for _, reg := range r.Registers() {
		f.Macros[string(reg)] = r.Notation(reg)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Errorf("encoding macros: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating macro directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".macros-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing macros: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing macros: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("saving macros: %w", err)
	}
	return nil
}

// Load reads macros saved by Save into the recorder, replacing registers
// with the same name. A missing file is not an error.
func (r *Recorder) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading macros: %w", err)
	}

	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	parsed := make(map[rune][]key.Event, len(f.Macros))
	for name, notation := range f.Macros {
		reg := []rune(name)
		if len(reg) != 1 || !IsValidRegister(reg[0]) {
			return fmt.Errorf("%s: %w: %q", path, ErrInvalidRegister, name)
		}
		seq, err := key.ParseSequence(notation)
		if err != nil {
			return fmt.Errorf("%s: register %s: %w", path, name, err)
		}
		parsed[reg[0]] = seq.Events
	}

	for reg, events := range parsed {
		if err := r.Set(reg, events); err != nil {
			return err
		}
	}
	return nil
}
