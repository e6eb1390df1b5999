package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/keymode/internal/input/keymap"
)

// Log levels accepted in LogLevel.
var logLevels = []string{"debug", "info", "warn", "error"}

// Config holds the engine settings.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// AsyncEdits makes the buffer complete edits on a separate goroutine.
	AsyncEdits bool `toml:"async_edits" yaml:"async_edits"`

	// Clipboard backs the + and * registers with the system clipboard.
	Clipboard bool `toml:"clipboard" yaml:"clipboard"`

	// ViewportHeight is the number of visible lines H, M, L and z use.
	ViewportHeight int `toml:"viewport_height" yaml:"viewport_height"`

	// KeymapDirs are directories of JSON keymap files. Their bindings sit
	// between the defaults and Keymap. Relative paths are resolved against
	// the config file's directory.
	KeymapDirs []string `toml:"keymap_dirs" yaml:"keymap_dirs"`

	// Keymap holds user bindings. They take precedence over the defaults.
	Keymap []KeymapEntry `toml:"keymap" yaml:"keymap"`
}

// KeymapEntry is a user binding. It names a registered action or carries
// a Lua snippet that becomes a new action.
type KeymapEntry struct {
	Keys        string   `toml:"keys" yaml:"keys"`
	Kind        string   `toml:"kind,omitempty" yaml:"kind,omitempty"`
	Modes       []string `toml:"modes,omitempty" yaml:"modes,omitempty"`
	Action      string   `toml:"action,omitempty" yaml:"action,omitempty"`
	Lua         string   `toml:"lua,omitempty" yaml:"lua,omitempty"`
	Description string   `toml:"description,omitempty" yaml:"description,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		ViewportHeight: 20,
	}
}

// Validate checks every setting and binding.
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("%w: log_level %q", ErrInvalidValue, c.LogLevel)
	}
	if c.ViewportHeight < 1 {
		return fmt.Errorf("%w: viewport_height %d", ErrInvalidValue, c.ViewportHeight)
	}
	for i, e := range c.Keymap {
		if err := e.validate(); err != nil {
			return fmt.Errorf("keymap entry %d: %w", i, err)
		}
	}
	return nil
}

func (e KeymapEntry) validate() error {
	switch {
	case e.Keys == "":
		return fmt.Errorf("%w: empty keys", ErrInvalidValue)
	case e.Action == "" && e.Lua == "":
		return fmt.Errorf("%w: %q needs an action or lua", ErrInvalidValue, e.Keys)
	case e.Action != "" && e.Lua != "":
		return fmt.Errorf("%w: %q has both action and lua", ErrInvalidValue, e.Keys)
	}
	_, err := e.Binding("")
	return err
}

// ActionName returns the action the entry dispatches. Lua entries get a
// name derived from their keys unless Action is set.
func (e KeymapEntry) ActionName() string {
	if e.Action != "" {
		return e.Action
	}
	return "lua." + e.Keys
}

// Binding converts the entry into a keymap binding tagged with source.
func (e KeymapEntry) Binding(source string) (keymap.Binding, error) {
	spec := keymap.BindingSpec{
		Keys:        e.Keys,
		Kind:        e.Kind,
		Modes:       e.Modes,
		Action:      e.ActionName(),
		Description: e.Description,
		Category:    "User",
	}
	b, err := spec.ToBinding(source)
	if err != nil {
		return keymap.Binding{}, err
	}
	if err := b.Validate(); err != nil {
		return keymap.Binding{}, err
	}
	return b, nil
}

// Bindings converts every keymap entry, in order.
func (c *Config) Bindings(source string) ([]keymap.Binding, error) {
	out := make([]keymap.Binding, 0, len(c.Keymap))
	for _, e := range c.Keymap {
		b, err := e.Binding(source)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// LuaEntries returns the entries backed by a Lua snippet.
func (c *Config) LuaEntries() []KeymapEntry {
	var out []KeymapEntry
	for _, e := range c.Keymap {
		if e.Lua != "" {
			out = append(out, e)
		}
	}
	return out
}
