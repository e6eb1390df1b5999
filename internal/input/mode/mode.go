package mode

import (
	"fmt"
	"strings"
)

// Mode is an editing mode.
type Mode uint8

const (
	Normal Mode = iota
	Insert
	Visual
	VisualLine
)

// All lists every mode.
var All = []Mode{Normal, Insert, Visual, VisualLine}

// String returns the mode identifier used in configuration files.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Insert:
		return "insert"
	case Visual:
		return "visual"
	case VisualLine:
		return "visual-line"
	}
	return fmt.Sprintf("mode(%d)", m)
}

// DisplayName returns a human-readable name for the status line.
func (m Mode) DisplayName() string {
	switch m {
	case Insert:
		return "-- INSERT --"
	case Visual:
		return "-- VISUAL --"
	case VisualLine:
		return "-- VISUAL LINE --"
	}
	return ""
}

// IsVisual returns true for Visual and VisualLine.
func (m Mode) IsVisual() bool {
	return m == Visual || m == VisualLine
}

// CursorStyle returns the cursor style for this mode.
func (m Mode) CursorStyle() CursorStyle {
	if m == Insert {
		return CursorBar
	}
	return CursorBlock
}

// Parse returns the mode with the given identifier.
func Parse(name string) (Mode, error) {
	for _, m := range All {
		if strings.EqualFold(name, m.String()) {
			return m, nil
		}
	}
	switch strings.ToLower(name) {
	case "visualline", "visual_line", "linewise":
		return VisualLine, nil
	}
	return Normal, fmt.Errorf("unknown mode: %s", name)
}

// Set is a set of modes, used to scope bindings.
type Set uint8

// SetOf builds a set from the given modes.
func SetOf(modes ...Mode) Set {
	var s Set
	for _, m := range modes {
		s |= 1 << m
	}
	return s
}

// AnySet contains every mode.
var AnySet = SetOf(All...)

// Has reports whether m is in the set.
func (s Set) Has(m Mode) bool {
	return s&(1<<m) != 0
}

// Modes returns the members of the set in declaration order.
func (s Set) Modes() []Mode {
	var out []Mode
	for _, m := range All {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// String returns the set as a comma-separated list.
func (s Set) String() string {
	modes := s.Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return strings.Join(names, ",")
}

// CursorStyle defines the visual appearance of the cursor.
type CursorStyle uint8

const (
	// CursorBlock is a full-cell block cursor (normal and visual modes).
	CursorBlock CursorStyle = iota

	// CursorBar is a thin vertical bar cursor (insert mode).
	CursorBar
)

// String returns a human-readable cursor style name.
func (c CursorStyle) String() string {
	switch c {
	case CursorBlock:
		return "block"
	case CursorBar:
		return "bar"
	default:
		return "unknown"
	}
}
