package keymap

import (
	"fmt"
	"strings"

	"github.com/dshills/keymode/internal/input/key"
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/vim"
)

// PatternKind selects how a binding's keys are matched.
type PatternKind uint8

const (
	// PatternExact matches the key sequence exactly.
	PatternExact PatternKind = iota

	// PatternChar matches the key sequence followed by one printable character.
	PatternChar

	// PatternOperator matches the operator key followed by a motion.
	PatternOperator
)

// String returns the pattern kind name used in keymap files.
func (k PatternKind) String() string {
	switch k {
	case PatternChar:
		return "char"
	case PatternOperator:
		return "operator"
	}
	return "exact"
}

// ParsePatternKind parses a pattern kind name. Empty means exact.
func ParsePatternKind(s string) (PatternKind, error) {
	switch strings.ToLower(s) {
	case "", "exact":
		return PatternExact, nil
	case "char":
		return PatternChar, nil
	case "operator":
		return PatternOperator, nil
	}
	return PatternExact, fmt.Errorf("unknown pattern kind: %s", s)
}

// Binding represents a single key-to-action mapping.
type Binding struct {
	// Keys is the fixed key sequence in Vim notation.
	// For PatternChar the captured character follows it; for
	// PatternOperator it is the operator key.
	Keys string

	// Kind selects how Keys is matched.
	Kind PatternKind

	// Modes are the modes in which the binding is eligible.
	Modes mode.Set

	// Action is the registered action to dispatch.
	// Empty for operator bindings, which compile their action.
	Action string

	// Description provides documentation for the binding.
	Description string

	// Category groups bindings for display purposes.
	Category string

	// Source indicates where this binding was defined.
	// Examples: "default", "user", "lua"
	Source string
}

// Operator returns the operator of a PatternOperator binding, or nil.
func (b *Binding) Operator() *vim.Operator {
	if b.Kind != PatternOperator {
		return nil
	}
	seq, err := key.ParseSequence(b.Keys)
	if err != nil || seq.Len() != 1 {
		return nil
	}
	return vim.GetOperator(seq.Events[0].Rune)
}

// String returns a compact description such as "dd [normal] -> editor.deleteLine".
func (b *Binding) String() string {
	keys := b.Keys
	switch b.Kind {
	case PatternChar:
		keys += "<char>"
	case PatternOperator:
		keys += "<motion>"
	}
	action := b.Action
	if action == "" {
		action = "operator"
	}
	return fmt.Sprintf("%s [%s] -> %s", keys, b.Modes, action)
}

// Validate reports whether the binding can be added to a table.
func (b Binding) Validate() error {
	_, err := parseBinding(b)
	return err
}

// parsedBinding is a binding with its pre-parsed key sequence.
type parsedBinding struct {
	*Binding
	seq *key.Sequence
	op  *vim.Operator
}

func parseBinding(b Binding) (parsedBinding, error) {
	seq, err := key.ParseSequence(b.Keys)
	if err != nil {
		return parsedBinding{}, err
	}
	if seq.IsEmpty() {
		return parsedBinding{}, fmt.Errorf("binding %q: empty key sequence", b.Action)
	}
	if b.Modes == 0 {
		return parsedBinding{}, fmt.Errorf("binding %q: no modes", b.Keys)
	}

	pb := parsedBinding{Binding: &b, seq: seq}
	switch b.Kind {
	case PatternExact, PatternChar:
		if b.Action == "" {
			return parsedBinding{}, fmt.Errorf("binding %q: missing action", b.Keys)
		}
	case PatternOperator:
		pb.op = b.Operator()
		if pb.op == nil {
			return parsedBinding{}, fmt.Errorf("binding %q: not an operator", b.Keys)
		}
	default:
		return parsedBinding{}, fmt.Errorf("binding %q: unknown pattern kind %d", b.Keys, b.Kind)
	}
	return pb, nil
}
