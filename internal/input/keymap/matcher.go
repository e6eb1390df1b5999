package keymap

import (
	"github.com/dshills/keymode/internal/input/key"
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/vim"
)

// Status classifies the pending sequence.
type Status uint8

const (
	// NoMatch means no eligible pattern starts with the pending sequence.
	NoMatch Status = iota

	// Partial means the pending sequence is a strict prefix of a pattern.
	Partial

	// Exact means the pending sequence completes a pattern.
	Exact
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case Partial:
		return "partial"
	case Exact:
		return "exact"
	}
	return "no-match"
}

// Result is the outcome of feeding one key.
type Result struct {
	Status Status

	// Binding is the completed binding for Exact results.
	Binding *Binding

	// Arg is the captured character of PatternChar bindings and
	// character-taking motions.
	Arg rune

	// Operator and Motion are set when an operator binding completed.
	Operator *vim.Operator
	Motion   *vim.Motion

	// Consumed is the number of keys the classified sequence held.
	Consumed int
}

// Matcher classifies pending key sequences against a Table.
type Matcher struct {
	table   *Table
	motions []motionPattern
}

type motionPattern struct {
	motion *vim.Motion
	seq    *key.Sequence
}

// NewMatcher creates a matcher over the given table.
func NewMatcher(table *Table) *Matcher {
	m := &Matcher{table: table}
	for _, mo := range vim.Motions() {
		m.motions = append(m.motions, motionPattern{
			motion: mo,
			seq:    key.MustParseSequence(mo.Keys),
		})
	}
	return m
}

// Table returns the table the matcher scans.
func (m *Matcher) Table() *Table {
	return m.table
}

// Feed appends ev to pending and classifies the result for mode md.
// pending is cleared on Exact and NoMatch and kept on Partial.
func (m *Matcher) Feed(pending *key.Sequence, ev key.Event, md mode.Mode) Result {
	pending.Add(ev)
	res := m.Classify(pending, md)
	if res.Status != Partial {
		pending.Clear()
	}
	return res
}

// Classify reports how seq matches the bindings eligible in md without
// modifying it.
func (m *Matcher) Classify(seq *key.Sequence, md mode.Mode) Result {
	res := Result{Status: NoMatch, Consumed: seq.Len()}
	if seq.IsEmpty() {
		return res
	}

	for _, pb := range m.table.snapshot(md) {
		var st Status
		var arg rune
		var motion *vim.Motion

		switch pb.Kind {
		case PatternExact:
			st = matchExact(pb.seq, seq)
		case PatternChar:
			st, arg = matchChar(pb.seq, seq)
		case PatternOperator:
			st, arg, motion = m.matchOperator(pb.seq, seq)
		}

		switch st {
		case Exact:
			res.Status = Exact
			res.Binding = pb.Binding
			res.Arg = arg
			if pb.Kind == PatternOperator {
				res.Operator = pb.op
				res.Motion = motion
			}
			return res
		case Partial:
			res.Status = Partial
		}
	}
	return res
}

// matchExact compares seq with a fixed pattern.
func matchExact(pattern, seq *key.Sequence) Status {
	switch {
	case pattern.Equals(seq):
		return Exact
	case pattern.HasPrefix(seq):
		return Partial
	}
	return NoMatch
}

// matchChar matches pattern followed by one printable character.
func matchChar(pattern, seq *key.Sequence) (Status, rune) {
	if pattern.HasPrefix(seq) {
		return Partial, 0
	}
	if seq.Len() != pattern.Len()+1 || !seq.HasPrefix(pattern) {
		return NoMatch, 0
	}
	last, _ := seq.Last()
	if !last.IsChar() {
		return NoMatch, 0
	}
	return Exact, last.Rune
}

// matchOperator matches the operator keys and then the remaining keys
// against the motion sub-table.
func (m *Matcher) matchOperator(pattern, seq *key.Sequence) (Status, rune, *vim.Motion) {
	if pattern.HasPrefix(seq) {
		return Partial, 0, nil
	}
	if !seq.HasPrefix(pattern) {
		return NoMatch, 0, nil
	}

	rest := key.NewSequence(seq.Events[pattern.Len():]...)
	st := NoMatch
	for _, mp := range m.motions {
		if mp.motion.TakesChar {
			cst, arg := matchChar(mp.seq, rest)
			if cst == Exact {
				return Exact, arg, mp.motion
			}
			if cst == Partial {
				st = Partial
			}
			continue
		}
		switch matchExact(mp.seq, rest) {
		case Exact:
			return Exact, 0, mp.motion
		case Partial:
			st = Partial
		}
	}
	return st, 0, nil
}
