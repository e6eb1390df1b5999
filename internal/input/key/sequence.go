package key

import (
	"strings"
)

// Sequence is an ordered run of key events, such as the pending keys of a
// command that has not resolved yet.
type Sequence struct {
	Events []Event
}

// NewSequence creates a sequence holding the given events.
func NewSequence(events ...Event) *Sequence {
	s := &Sequence{Events: make([]Event, 0, max(4, len(events)))}
	s.Events = append(s.Events, events...)
	return s
}

// Len returns the number of events in the sequence.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Events)
}

// IsEmpty returns true if the sequence has no events.
func (s *Sequence) IsEmpty() bool {
	return s.Len() == 0
}

// Add appends an event to the sequence.
func (s *Sequence) Add(ev Event) {
	s.Events = append(s.Events, ev)
}

// Clear removes all events, keeping the backing array.
func (s *Sequence) Clear() {
	s.Events = s.Events[:0]
}

// Last returns the last event, or false if the sequence is empty.
func (s *Sequence) Last() (Event, bool) {
	if s.IsEmpty() {
		return Event{}, false
	}
	return s.Events[len(s.Events)-1], true
}

// Clone returns an independent copy of the sequence.
func (s *Sequence) Clone() *Sequence {
	if s == nil {
		return NewSequence()
	}
	return NewSequence(s.Events...)
}

// Equals returns true if both sequences hold the same events.
func (s *Sequence) Equals(other *Sequence) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := range s.Len() {
		if s.Events[i] != other.Events[i] {
			return false
		}
	}
	return true
}

// HasPrefix returns true if s starts with prefix. An empty prefix matches.
func (s *Sequence) HasPrefix(prefix *Sequence) bool {
	if prefix.Len() > s.Len() {
		return false
	}
	for i := range prefix.Len() {
		if s.Events[i] != prefix.Events[i] {
			return false
		}
	}
	return true
}

// String returns the Vim notation of the sequence, e.g. "gg" or "<C-w>j".
func (s *Sequence) String() string {
	if s.IsEmpty() {
		return ""
	}
	var sb strings.Builder
	for _, e := range s.Events {
		sb.WriteString(e.String())
	}
	return sb.String()
}

// ParseSequence parses a continuous Vim-style key string such as "ydd",
// "<Esc>" or "ci<lt>" into a Sequence.
func ParseSequence(s string) (*Sequence, error) {
	seq := NewSequence()
	for i := 0; i < len(s); {
		if s[i] == '<' {
			if end := strings.IndexByte(s[i:], '>'); end > 1 {
				ev, err := Parse(s[i : i+end+1])
				if err == nil {
					seq.Add(ev)
					i += end + 1
					continue
				}
			}
		}
		r, size := decodeRune(s[i:])
		seq.Add(Rune(r, ModNone))
		i += size
	}
	return seq, nil
}

// MustParseSequence parses a sequence string and panics on error.
// Use only for known-valid sequences in initialization code.
func MustParseSequence(s string) *Sequence {
	seq, err := ParseSequence(s)
	if err != nil {
		panic("invalid key sequence: " + s + ": " + err.Error())
	}
	return seq
}
