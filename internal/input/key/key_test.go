package key

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestParseSingleCharacter(t *testing.T) {
	tests := []struct {
		spec     string
		wantRune rune
	}{
		{"a", 'a'},
		{"A", 'A'},
		{"$", '$'},
		{"{", '{'},
		{" ", ' '},
		{"é", 'é'},
	}

	for _, tt := range tests {
		ev, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if ev.Key != KeyRune || ev.Rune != tt.wantRune || ev.Modifiers != ModNone {
			t.Errorf("Parse(%q) = %#v, want rune %q", tt.spec, ev, tt.wantRune)
		}
	}
}

func TestParseVimStyle(t *testing.T) {
	tests := []struct {
		spec string
		want Event
	}{
		{"<Esc>", Special(KeyEscape, ModNone)},
		{"<esc>", Special(KeyEscape, ModNone)},
		{"<CR>", Special(KeyEnter, ModNone)},
		{"<BS>", Special(KeyBackspace, ModNone)},
		{"<Space>", Rune(' ', ModNone)},
		{"<lt>", Rune('<', ModNone)},
		{"<C-r>", Rune('r', ModCtrl)},
		{"<C-R>", Rune('r', ModCtrl)},
		{"<S-a>", Rune('A', ModNone)},
		{"<C-S-Up>", Special(KeyUp, ModCtrl|ModShift)},
		{"<A-x>", Rune('x', ModAlt)},
		{"<C-->", Rune('-', ModCtrl)},
		{"Escape", Special(KeyEscape, ModNone)},
	}

	for _, tt := range tests {
		got, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %#v, want %#v", tt.spec, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		spec string
		want error
	}{
		{"", ErrEmptySpec},
		{"<>", ErrInvalidSpec},
		{"<X-a>", ErrInvalidSpec},
		{"<Nope>", ErrInvalidSpec},
		{"hello", ErrInvalidSpec},
	}

	for _, tt := range tests {
		if _, err := Parse(tt.spec); !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.spec, err, tt.want)
		}
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Rune('a', ModNone), "a"},
		{Rune('A', ModShift), "A"},
		{Rune(' ', ModNone), "<Space>"},
		{Rune('<', ModNone), "<lt>"},
		{Rune('w', ModCtrl), "<C-w>"},
		{Escape, "<Esc>"},
		{Special(KeyTab, ModShift), "<S-Tab>"},
	}

	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.ev, got, tt.want)
		}
		back, err := Parse(tt.want)
		if err != nil || back != tt.ev {
			t.Errorf("Parse(%q) = %#v, %v; want %#v", tt.want, back, err, tt.ev)
		}
	}
}

func TestEventIsChar(t *testing.T) {
	tests := []struct {
		ev   Event
		want bool
	}{
		{Rune('a', ModNone), true},
		{Rune(' ', ModNone), true},
		{Rune('\n', ModNone), false},
		{Rune('a', ModCtrl), false},
		{Escape, false},
		{Event{Key: KeyRune}, false},
	}

	for _, tt := range tests {
		if got := tt.ev.IsChar(); got != tt.want {
			t.Errorf("%#v.IsChar() = %v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		in   string
		want []Event
	}{
		{"", nil},
		{"ydd", []Event{Rune('y', ModNone), Rune('d', ModNone), Rune('d', ModNone)}},
		{"i<Esc>", []Event{Rune('i', ModNone), Escape}},
		{"f<lt>", []Event{Rune('f', ModNone), Rune('<', ModNone)}},
		{"a<b", []Event{Rune('a', ModNone), Rune('<', ModNone), Rune('b', ModNone)}},
		{"<C-r>x", []Event{Rune('r', ModCtrl), Rune('x', ModNone)}},
	}

	for _, tt := range tests {
		seq := MustParseSequence(tt.in)
		if !seq.Equals(NewSequence(tt.want...)) {
			t.Errorf("ParseSequence(%q) = %v, want %v", tt.in, seq.Events, tt.want)
		}
	}
}

func TestSequencePrefix(t *testing.T) {
	ydd := MustParseSequence("ydd")

	tests := []struct {
		prefix string
		want   bool
	}{
		{"", true},
		{"y", true},
		{"yd", true},
		{"ydd", true},
		{"yddd", false},
		{"d", false},
	}

	for _, tt := range tests {
		if got := ydd.HasPrefix(MustParseSequence(tt.prefix)); got != tt.want {
			t.Errorf("HasPrefix(%q) = %v, want %v", tt.prefix, got, tt.want)
		}
	}
}

func TestSequenceClearAndLast(t *testing.T) {
	seq := NewSequence()
	if _, ok := seq.Last(); ok {
		t.Error("Last on empty sequence should report false")
	}

	seq.Add(Rune('g', ModNone))
	seq.Add(Rune('g', ModNone))
	if seq.String() != "gg" {
		t.Errorf("String() = %q, want %q", seq.String(), "gg")
	}

	clone := seq.Clone()
	seq.Clear()
	if !seq.IsEmpty() {
		t.Error("Sequence should be empty after Clear")
	}
	if clone.Len() != 2 {
		t.Errorf("clone.Len() = %d, want 2", clone.Len())
	}
	if last, _ := clone.Last(); last != Rune('g', ModNone) {
		t.Errorf("Last() = %v, want g", last)
	}
}

func TestFromTcell(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want Event
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), Rune('x', ModNone)},
		{tcell.NewEventKey(tcell.KeyRune, 'X', tcell.ModShift), Rune('X', ModNone)},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), Escape},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), Special(KeyEnter, ModNone)},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), Special(KeyUp, ModNone)},
		{tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl), Rune('r', ModCtrl)},
	}

	for _, tt := range tests {
		if got := FromTcell(tt.ev); got != tt.want {
			t.Errorf("FromTcell(%v) = %#v, want %#v", tt.ev.Name(), got, tt.want)
		}
	}
}
