package cursor

import (
	"testing"
)

func TestPositionCompare(t *testing.T) {
	tests := []struct {
		a, b Position
		want int
	}{
		{Pos(0, 0), Pos(0, 0), 0},
		{Pos(0, 5), Pos(1, 0), -1},
		{Pos(2, 1), Pos(2, 0), 1},
	}

	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSelectionBounds(t *testing.T) {
	s := NewSelection(Pos(3, 4), Pos(1, 2))
	if !s.IsBackward() {
		t.Error("selection should be backward")
	}
	if s.Start() != Pos(1, 2) || s.End() != Pos(3, 4) {
		t.Errorf("bounds = %v..%v, want (1:2)..(3:4)", s.Start(), s.End())
	}
	if got := s.CollapseToStart(); !got.IsEmpty() || got.Head != Pos(1, 2) {
		t.Errorf("CollapseToStart() = %v", got)
	}
	if got := NewRange(Pos(3, 4), Pos(1, 2)); got.Start != Pos(1, 2) {
		t.Errorf("NewRange start = %v, want (1:2)", got.Start)
	}
}

func TestEndOf(t *testing.T) {
	tests := []struct {
		start Position
		text  string
		want  Position
	}{
		{Pos(0, 3), "", Pos(0, 3)},
		{Pos(0, 3), "abc", Pos(0, 6)},
		{Pos(1, 3), "ab\n", Pos(2, 0)},
		{Pos(1, 3), "ab\ncd", Pos(2, 2)},
		{Pos(0, 0), "h\u00e9llo", Pos(0, 5)},
	}

	for _, tt := range tests {
		if got := EndOf(tt.start, tt.text); got != tt.want {
			t.Errorf("EndOf(%v, %q) = %v, want %v", tt.start, tt.text, got, tt.want)
		}
	}
}

func TestTransform(t *testing.T) {
	insertAt := func(p Position) Range { return Range{Start: p, End: p} }

	tests := []struct {
		name string
		p    Position
		r    Range
		text string
		want Position
	}{
		{"before edit", Pos(0, 1), insertAt(Pos(0, 4)), "xx", Pos(0, 1)},
		{"insert at position", Pos(0, 4), insertAt(Pos(0, 4)), "xx", Pos(0, 6)},
		{"after insert same line", Pos(0, 6), insertAt(Pos(0, 4)), "xx", Pos(0, 8)},
		{"line insert above", Pos(2, 3), insertAt(Pos(1, 0)), "new\n", Pos(3, 3)},
		{"replace starting at position", Pos(0, 2), Range{Pos(0, 2), Pos(0, 5)}, "z", Pos(0, 2)},
		{"inside replaced range", Pos(0, 3), Range{Pos(0, 2), Pos(0, 5)}, "z", Pos(0, 3)},
		{"after delete same line", Pos(0, 7), Range{Pos(0, 2), Pos(0, 5)}, "", Pos(0, 4)},
		{"after line delete", Pos(3, 1), Range{Pos(1, 0), Pos(2, 0)}, "", Pos(2, 1)},
		{"joined line", Pos(2, 4), Range{Pos(1, 6), Pos(2, 2)}, "", Pos(1, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transform(tt.p, tt.r, tt.text); got != tt.want {
				t.Errorf("Transform(%v, %v, %q) = %v, want %v", tt.p, tt.r, tt.text, got, tt.want)
			}
		})
	}
}

func TestGraphemeStepping(t *testing.T) {
	// "e" + combining acute accent is one cluster spanning two runes.
	line := "ae\u0301b"

	tests := []struct {
		name  string
		col   int
		left  int
		right int
	}{
		{"line start", 0, 0, 1},
		{"before cluster", 1, 0, 3},
		{"after cluster", 3, 1, 4},
		{"line end", 4, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Right(line, tt.col); got != tt.right {
				t.Errorf("Right(%d) = %d, want %d", tt.col, got, tt.right)
			}
			if got := Left(line, tt.col); got != tt.left {
				t.Errorf("Left(%d) = %d, want %d", tt.col, got, tt.left)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	if got := Slice("h\u00e9llo world", 1, 5); got != "\u00e9llo" {
		t.Errorf("Slice = %q, want %q", got, "\u00e9llo")
	}
	if got := Slice("abc", 2, 10); got != "c" {
		t.Errorf("Slice past end = %q, want %q", got, "c")
	}
}
