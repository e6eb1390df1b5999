package vim

import (
	"unicode"

	"github.com/dshills/keymode/internal/engine/cursor"
)

// Document is the read-only text view motions are computed against.
type Document interface {
	LineCount() int
	LineText(line int) string
}

// Target computes where the motion lands when started at from.
// arg is the character argument of f/F/t/T motions. desiredCol is the
// cached column for vertical motions, or -1 to use from.Col.
// It returns false when the motion cannot move (no such character,
// document edge for j/k).
func (m *Motion) Target(doc Document, from cursor.Position, arg rune, desiredCol int) (cursor.Position, bool) {
	line := []rune(doc.LineText(from.Line))
	text := string(line)

	switch m.Kind {
	case KindLeft:
		return cursor.Pos(from.Line, cursor.Left(text, from.Col)), true
	case KindRight:
		return cursor.Pos(from.Line, cursor.Right(text, from.Col)), true

	case KindUp, KindDown:
		next := from.Line + 1
		if m.Kind == KindUp {
			next = from.Line - 1
		}
		if next < 0 || next >= doc.LineCount() {
			return from, false
		}
		col := desiredCol
		if col < 0 {
			col = from.Col
		}
		return cursor.Pos(next, clampCol(doc.LineText(next), col)), true

	case KindWordForward, KindBigWordForward:
		return wordForward(doc, from, m.Kind == KindBigWordForward), true
	case KindWordBackward, KindBigWordBackward:
		return wordBackward(doc, from, m.Kind == KindBigWordBackward), true
	case KindWordEnd, KindBigWordEnd:
		return wordEnd(doc, from, m.Kind == KindBigWordEnd), true

	case KindLineStart:
		return cursor.Pos(from.Line, 0), true
	case KindFirstNonBlank:
		return cursor.Pos(from.Line, FirstNonBlank(text)), true
	case KindLineEnd:
		return cursor.Pos(from.Line, max(len(line)-1, 0)), true

	case KindDocumentStart:
		return cursor.Pos(0, FirstNonBlank(doc.LineText(0))), true
	case KindDocumentEnd:
		last := doc.LineCount() - 1
		return cursor.Pos(last, FirstNonBlank(doc.LineText(last))), true

	case KindFindChar, KindTillChar:
		for i := from.Col + 1; i < len(line); i++ {
			if line[i] == arg {
				if m.Kind == KindTillChar {
					i--
				}
				return cursor.Pos(from.Line, i), true
			}
		}
		return from, false
	case KindFindCharBack, KindTillCharBack:
		for i := min(from.Col, len(line)) - 1; i >= 0; i-- {
			if line[i] == arg {
				if m.Kind == KindTillCharBack {
					i++
				}
				return cursor.Pos(from.Line, i), true
			}
		}
		return from, false

	case KindParagraphForward:
		for l := from.Line + 1; l < doc.LineCount(); l++ {
			if doc.LineText(l) == "" && doc.LineText(l-1) != "" {
				return cursor.Pos(l, 0), true
			}
		}
		last := doc.LineCount() - 1
		return cursor.Pos(last, runeCount(doc.LineText(last))), true
	case KindParagraphBackward:
		for l := from.Line - 1; l > 0; l-- {
			if doc.LineText(l) == "" && doc.LineText(l+1) != "" {
				return cursor.Pos(l, 0), true
			}
		}
		return cursor.Pos(0, 0), true
	}
	return from, false
}

// FirstNonBlank returns the column of the first non-whitespace rune of line,
// or the line length when the line is blank.
func FirstNonBlank(line string) int {
	col := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			return col
		}
		col++
	}
	return col
}

// clampCol keeps a Normal-mode column on an existing character.
func clampCol(line string, col int) int {
	n := runeCount(line)
	if col >= n {
		col = n - 1
	}
	return max(col, 0)
}

func runeCount(s string) int {
	return len([]rune(s))
}

// charClass groups runes for word motions: 0 blank, 1 keyword, 2 punctuation.
// With bigWord every non-blank rune is the same class.
func charClass(r rune, bigWord bool) int {
	switch {
	case unicode.IsSpace(r):
		return 0
	case bigWord:
		return 1
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return 1
	}
	return 2
}

// scanner walks a document one rune at a time, treating each line end as a
// blank so words never span lines.
type scanner struct {
	doc  Document
	pos  cursor.Position
	line []rune
}

func newScanner(doc Document, p cursor.Position) *scanner {
	return &scanner{doc: doc, pos: p, line: []rune(doc.LineText(p.Line))}
}

// class returns the class at the current position; line ends are blank
// and an empty line is its own word.
func (s *scanner) class(bigWord bool) int {
	if len(s.line) == 0 {
		return 3
	}
	if s.pos.Col >= len(s.line) {
		return 0
	}
	return charClass(s.line[s.pos.Col], bigWord)
}

func (s *scanner) next() bool {
	if s.pos.Col < len(s.line)-1 {
		s.pos.Col++
		return true
	}
	if s.pos.Line+1 >= s.doc.LineCount() {
		return false
	}
	s.pos = cursor.Pos(s.pos.Line+1, 0)
	s.line = []rune(s.doc.LineText(s.pos.Line))
	return true
}

func (s *scanner) prev() bool {
	if s.pos.Col > 0 {
		s.pos.Col--
		return true
	}
	if s.pos.Line == 0 {
		return false
	}
	s.pos.Line--
	s.line = []rune(s.doc.LineText(s.pos.Line))
	s.pos.Col = max(len(s.line)-1, 0)
	return true
}

func wordForward(doc Document, from cursor.Position, bigWord bool) cursor.Position {
	s := newScanner(doc, from)
	start := s.class(bigWord)
	for {
		prevLine := s.pos.Line
		if !s.next() {
			// Past the last word: land after the final character.
			return cursor.Pos(s.pos.Line, len(s.line))
		}
		c := s.class(bigWord)
		if s.pos.Line != prevLine {
			// A new line always ends the current word.
			start = 0
			if c == 3 {
				return s.pos
			}
		}
		if c != 0 && c != start {
			return s.pos
		}
		if c == 0 {
			start = 0
		}
	}
}

func wordEnd(doc Document, from cursor.Position, bigWord bool) cursor.Position {
	s := newScanner(doc, from)
	// Always move at least one rune, then skip blanks.
	if !s.next() {
		return from
	}
	for c := s.class(bigWord); c == 0 || c == 3; c = s.class(bigWord) {
		if !s.next() {
			return s.pos
		}
	}
	cls := s.class(bigWord)
	for s.pos.Col+1 < len(s.line) && charClass(s.line[s.pos.Col+1], bigWord) == cls {
		s.pos.Col++
	}
	return s.pos
}

func wordBackward(doc Document, from cursor.Position, bigWord bool) cursor.Position {
	s := newScanner(doc, from)
	if !s.prev() {
		return from
	}
	for c := s.class(bigWord); c == 0; c = s.class(bigWord) {
		if !s.prev() {
			return s.pos
		}
	}
	if s.class(bigWord) == 3 {
		return s.pos
	}
	cls := s.class(bigWord)
	for s.pos.Col > 0 && charClass(s.line[s.pos.Col-1], bigWord) == cls {
		s.pos.Col--
	}
	return s.pos
}

// ChangeWordEnd returns the last character cw or cW changes: the end of
// the word under the cursor, without the blanks after it. It returns false
// when the cursor is on a blank, where cw acts like dw.
func ChangeWordEnd(doc Document, from cursor.Position, bigWord bool) (cursor.Position, bool) {
	line := []rune(doc.LineText(from.Line))
	if from.Col >= len(line) || charClass(line[from.Col], bigWord) == 0 {
		return from, false
	}
	cls := charClass(line[from.Col], bigWord)
	end := from
	for end.Col+1 < len(line) && charClass(line[end.Col+1], bigWord) == cls {
		end.Col++
	}
	return end, true
}
