package buffer

import (
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/engine/history"
)

// Errors returned by buffer operations.
var (
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrEditsOverlap       = errors.New("edits overlap")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer is an in-memory editing surface: lines of text, a selection per
// cursor, an undo history and a viewport. It implements execctx.Surface.
// All methods are thread-safe.
type Buffer struct {
	mu sync.RWMutex

	lines      []string
	selections []cursor.Selection
	viewport   Viewport
	revision   uint64

	history      *history.History
	historyLimit int

	lineEnding LineEnding
	async      bool
}

// NewBuffer creates a buffer holding one empty line and one cursor.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []string{""},
		selections: []cursor.Selection{cursor.Collapsed(cursor.Pos(0, 0))},
		viewport:   Viewport{Height: DefaultViewportHeight},
		lineEnding: LineEndingLF,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.history = history.NewHistory(b.historyLimit)
	return b
}

// NewBufferFromString creates a buffer with initial content. Line endings
// are normalized; the dominant style is kept for Text.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(append([]Option{WithLineEnding(DetectLineEnding(s))}, opts...)...)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	b.lines = strings.Split(s, "\n")
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// Text returns the full content using the buffer's line ending.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, b.lineEnding.Sequence())
}

// Lines returns a copy of the lines.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.lines)
}

// LineCount returns the number of lines, always at least one.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the text of a line, or "" when out of range.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lines) {
		return ""
	}
	return b.lines[line]
}

// LineLength returns the rune length of a line.
func (b *Buffer) LineLength(line int) int {
	return utf8.RuneCountInString(b.LineText(line))
}

// Revision increases with every applied edit or command.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// Selections returns a copy of the selections in document order.
func (b *Buffer) Selections() []cursor.Selection {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.selections)
}

// SetSelections replaces the selections. Positions are clamped to the
// document, the list is sorted and duplicates are merged. An empty list
// leaves a single cursor at the start of the document.
func (b *Buffer) SetSelections(sels []cursor.Selection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setSelectionsLocked(sels)
}

func (b *Buffer) setSelectionsLocked(sels []cursor.Selection) {
	out := make([]cursor.Selection, 0, len(sels))
	for _, s := range sels {
		out = append(out, cursor.NewSelection(b.clampLocked(s.Anchor), b.clampLocked(s.Head)))
	}
	slices.SortStableFunc(out, func(a, c cursor.Selection) int {
		return a.Start().Compare(c.Start())
	})
	out = slices.Compact(out)
	if len(out) == 0 {
		out = append(out, cursor.Collapsed(cursor.Pos(0, 0)))
	}
	b.selections = out
	b.scrollToRevealLocked(out[0].Head.Line)
}

func (b *Buffer) clampLocked(p cursor.Position) cursor.Position {
	p.Line = min(max(p.Line, 0), len(b.lines)-1)
	p.Col = min(max(p.Col, 0), utf8.RuneCountInString(b.lines[p.Line]))
	return p
}

// Undo reverts the last edit or command.
func (b *Buffer) Undo() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	prev, err := b.history.Undo(b.snapshotLocked(""))
	if err != nil {
		return err
	}
	b.restoreLocked(prev)
	return nil
}

// Redo re-applies the last undone edit or command.
func (b *Buffer) Redo() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, err := b.history.Redo(b.snapshotLocked(""))
	if err != nil {
		return err
	}
	b.restoreLocked(next)
	return nil
}

// CanUndo reports whether there is an edit to undo.
func (b *Buffer) CanUndo() bool {
	return b.history.CanUndo()
}

func (b *Buffer) snapshotLocked(desc string) history.Snapshot {
	return history.Snapshot{Lines: b.lines, Selections: b.selections, Description: desc}
}

func (b *Buffer) restoreLocked(s history.Snapshot) {
	b.lines = s.Lines
	if len(b.lines) == 0 {
		b.lines = []string{""}
	}
	b.revision++
	b.setSelectionsLocked(s.Selections)
}
