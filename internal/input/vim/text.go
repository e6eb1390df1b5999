package vim

import (
	"strings"

	"github.com/dshills/keymode/internal/engine/cursor"
)

// LinewiseRange returns the range that removes lines first through last
// together with one line break, so no empty line is left behind.
func LinewiseRange(doc Document, first, last int) cursor.Range {
	switch {
	case last < doc.LineCount()-1:
		return cursor.Range{Start: cursor.Pos(first, 0), End: cursor.Pos(last+1, 0)}
	case first > 0:
		return cursor.Range{
			Start: cursor.Pos(first-1, runeCount(doc.LineText(first-1))),
			End:   cursor.Pos(last, runeCount(doc.LineText(last))),
		}
	}
	return cursor.Range{Start: cursor.Pos(0, 0), End: cursor.Pos(last, runeCount(doc.LineText(last)))}
}

// LinesText returns lines first through last joined by "\n".
func LinesText(doc Document, first, last int) string {
	lines := make([]string, 0, last-first+1)
	for l := first; l <= last; l++ {
		lines = append(lines, doc.LineText(l))
	}
	return strings.Join(lines, "\n")
}

// TextIn returns the text covered by r, with line breaks as "\n".
func TextIn(doc Document, r cursor.Range) string {
	if r.Start.Line == r.End.Line {
		return cursor.Slice(doc.LineText(r.Start.Line), r.Start.Col, r.End.Col)
	}
	var sb strings.Builder
	first := doc.LineText(r.Start.Line)
	sb.WriteString(cursor.Slice(first, r.Start.Col, runeCount(first)))
	for l := r.Start.Line + 1; l < r.End.Line; l++ {
		sb.WriteByte('\n')
		sb.WriteString(doc.LineText(l))
	}
	sb.WriteByte('\n')
	sb.WriteString(cursor.Slice(doc.LineText(r.End.Line), 0, r.End.Col))
	return sb.String()
}

// Before returns the character position preceding p, stepping onto the
// last character of the previous line at a line start.
func Before(doc Document, p cursor.Position) cursor.Position {
	if p.Col > 0 {
		return cursor.Pos(p.Line, cursor.Left(doc.LineText(p.Line), p.Col))
	}
	if p.Line == 0 {
		return p
	}
	prev := doc.LineText(p.Line - 1)
	return cursor.Pos(p.Line-1, cursor.Left(prev, runeCount(prev)))
}
