package cursor

import "strings"

// EndOf returns the position just after text inserted at start.
func EndOf(start Position, text string) Position {
	nl := strings.Count(text, "\n")
	if nl == 0 {
		return Position{Line: start.Line, Col: start.Col + runeLen(text)}
	}
	last := text[strings.LastIndexByte(text, '\n')+1:]
	return Position{Line: start.Line + nl, Col: runeLen(last)}
}

// Transform maps a position through replacing r with text.
//
// Transformation rules:
//   - Before r.Start: unchanged
//   - Pure insert exactly at p: p moves to the end of the insertion
//   - Replacement starting at p: p stays at r.Start
//   - Strictly inside r: moves to the end of the new text
//   - At or after r.End: shifted by the edit's delta
func Transform(p Position, r Range, text string) Position {
	switch {
	case p.Before(r.Start):
		return p
	case p == r.Start && r.IsEmpty():
		return EndOf(r.Start, text)
	case p == r.Start:
		return p
	case p.Before(r.End):
		return EndOf(r.Start, text)
	}

	end := EndOf(r.Start, text)
	if p.Line == r.End.Line {
		return Position{Line: end.Line, Col: end.Col + p.Col - r.End.Col}
	}
	return Position{Line: p.Line + end.Line - r.End.Line, Col: p.Col}
}

// TransformSelection maps both ends of a selection through an edit.
func TransformSelection(s Selection, r Range, text string) Selection {
	return Selection{
		Anchor: Transform(s.Anchor, r, text),
		Head:   Transform(s.Head, r, text),
	}
}
