// Package cursor provides line/column positions, selections and the rules
// for moving them across edits.
//
// Selection Model:
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The active position (where the cursor is drawn)
//
// When Anchor == Head, the selection represents just a cursor with no
// selected text. Columns count runes; Left and Right step over whole
// grapheme clusters so combining marks and emoji sequences move as one.
//
// Basic usage:
//
//	sel := cursor.Collapsed(cursor.Pos(2, 4))
//	sel = sel.Extend(cursor.Pos(2, 9))
//	p := cursor.Transform(sel.Head, cursor.Range{Start: cursor.Pos(2, 0), End: cursor.Pos(2, 0)}, "  ")
//
// Selection and Position are immutable value types and safe for
// concurrent use.
package cursor
