// Package editor provides handlers for text editing operations.
//
// All handlers work on every cursor at once. Text changes are recorded as
// one batched edit against the surface; the handler waits for the edit to
// complete before placing the cursors, so the same code serves surfaces
// that apply edits asynchronously.
//
// # Put
//
//   - editor.put (p): put the unnamed register after the cursor, below the
//     line when linewise, or over the selection in Visual modes
//   - editor.putBefore (P): put before the cursor, above the line when
//     linewise
//
// The register holds one entry per cursor; cursor i puts entry i and
// cursors without an entry are left alone.
//
// # Yank and Delete
//
//   - editor.yankLine (yy), editor.yankToLineEnd (Y)
//   - editor.yankDeleteLine (ydd): yy followed by dd
//   - editor.deleteLine (dd), editor.deleteToLineEnd (D), editor.deleteChar (x)
//
// dd, D and x run the surface's built-in commands and do not write
// registers; ydd is the way to delete a line into the register.
//
// # Insert
//
//   - editor.changeLine (cc), editor.changeToLineEnd (C)
//   - editor.openBelow (o), editor.openAbove (O)
//
// # Selections
//
//   - editor.deleteSelection (d, x), editor.changeSelection (c),
//     editor.yankSelection (y) in Visual and VisualLine mode
//
// editor.undo (u) reverts the last change and returns to Normal mode.
package editor
