// Package history provides undo/redo for the in-memory buffer.
//
// Every batched edit or surface command pushes a Snapshot of the document
// as it was before the change, so one undo step reverts one action no
// matter how many cursors it edited:
//
//	h := history.NewHistory(1000)
//	h.Push(history.Snapshot{Lines: lines, Selections: sels, Description: "edit"})
//
//	prev, err := h.Undo(current)  // restore prev, current goes to redo
//	next, err := h.Redo(prev)
//
// Snapshots are copied on the way in and out.
package history
