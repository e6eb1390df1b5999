package execctx

import "github.com/dshills/keymode/internal/engine/cursor"

// Surface is the editable text surface actions operate on.
//
// Edits are batched: every operation recorded in one Edit call is computed
// against the document as it was when Edit was called and applied
// together. The surface may finish the edit asynchronously; the returned
// Completion delivers exactly one EditResult once the edit is applied.
type Surface interface {
	Selections() []cursor.Selection
	SetSelections(sels []cursor.Selection)

	LineCount() int
	LineText(line int) string
	LineLength(line int) int

	Edit(build func(EditBuilder)) Completion
	Execute(cmd Command) Completion
}

// EditBuilder records the operations of one batched edit. Positions refer
// to the pre-edit document.
type EditBuilder interface {
	Insert(at cursor.Position, text string)
	Delete(r cursor.Range)
	Replace(r cursor.Range, text string)
}

// EditResult reports a finished edit.
type EditResult struct {
	// Ranges holds the post-edit range of each operation, in the order the
	// operations were recorded. Commands leave it empty.
	Ranges []cursor.Range

	Err error
}

// Completion delivers the result of an edit or command.
type Completion <-chan EditResult

// Done returns a completion that has already finished with res.
func Done(res EditResult) Completion {
	ch := make(chan EditResult, 1)
	ch <- res
	close(ch)
	return ch
}

// Command names a built-in surface command.
type Command string

// Built-in surface commands.
const (
	CmdUndo             Command = "undo"
	CmdDeleteLines      Command = "deleteLines"
	CmdDeleteAllRight   Command = "deleteAllRight"
	CmdDeleteRight      Command = "deleteRight"
	CmdInsertLineAfter  Command = "insertLineAfter"
	CmdInsertLineBefore Command = "insertLineBefore"

	CmdCursorViewportTop    Command = "cursorViewportTop"
	CmdCursorViewportCenter Command = "cursorViewportCenter"
	CmdCursorViewportBottom Command = "cursorViewportBottom"

	CmdRevealTop    Command = "revealLine.top"
	CmdRevealCenter Command = "revealLine.center"
	CmdRevealBottom Command = "revealLine.bottom"
)
