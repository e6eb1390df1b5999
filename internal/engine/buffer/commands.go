package buffer

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/engine/history"
	"github.com/dshills/keymode/internal/input/vim"
)

// Execute runs a named editor command against every cursor.
func (b *Buffer) Execute(cmd execctx.Command) execctx.Completion {
	return b.complete(func() execctx.EditResult {
		return execctx.EditResult{Err: b.run(cmd)}
	})
}

func (b *Buffer) run(cmd execctx.Command) error {
	if cmd == execctx.CmdUndo {
		if err := b.Undo(); err != nil && !errors.Is(err, history.ErrNothingToUndo) {
			return err
		}
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch cmd {
	case execctx.CmdDeleteLines:
		b.deleteLinesLocked()
		return nil
	case execctx.CmdDeleteAllRight:
		return b.perCursorLocked(string(cmd), true, func(h cursor.Position, line string) (Edit, bool) {
			n := utf8.RuneCountInString(line)
			return Edit{Range: cursor.Range{Start: h, End: cursor.Pos(h.Line, n)}}, h.Col < n
		}, nil)
	case execctx.CmdDeleteRight:
		return b.perCursorLocked(string(cmd), false, func(h cursor.Position, line string) (Edit, bool) {
			end := cursor.Right(line, h.Col)
			return Edit{Range: cursor.Range{Start: h, End: cursor.Pos(h.Line, end)}}, end > h.Col
		}, nil)
	case execctx.CmdInsertLineAfter:
		return b.perCursorLocked(string(cmd), true, func(h cursor.Position, line string) (Edit, bool) {
			at := cursor.Pos(h.Line, utf8.RuneCountInString(line))
			return Edit{Range: cursor.Range{Start: at, End: at}, NewText: "\n" + indentOf(line)}, true
		}, func(r cursor.Range) cursor.Position { return r.End })
	case execctx.CmdInsertLineBefore:
		return b.perCursorLocked(string(cmd), true, func(h cursor.Position, line string) (Edit, bool) {
			at := cursor.Pos(h.Line, 0)
			return Edit{Range: cursor.Range{Start: at, End: at}, NewText: indentOf(line) + "\n"}, true
		}, func(r cursor.Range) cursor.Position {
			return cursor.Pos(r.Start.Line, utf8.RuneCountInString(b.lines[r.Start.Line]))
		})
	case execctx.CmdCursorViewportTop:
		b.cursorsToLocked(b.viewport.Top)
		return nil
	case execctx.CmdCursorViewportCenter:
		b.cursorsToLocked(b.viewport.Top + (b.visibleLocked()-1)/2)
		return nil
	case execctx.CmdCursorViewportBottom:
		b.cursorsToLocked(b.viewport.Top + b.visibleLocked() - 1)
		return nil
	case execctx.CmdRevealTop:
		b.setTopLocked(b.selections[0].Head.Line)
		return nil
	case execctx.CmdRevealCenter:
		b.setTopLocked(b.selections[0].Head.Line - b.viewport.Height/2)
		return nil
	case execctx.CmdRevealBottom:
		b.setTopLocked(b.selections[0].Head.Line - b.viewport.Height + 1)
		return nil
	}
	return fmt.Errorf("%w: %s", execctx.ErrUnknownCommand, cmd)
}

// perCursorLocked builds one edit per cursor and applies them as a batch.
// With perLine only the first cursor of each line contributes. When place
// is set, each cursor moves to place(post-edit range).
func (b *Buffer) perCursorLocked(desc string, perLine bool, build func(h cursor.Position, line string) (Edit, bool), place func(cursor.Range) cursor.Position) error {
	edits := make([]Edit, 0, len(b.selections))
	lastLine := -1
	for _, s := range b.selections {
		if perLine && s.Head.Line == lastLine {
			continue
		}
		lastLine = s.Head.Line
		if e, ok := build(s.Head, b.lines[s.Head.Line]); ok {
			edits = append(edits, e)
		}
	}
	if len(edits) == 0 {
		return nil
	}
	ranges, err := b.applyLocked(edits, desc)
	if err != nil || place == nil {
		return err
	}
	sels := make([]cursor.Selection, len(ranges))
	for i, r := range ranges {
		sels[i] = cursor.Collapsed(place(r))
	}
	b.setSelectionsLocked(sels)
	return nil
}

// deleteLinesLocked removes every line holding a cursor. Each cursor lands
// on the line that took its place.
func (b *Buffer) deleteLinesLocked() {
	targets := make([]int, 0, len(b.selections))
	for _, s := range b.selections {
		targets = append(targets, s.Head.Line)
	}
	slices.Sort(targets)
	targets = slices.Compact(targets)

	b.history.Push(b.snapshotLocked(string(execctx.CmdDeleteLines)))
	lines := slices.Clone(b.lines)
	for _, l := range slices.Backward(targets) {
		lines = slices.Delete(lines, l, l+1)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	b.lines = lines
	b.revision++

	sels := make([]cursor.Selection, len(targets))
	for i, l := range targets {
		sels[i] = cursor.Collapsed(cursor.Pos(min(l-i, len(lines)-1), 0))
	}
	b.setSelectionsLocked(sels)
}

// cursorsToLocked moves every cursor to the first non-blank of line.
func (b *Buffer) cursorsToLocked(line int) {
	line = min(max(line, 0), len(b.lines)-1)
	p := cursor.Pos(line, vim.FirstNonBlank(b.lines[line]))
	sels := make([]cursor.Selection, len(b.selections))
	for i := range sels {
		sels[i] = cursor.Collapsed(p)
	}
	b.setSelectionsLocked(sels)
}

func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeftFunc(line, unicode.IsSpace))]
}
