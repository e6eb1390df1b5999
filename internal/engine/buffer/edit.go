package buffer

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/engine/cursor"
)

// Edit represents one text replacement of a batch.
type Edit struct {
	Range   cursor.Range
	NewText string

	index int
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	switch {
	case e.Range.IsEmpty():
		return fmt.Sprintf("Insert(%s, %q)", e.Range.Start, e.NewText)
	case e.NewText == "":
		return fmt.Sprintf("Delete%s", e.Range)
	}
	return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
}

// batch records the operations of one Edit call.
type batch struct {
	edits []Edit
}

func (bt *batch) Insert(at cursor.Position, text string) {
	bt.Replace(cursor.Range{Start: at, End: at}, text)
}

func (bt *batch) Delete(r cursor.Range) {
	bt.Replace(r, "")
}

func (bt *batch) Replace(r cursor.Range, text string) {
	bt.edits = append(bt.edits, Edit{
		Range:   cursor.NewRange(r.Start, r.End),
		NewText: text,
		index:   len(bt.edits),
	})
}

// Edit records a batch of operations against the current document and
// applies them together. The completion carries each operation's
// post-edit range in recording order.
func (b *Buffer) Edit(build func(execctx.EditBuilder)) execctx.Completion {
	bt := &batch{}
	build(bt)
	return b.complete(func() execctx.EditResult {
		ranges, err := b.ApplyEdits(bt.edits)
		return execctx.EditResult{Ranges: ranges, Err: err}
	})
}

// complete runs fn now, or on its own goroutine for an async buffer.
func (b *Buffer) complete(fn func() execctx.EditResult) execctx.Completion {
	if !b.async {
		return execctx.Done(fn())
	}
	ch := make(chan execctx.EditResult, 1)
	go func() {
		defer close(ch)
		ch <- fn()
	}()
	return ch
}

// ApplyEdits applies edits whose ranges refer to the current document.
// Either every edit is applied or none is. Selections are carried through
// the edits and one undo step is recorded.
func (b *Buffer) ApplyEdits(edits []Edit) ([]cursor.Range, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.applyLocked(edits, "edit")
}

func (b *Buffer) applyLocked(edits []Edit, desc string) ([]cursor.Range, error) {
	for i := range edits {
		edits[i].index = i
		if err := b.checkRangeLocked(edits[i].Range); err != nil {
			return nil, err
		}
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, c Edit) int {
		if n := a.Range.Start.Compare(c.Range.Start); n != 0 {
			return n
		}
		return a.Range.End.Compare(c.Range.End)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Range.End.After(sorted[i].Range.Start) {
			return nil, fmt.Errorf("%w: %s and %s", ErrEditsOverlap, sorted[i-1], sorted[i])
		}
	}

	b.history.Push(b.snapshotLocked(desc))

	// Ranges of lower edits are untouched by higher ones, so applying from
	// the end keeps every pre-edit range valid.
	lines := slices.Clone(b.lines)
	sels := slices.Clone(b.selections)
	for _, e := range slices.Backward(sorted) {
		lines = splice(lines, e.Range, e.NewText)
		for i := range sels {
			sels[i] = cursor.TransformSelection(sels[i], e.Range, e.NewText)
		}
	}

	ranges := make([]cursor.Range, len(edits))
	for k, e := range sorted {
		start := e.Range.Start
		for _, lower := range slices.Backward(sorted[:k]) {
			start = cursor.Transform(start, lower.Range, lower.NewText)
		}
		ranges[e.index] = cursor.Range{Start: start, End: cursor.EndOf(start, e.NewText)}
	}

	b.lines = lines
	b.revision++
	b.setSelectionsLocked(sels)
	return ranges, nil
}

func (b *Buffer) checkRangeLocked(r cursor.Range) error {
	for _, p := range []cursor.Position{r.Start, r.End} {
		if p.Line < 0 || p.Line >= len(b.lines) || p.Col < 0 || p.Col > utf8.RuneCountInString(b.lines[p.Line]) {
			return fmt.Errorf("%w: %s", ErrPositionOutOfRange, p)
		}
	}
	return nil
}

// splice replaces r in lines with text and returns the new lines.
func splice(lines []string, r cursor.Range, text string) []string {
	first, last := lines[r.Start.Line], lines[r.End.Line]
	prefix := cursor.Slice(first, 0, r.Start.Col)
	suffix := cursor.Slice(last, r.End.Col, utf8.RuneCountInString(last))
	middle := strings.Split(prefix+text+suffix, "\n")

	out := make([]string, 0, len(lines)-(r.End.Line-r.Start.Line)+len(middle)-1)
	out = append(out, lines[:r.Start.Line]...)
	out = append(out, middle...)
	return append(out, lines[r.End.Line+1:]...)
}
