// Package buffer provides an in-memory editing surface: a thread-safe line
// buffer with multiple cursors, an undo history and a viewport.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Batched edits applied atomically, with positions that all refer to
//     the document as it was before the batch
//   - Selections carried through every edit
//   - Named commands (delete lines, open line, viewport moves) applied to
//     every cursor at once
//   - Line ending detection and normalization
//   - Revision tracking for change management
//
// A Buffer implements execctx.Surface. With WithAsync(true) every edit and
// command completes on its own goroutine, so callers must wait on the
// returned completion before observing the result.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("one\ntwo")
//	res, _ := execctx.New(ctx, st, buf).Edit(func(eb execctx.EditBuilder) {
//	    eb.Insert(cursor.Pos(1, 0), "> ")
//	})
//	// res.Ranges[0] == {(1,0), (1,2)}
package buffer
