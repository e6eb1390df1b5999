// Package cursor provides handlers for cursor movement operations.
//
// Every motion of the vim motion table is registered as a standalone
// action named "cursor." + the motion name (cursor.wordForward for w,
// cursor.findChar for f<char>, and so on). All handlers move every cursor
// and extend the selection from its anchor in Visual and VisualLine mode.
//
// # Desired Column
//
// Vertical motions (j, k) keep a per-cursor desired column in the session
// state so moving through a short line and back restores the column. Any
// other action clears it.
//
// # Character Search Repeat
//
// f, F, t and T register themselves as the session's repeatable action:
//   - cursor.repeatFind (;): repeat the last search in the same direction
//   - cursor.repeatFindReverse (,): repeat it in the opposite direction
package cursor
