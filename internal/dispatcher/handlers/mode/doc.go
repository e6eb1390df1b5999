// Package mode provides handlers for mode switching operations.
//
// Each action positions the cursors and then asks the session's
// mode.Controller for the transition, which owns the side effects
// (pending sequence, desired columns, key interception).
//
//   - mode.insert (i): insert before the cursor
//   - mode.insertLineStart (I): insert at the first non-blank character
//   - mode.append (a): insert after the cursor
//   - mode.appendLineEnd (A): insert at the end of the line
//   - mode.visual (v): select the character under each cursor
//   - mode.visualLine (V): select each cursor's line
//   - mode.normal: return to Normal mode
package mode
