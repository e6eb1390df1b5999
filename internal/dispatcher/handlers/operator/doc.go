// Package operator compiles Vim-style operator commands.
//
// An operator binding (d, c, y) in the key table is followed by a motion
// from the motion table: "dw", "c$", "yj", "df,". The matcher reports the
// operator and the motion; Compiler.Compile turns the pair into a
// Composite action named "operator.<operator>.<motion>".
//
// # Ranges
//
// Each cursor's range runs from the cursor to the motion's target,
// computed before any text changes:
//
//   - Linewise motions (j, k, gg, G) cover whole lines.
//   - Inclusive motions (e, E, $, f, t) include the target character.
//   - w and W stop at the end of the line rather than crossing it.
//   - cw and cW act like ce and cE unless the cursor is on a blank.
//
// Cursors whose motion does not resolve are skipped. When no cursor
// resolves, nothing is applied.
//
// # Operators
//
//   - y writes the ranges to the unnamed register and register 0.
//   - d writes them to the unnamed register and deletes all ranges in one
//     batched edit.
//   - c deletes like d and enters Insert mode; linewise change keeps the
//     first line's indent.
package operator
