// Package vim provides the Vim vocabulary shared by the key matcher and the
// actions: registers, motions and operators.
//
// # Registers
//
// A register holds one RegisterEntry per cursor, index-aligned with the
// cursor list at the time of the yank or delete. Writes replace the whole
// list; reads return copies, so a register is never partially mutated.
//
//	"        unnamed, the default for yank, delete and put
//	0        last yank
//	1-9      delete history, rotated on each multi-line delete
//	-        small (within one line) delete
//	a-z      named; A-Z appends to the lowercase register
//	_        black hole, discards writes
//	+ *      system clipboard, when a ClipboardProvider is set
//
// # Motions
//
// A Motion is either exact ("w", "gg", "$") or takes one character
// argument ("f<char>", "t<char>"). Target computes where a motion lands in
// a Document; the operator compiler turns that into a range honoring the
// motion's linewise and inclusive flags.
//
// # Operators
//
// Operators (d, c, y) wait for a motion and act on the range from the
// cursor to the motion's target.
package vim
