// Package key defines the key tokens consumed by the command engine.
//
// An Event is one immutable key press: a printable rune or a named special
// key such as Escape, optionally with Ctrl, Alt or Meta held. A Sequence is
// the ordered list of events typed so far for one command.
//
// Key specifications use Vim notation:
//
//   - Plain characters: "a", "A", "$", "{"
//   - Special keys: "<Esc>", "<CR>", "<Tab>", "<BS>", "<Space>"
//   - With modifiers: "<C-r>", "<A-x>", "<C-S-Up>"
//
// Shift is folded into the rune for character keys, so "A" and "<S-a>"
// parse to the same event.
package key
