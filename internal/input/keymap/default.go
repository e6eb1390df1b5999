package keymap

import (
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/vim"
)

var (
	normalOnly = mode.SetOf(mode.Normal)
	visualOnly = mode.SetOf(mode.Visual, mode.VisualLine)
	navigable  = mode.SetOf(mode.Normal, mode.Visual, mode.VisualLine)
)

// DefaultBindings returns the built-in command table in match order.
func DefaultBindings() []Binding {
	bindings := []Binding{
		// Insert entry
		{Keys: "i", Modes: normalOnly, Action: "mode.insert", Description: "Insert before cursor", Category: "Mode"},
		{Keys: "I", Modes: normalOnly, Action: "mode.insertLineStart", Description: "Insert at first non-blank", Category: "Mode"},
		{Keys: "a", Modes: normalOnly, Action: "mode.append", Description: "Append after cursor", Category: "Mode"},
		{Keys: "A", Modes: normalOnly, Action: "mode.appendLineEnd", Description: "Append at end of line", Category: "Mode"},

		// Visual
		{Keys: "v", Modes: mode.SetOf(mode.Normal, mode.VisualLine), Action: "mode.visual", Description: "Visual mode", Category: "Mode"},
		{Keys: "V", Modes: mode.SetOf(mode.Normal, mode.Visual), Action: "mode.visualLine", Description: "Visual line mode", Category: "Mode"},

		// Put
		{Keys: "p", Modes: navigable, Action: "editor.put", Description: "Put after cursor", Category: "Registers"},
		{Keys: "P", Modes: normalOnly, Action: "editor.putBefore", Description: "Put before cursor", Category: "Registers"},

		{Keys: "u", Modes: navigable, Action: "editor.undo", Description: "Undo", Category: "Editing"},

		// Line editing
		{Keys: "dd", Modes: normalOnly, Action: "editor.deleteLine", Description: "Delete line", Category: "Editing"},
		{Keys: "D", Modes: normalOnly, Action: "editor.deleteToLineEnd", Description: "Delete to end of line", Category: "Editing"},
		{Keys: "cc", Modes: normalOnly, Action: "editor.changeLine", Description: "Change line", Category: "Editing"},
		{Keys: "C", Modes: normalOnly, Action: "editor.changeToLineEnd", Description: "Change to end of line", Category: "Editing"},
		{Keys: "o", Modes: normalOnly, Action: "editor.openBelow", Description: "Open line below", Category: "Editing"},
		{Keys: "O", Modes: normalOnly, Action: "editor.openAbove", Description: "Open line above", Category: "Editing"},

		// Screen-relative cursor and scrolling
		{Keys: "H", Modes: normalOnly, Action: "view.cursorTop", Description: "Cursor to top of screen", Category: "Scrolling"},
		{Keys: "M", Modes: normalOnly, Action: "view.cursorMiddle", Description: "Cursor to middle of screen", Category: "Scrolling"},
		{Keys: "L", Modes: normalOnly, Action: "view.cursorBottom", Description: "Cursor to bottom of screen", Category: "Scrolling"},
		{Keys: "zt", Modes: normalOnly, Action: "view.revealTop", Description: "Scroll cursor line to top", Category: "Scrolling"},
		{Keys: "zz", Modes: normalOnly, Action: "view.revealCenter", Description: "Scroll cursor line to center", Category: "Scrolling"},
		{Keys: "zb", Modes: normalOnly, Action: "view.revealBottom", Description: "Scroll cursor line to bottom", Category: "Scrolling"},

		// Yank
		{Keys: "yy", Modes: normalOnly, Action: "editor.yankLine", Description: "Yank line", Category: "Registers"},
		{Keys: "Y", Modes: normalOnly, Action: "editor.yankToLineEnd", Description: "Yank to end of line", Category: "Registers"},
		{Keys: "ydd", Modes: normalOnly, Action: "editor.yankDeleteLine", Description: "Yank then delete line", Category: "Registers"},

		{Keys: "x", Modes: normalOnly, Action: "editor.deleteChar", Description: "Delete character", Category: "Editing"},

		// Character search repeat
		{Keys: ";", Modes: navigable, Action: "cursor.repeatFind", Description: "Repeat last f/t/F/T", Category: "Movement"},
		{Keys: ",", Modes: navigable, Action: "cursor.repeatFindReverse", Description: "Repeat last f/t/F/T reversed", Category: "Movement"},

		// Selection operators
		{Keys: "d", Modes: visualOnly, Action: "editor.deleteSelection", Description: "Delete selection", Category: "Editing"},
		{Keys: "x", Modes: visualOnly, Action: "editor.deleteSelection", Description: "Delete selection", Category: "Editing"},
		{Keys: "c", Modes: visualOnly, Action: "editor.changeSelection", Description: "Change selection", Category: "Editing"},
		{Keys: "y", Modes: visualOnly, Action: "editor.yankSelection", Description: "Yank selection", Category: "Registers"},

		// Operators
		{Keys: "d", Kind: PatternOperator, Modes: normalOnly, Description: "Delete over motion", Category: "Operators"},
		{Keys: "c", Kind: PatternOperator, Modes: normalOnly, Description: "Change over motion", Category: "Operators"},
		{Keys: "y", Kind: PatternOperator, Modes: normalOnly, Description: "Yank over motion", Category: "Operators"},
	}

	for _, mo := range vim.Motions() {
		kind := PatternExact
		if mo.TakesChar {
			kind = PatternChar
		}
		bindings = append(bindings, Binding{
			Keys:     mo.Keys,
			Kind:     kind,
			Modes:    navigable,
			Action:   mo.Action(),
			Category: "Movement",
		})
	}

	for i := range bindings {
		bindings[i].Source = "default"
	}
	return bindings
}
