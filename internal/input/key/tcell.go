package key

import "github.com/gdamore/tcell/v2"

// FromTcell converts a terminal key event into an Event.
// Control characters reported as tcell.KeyCtrlA..KeyCtrlZ become Ctrl-modified runes.
func FromTcell(ev *tcell.EventKey) Event {
	mods := fromTcellMod(ev.Modifiers())
	switch k := ev.Key(); k {
	case tcell.KeyRune:
		return Rune(ev.Rune(), mods)
	case tcell.KeyEscape:
		return Special(KeyEscape, mods)
	case tcell.KeyEnter:
		return Special(KeyEnter, mods)
	case tcell.KeyTab:
		return Special(KeyTab, mods)
	case tcell.KeyBacktab:
		return Special(KeyTab, mods.With(ModShift))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Special(KeyBackspace, mods.Without(ModCtrl))
	case tcell.KeyDelete:
		return Special(KeyDelete, mods)
	case tcell.KeyInsert:
		return Special(KeyInsert, mods)
	case tcell.KeyHome:
		return Special(KeyHome, mods)
	case tcell.KeyEnd:
		return Special(KeyEnd, mods)
	case tcell.KeyPgUp:
		return Special(KeyPageUp, mods)
	case tcell.KeyPgDn:
		return Special(KeyPageDown, mods)
	case tcell.KeyUp:
		return Special(KeyUp, mods)
	case tcell.KeyDown:
		return Special(KeyDown, mods)
	case tcell.KeyLeft:
		return Special(KeyLeft, mods)
	case tcell.KeyRight:
		return Special(KeyRight, mods)
	default:
		if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			return Rune('a'+rune(k-tcell.KeyCtrlA), mods.With(ModCtrl))
		}
	}
	return Special(KeyNone, mods)
}

func fromTcellMod(m tcell.ModMask) Modifier {
	var result Modifier
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}
