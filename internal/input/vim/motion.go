package vim

// MotionType categorizes motions by their behavior.
type MotionType uint8

const (
	// MotionCharwise moves character by character.
	MotionCharwise MotionType = iota

	// MotionLinewise operates on whole lines.
	MotionLinewise
)

// MotionKind selects the target computation of a motion.
type MotionKind uint8

const (
	KindLeft MotionKind = iota
	KindRight
	KindUp
	KindDown
	KindWordForward
	KindWordBackward
	KindWordEnd
	KindBigWordForward
	KindBigWordBackward
	KindBigWordEnd
	KindLineStart
	KindFirstNonBlank
	KindLineEnd
	KindDocumentStart
	KindDocumentEnd
	KindFindChar
	KindFindCharBack
	KindTillChar
	KindTillCharBack
	KindParagraphForward
	KindParagraphBackward
)

// Motion represents a Vim motion command.
// Motions define how the cursor moves and what range an operator affects.
type Motion struct {
	// Name is the motion identifier (e.g., "wordForward", "lineEnd").
	Name string

	// Keys is the fixed key sequence that triggers this motion.
	// For motions that take a character, the character follows Keys.
	Keys string

	// Kind selects the target computation.
	Kind MotionKind

	// Type indicates the motion type (charwise or linewise).
	Type MotionType

	// Inclusive indicates if the motion includes the character at the target.
	// e.g., 'e' is inclusive, 'w' is exclusive.
	Inclusive bool

	// TakesChar indicates the motion consumes one character argument (f, t).
	TakesChar bool
}

// Vertical reports whether the motion only moves between lines and keeps
// the desired column.
func (m *Motion) Vertical() bool {
	return m.Kind == KindUp || m.Kind == KindDown
}

// Action returns the dispatcher action name for the standalone motion.
func (m *Motion) Action() string {
	return "cursor." + m.Name
}

// motionTable lists the motion sub-table in match order.
var motionTable = []*Motion{
	{Name: "left", Keys: "h", Kind: KindLeft},
	{Name: "right", Keys: "l", Kind: KindRight},
	{Name: "up", Keys: "k", Kind: KindUp, Type: MotionLinewise},
	{Name: "down", Keys: "j", Kind: KindDown, Type: MotionLinewise},
	{Name: "wordForward", Keys: "w", Kind: KindWordForward},
	{Name: "wordBackward", Keys: "b", Kind: KindWordBackward},
	{Name: "wordEnd", Keys: "e", Kind: KindWordEnd, Inclusive: true},
	{Name: "WORDForward", Keys: "W", Kind: KindBigWordForward},
	{Name: "WORDBackward", Keys: "B", Kind: KindBigWordBackward},
	{Name: "WORDEnd", Keys: "E", Kind: KindBigWordEnd, Inclusive: true},
	{Name: "lineStart", Keys: "0", Kind: KindLineStart},
	{Name: "firstNonBlank", Keys: "^", Kind: KindFirstNonBlank},
	{Name: "lineEnd", Keys: "$", Kind: KindLineEnd, Inclusive: true},
	{Name: "documentStart", Keys: "gg", Kind: KindDocumentStart, Type: MotionLinewise},
	{Name: "documentEnd", Keys: "G", Kind: KindDocumentEnd, Type: MotionLinewise},
	{Name: "findChar", Keys: "f", Kind: KindFindChar, Inclusive: true, TakesChar: true},
	{Name: "findCharBack", Keys: "F", Kind: KindFindCharBack, TakesChar: true},
	{Name: "tillChar", Keys: "t", Kind: KindTillChar, Inclusive: true, TakesChar: true},
	{Name: "tillCharBack", Keys: "T", Kind: KindTillCharBack, TakesChar: true},
	{Name: "paragraphForward", Keys: "}", Kind: KindParagraphForward},
	{Name: "paragraphBackward", Keys: "{", Kind: KindParagraphBackward},
}

var motionsByName = func() map[string]*Motion {
	m := make(map[string]*Motion, len(motionTable))
	for _, mo := range motionTable {
		m[mo.Name] = mo
	}
	return m
}()

// Motions returns the motion sub-table in match order.
func Motions() []*Motion {
	out := make([]*Motion, len(motionTable))
	copy(out, motionTable)
	return out
}

// GetMotion returns the motion with the given name, or nil.
func GetMotion(name string) *Motion {
	return motionsByName[name]
}

// Reverse returns the character search motion going the other way.
// f and F swap, t and T swap. Other motions return nil.
func (m *Motion) Reverse() *Motion {
	switch m.Kind {
	case KindFindChar:
		return GetMotion("findCharBack")
	case KindFindCharBack:
		return GetMotion("findChar")
	case KindTillChar:
		return GetMotion("tillCharBack")
	case KindTillCharBack:
		return GetMotion("tillChar")
	}
	return nil
}
