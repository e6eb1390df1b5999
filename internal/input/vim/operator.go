package vim

// Operator represents a Vim operator command.
// Operators are commands that perform an action on a range of text
// defined by a motion.
type Operator struct {
	// Name is the operator identifier (e.g., "delete", "change", "yank").
	Name string

	// Key is the key that triggers this operator (e.g., 'd', 'c', 'y').
	Key rune

	// ChangesText indicates if this operator modifies the buffer.
	ChangesText bool

	// EntersInsert indicates if this operator enters insert mode after.
	EntersInsert bool
}

// Standard Vim operators.
var (
	// OpDelete deletes text.
	OpDelete = Operator{
		Name:        "delete",
		Key:         'd',
		ChangesText: true,
	}

	// OpChange deletes text and enters insert mode.
	OpChange = Operator{
		Name:         "change",
		Key:          'c',
		ChangesText:  true,
		EntersInsert: true,
	}

	// OpYank copies text to a register.
	OpYank = Operator{
		Name: "yank",
		Key:  'y',
	}
)

// operators maps operator keys to their definitions.
var operators = map[rune]*Operator{
	'd': &OpDelete,
	'c': &OpChange,
	'y': &OpYank,
}

// GetOperator returns the operator for the given key.
// Returns nil if the key is not an operator.
func GetOperator(key rune) *Operator {
	return operators[key]
}

// IsOperator returns true if the key is an operator.
func IsOperator(key rune) bool {
	_, ok := operators[key]
	return ok
}
