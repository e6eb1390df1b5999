// Package keymap matches typed key sequences against the command table.
//
// # Key Concepts
//
// Binding: maps a key pattern to an action name, scoped to a set of modes.
// Patterns come in three kinds:
//
//	PatternExact     "dd", "zt", "p"      the full sequence must match
//	PatternChar      "f" + any character  one printable key after Keys
//	PatternOperator  "d" + motion         a motion from the motion table
//
// Table: the ordered list of bindings. Order matters: when the pending
// sequence completes several patterns, the first one in table order wins.
//
// Matcher: classifies the pending sequence after each key as NoMatch,
// Partial or Exact. It never switches modes itself.
//
// # Matching
//
// After a key is appended to the pending sequence, the table is scanned
// with only the bindings eligible in the current mode:
//
//  1. The first binding whose pattern the sequence completes wins. The
//     pending sequence is cleared even if a longer binding shares the prefix.
//  2. Otherwise, if the sequence is a strict prefix of some pattern, the
//     result is Partial and the pending sequence is kept.
//  3. Otherwise the result is NoMatch and the pending sequence is cleared.
//
// Operator bindings accept any motion from the motion table, whether or
// not that motion is bound on its own in the current mode.
//
// # Usage
//
//	table := keymap.NewTable()
//	_ = table.Add(keymap.DefaultBindings()...)
//	m := keymap.NewMatcher(table)
//
//	res := m.Feed(pending, ev, mode.Normal)
//	switch res.Status {
//	case keymap.Exact:
//	    // dispatch res.Binding.Action
//	case keymap.Partial:
//	    // wait for more keys
//	case keymap.NoMatch:
//	    // retry the last key alone
//	}
package keymap
