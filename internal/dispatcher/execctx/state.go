package execctx

import (
	"github.com/dshills/keymode/internal/input/key"
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/vim"
)

// Subscriber controls the key subscription that routes raw keys through
// the command matcher.
type Subscriber interface {
	Attach()
	Detach()
}

// RepeatFunc replays the last repeatable action, reversed when reverse is
// set.
type RepeatFunc func(ctx *ExecutionContext, reverse bool) error

// State is the interpreter state of one editing session: the mode, the
// pending key sequence, per-cursor desired columns, registers and the
// repeatable action.
//
// State is not safe for concurrent use. input.Handler serializes every key
// so a session is only touched by one goroutine at a time.
type State struct {
	// Pending holds keys that form a prefix of some binding.
	Pending *key.Sequence

	// Registers is the session's register store.
	Registers *vim.RegisterStore

	// Modes is the session's mode controller.
	Modes *mode.Controller

	desiredColumns []int
	subscriber     Subscriber
	attached       bool
	repeat         RepeatFunc
}

// NewState creates session state in Normal mode for the given view.
// A nil register store gets a fresh one.
func NewState(view mode.View, registers *vim.RegisterStore) *State {
	if registers == nil {
		registers = vim.NewRegisterStore()
	}
	s := &State{
		Pending:   key.NewSequence(),
		Registers: registers,
		attached:  true,
	}
	s.Modes = mode.NewController(s, view)
	return s
}

// Mode returns the active mode.
func (s *State) Mode() mode.Mode {
	return s.Modes.Current()
}

// ClearPending empties the pending key sequence.
func (s *State) ClearPending() {
	s.Pending.Clear()
}

// ClearDesiredColumns forgets every cached column.
func (s *State) ClearDesiredColumns() {
	s.desiredColumns = nil
}

// DesiredColumn returns the cached column of cursor i, or -1.
func (s *State) DesiredColumn(i int) int {
	if i < 0 || i >= len(s.desiredColumns) {
		return -1
	}
	return s.desiredColumns[i]
}

// SetDesiredColumns replaces the cached columns.
func (s *State) SetDesiredColumns(cols []int) {
	s.desiredColumns = append([]int(nil), cols...)
}

// DesiredColumns returns a copy of the cached columns.
func (s *State) DesiredColumns() []int {
	return append([]int(nil), s.desiredColumns...)
}

// SetSubscriber sets the key subscription toggled by Insert mode.
func (s *State) SetSubscriber(sub Subscriber) {
	s.subscriber = sub
}

// Attached reports whether keys are routed through the command matcher.
func (s *State) Attached() bool {
	return s.attached
}

// DetachTypeSubscription implements mode.Session.
func (s *State) DetachTypeSubscription() {
	if !s.attached {
		return
	}
	s.attached = false
	if s.subscriber != nil {
		s.subscriber.Detach()
	}
}

// AttachTypeSubscription implements mode.Session.
func (s *State) AttachTypeSubscription() {
	if s.attached {
		return
	}
	s.attached = true
	if s.subscriber != nil {
		s.subscriber.Attach()
	}
}

// SetRepeat registers the action ; and , replay.
func (s *State) SetRepeat(fn RepeatFunc) {
	s.repeat = fn
}

// Repeat returns the registered repeatable action, or nil.
func (s *State) Repeat() RepeatFunc {
	return s.repeat
}
