package mode

import (
	"sync"

	"github.com/dshills/keymode/internal/engine/cursor"
)

// Session is the interpreter state touched by mode transitions.
type Session interface {
	ClearPending()
	ClearDesiredColumns()

	// DetachTypeSubscription stops routing raw keys through the command
	// matcher so the host can insert typed text.
	DetachTypeSubscription()

	// AttachTypeSubscription routes keys through the command matcher again.
	AttachTypeSubscription()
}

// View is the part of the editing surface transitions normalize.
type View interface {
	Selections() []cursor.Selection
	SetSelections([]cursor.Selection)
	LineText(line int) string
}

// ChangeCallback is called after the mode changes.
type ChangeCallback func(from, to Mode)

// Controller manages the active mode and coordinates mode transitions.
type Controller struct {
	mu sync.RWMutex

	session Session
	view    View

	current  Mode
	previous Mode

	// callbacks are notified on mode changes.
	callbacks []ChangeCallback
}

// NewController creates a controller in Normal mode.
func NewController(session Session, view View) *Controller {
	return &Controller{
		session: session,
		view:    view,
	}
}

// Current returns the active mode.
func (c *Controller) Current() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Previous returns the mode active before the last transition.
func (c *Controller) Previous() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.previous
}

// Is reports whether m is the active mode.
func (c *Controller) Is(m Mode) bool {
	return c.Current() == m
}

// EnterInsert switches to Insert mode.
func (c *Controller) EnterInsert() {
	c.session.ClearPending()
	c.session.ClearDesiredColumns()
	c.session.DetachTypeSubscription()
	c.switchTo(Insert)
}

// EnterNormal switches to Normal mode, normalizing cursors left behind by
// Insert or Visual mode.
func (c *Controller) EnterNormal() {
	from := c.Current()
	c.session.ClearPending()

	sels := c.view.Selections()
	for i, s := range sels {
		switch from {
		case Insert:
			p := s.Head
			p.Col = cursor.Left(c.view.LineText(p.Line), p.Col)
			sels[i] = cursor.Collapsed(p)
		case Visual, VisualLine:
			if !s.IsEmpty() {
				sels[i] = cursor.Collapsed(ActiveChar(c.view, s))
			}
		}
		sels[i] = cursor.Collapsed(ClampNormal(c.view, sels[i].Head))
	}
	c.view.SetSelections(sels)

	if from == Insert {
		c.session.AttachTypeSubscription()
	}
	c.switchTo(Normal)
}

// EnterVisual switches to Visual mode, selecting the character under each
// cursor. Cursors on empty lines keep their selection.
func (c *Controller) EnterVisual() {
	sels := c.view.Selections()
	for i, s := range sels {
		line := c.view.LineText(s.Head.Line)
		if line == "" {
			continue
		}
		active := s.Head
		if c.Current().IsVisual() && !s.IsEmpty() {
			active = ActiveChar(c.view, s)
		}
		sels[i] = cursor.NewSelection(active, cursor.Pos(active.Line, cursor.Right(line, active.Col)))
	}
	c.view.SetSelections(sels)
	c.session.ClearPending()
	c.switchTo(Visual)
}

// EnterVisualLine switches to VisualLine mode, selecting each cursor's
// whole line. Cursors on empty lines keep their selection.
func (c *Controller) EnterVisualLine() {
	sels := c.view.Selections()
	for i, s := range sels {
		line := c.view.LineText(s.Head.Line)
		if line == "" {
			continue
		}
		sels[i] = cursor.NewSelection(cursor.Pos(s.Head.Line, 0), cursor.Pos(s.Head.Line, len([]rune(line))))
	}
	c.view.SetSelections(sels)
	c.session.ClearPending()
	c.switchTo(VisualLine)
}

// switchTo records the transition and notifies listeners outside the lock.
func (c *Controller) switchTo(to Mode) {
	c.mu.Lock()
	from := c.current
	c.previous = from
	c.current = to
	callbacks := make([]ChangeCallback, len(c.callbacks))
	copy(callbacks, c.callbacks)
	c.mu.Unlock()

	if from == to {
		return
	}
	for _, cb := range callbacks {
		if cb != nil {
			cb(from, to)
		}
	}
}

// OnChange registers a callback for mode changes.
// Returns a function to unregister the callback.
func (c *Controller) OnChange(callback ChangeCallback) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.callbacks = append(c.callbacks, callback)
	index := len(c.callbacks) - 1

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// Remove by setting to nil to preserve indices.
		if index < len(c.callbacks) {
			c.callbacks[index] = nil
		}
	}
}

// ActiveChar returns the position of the character the cursor is on for a
// Visual selection, whose head is one past the selected text when it
// extends forward.
func ActiveChar(v View, s cursor.Selection) cursor.Position {
	if s.IsEmpty() || s.IsBackward() {
		return s.Head
	}
	return cursor.Pos(s.Head.Line, cursor.Left(v.LineText(s.Head.Line), s.Head.Col))
}

// AnchorChar returns the position of the character the Visual selection
// started on.
func AnchorChar(v View, s cursor.Selection) cursor.Position {
	if !s.IsBackward() {
		return s.Anchor
	}
	return cursor.Pos(s.Anchor.Line, cursor.Left(v.LineText(s.Anchor.Line), s.Anchor.Col))
}

// ClampNormal keeps a Normal-mode cursor on an existing character.
func ClampNormal(v View, p cursor.Position) cursor.Position {
	line := v.LineText(p.Line)
	n := len([]rune(line))
	if p.Col >= n {
		p.Col = cursor.Left(line, n)
	}
	return p
}
