package source

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/dshills/keymode/internal/input/key"
)

// ErrClosed is returned by Next once a source has been closed.
var ErrClosed = errors.New("key source closed")

// Source delivers key events one at a time in arrival order.
//
// Next blocks until an event is available. It returns io.EOF when the
// source is exhausted and ctx.Err() when ctx ends first.
type Source interface {
	Next(ctx context.Context) (key.Event, error)
	Close() error
}

// Slice replays a fixed list of events.
type Slice struct {
	mu     sync.Mutex
	events []key.Event
	next   int
	closed bool
}

// NewSlice creates a source that replays events in order.
func NewSlice(events ...key.Event) *Slice {
	return &Slice{events: events}
}

// Parse creates a source replaying a Vim-notation key string such as
// "ydd" or "ihello<Esc>".
func Parse(keys string) (*Slice, error) {
	seq, err := key.ParseSequence(keys)
	if err != nil {
		return nil, err
	}
	return NewSlice(seq.Events...), nil
}

// Next implements Source.
func (s *Slice) Next(ctx context.Context) (key.Event, error) {
	if err := ctx.Err(); err != nil {
		return key.Event{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return key.Event{}, ErrClosed
	case s.next >= len(s.events):
		return key.Event{}, io.EOF
	}
	ev := s.events[s.next]
	s.next++
	return ev, nil
}

// Remaining returns the number of events not yet delivered.
func (s *Slice) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events) - s.next
}

// Close implements Source.
func (s *Slice) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Channel delivers events sent by another goroutine.
type Channel struct {
	events chan key.Event
	done   chan struct{}
	once   sync.Once
}

// NewChannel creates a channel source buffering up to size events.
func NewChannel(size int) *Channel {
	return &Channel{
		events: make(chan key.Event, size),
		done:   make(chan struct{}),
	}
}

// Send queues ev, blocking while the buffer is full. It returns false if
// the source is closed or ctx ends first.
func (c *Channel) Send(ctx context.Context, ev key.Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// Next implements Source. Events queued before Close are still delivered;
// after that Next returns io.EOF.
func (c *Channel) Next(ctx context.Context) (key.Event, error) {
	select {
	case ev := <-c.events:
		return ev, nil
	default:
	}
	select {
	case ev := <-c.events:
		return ev, nil
	case <-c.done:
		return key.Event{}, io.EOF
	case <-ctx.Done():
		return key.Event{}, ctx.Err()
	}
}

// Close implements Source.
func (c *Channel) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}
