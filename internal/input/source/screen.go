package source

import (
	"context"
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keymode/internal/input/key"
)

// Screen delivers the key events of a tcell screen. Mouse, paste and
// resize events are dropped; OnResize observes resizes.
type Screen struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	once   sync.Once

	mu       sync.Mutex
	onResize func(width, height int)
}

// NewScreen starts reading events from an initialized screen.
func NewScreen(screen tcell.Screen) *Screen {
	s := &Screen{
		screen: screen,
		events: make(chan tcell.Event, 64),
		quit:   make(chan struct{}),
	}
	go screen.ChannelEvents(s.events, s.quit)
	return s
}

// OnResize sets the callback run for terminal resizes.
func (s *Screen) OnResize(fn func(width, height int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onResize = fn
}

// Next implements Source. It returns io.EOF once the screen stops
// delivering events.
func (s *Screen) Next(ctx context.Context) (key.Event, error) {
	for {
		select {
		case <-ctx.Done():
			return key.Event{}, ctx.Err()
		case <-s.quit:
			return key.Event{}, ErrClosed
		case ev, ok := <-s.events:
			if !ok {
				return key.Event{}, io.EOF
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				k := key.FromTcell(ev)
				if k.Key == key.KeyNone {
					continue
				}
				return k, nil
			case *tcell.EventResize:
				s.mu.Lock()
				fn := s.onResize
				s.mu.Unlock()
				if fn != nil {
					w, h := ev.Size()
					fn(w, h)
				}
			}
		}
	}
}

// Close stops reading events. The screen itself is left to its owner.
func (s *Screen) Close() error {
	s.once.Do(func() { close(s.quit) })
	return nil
}
