package macro

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"unicode"

	"github.com/dshills/keymode/internal/input/key"
)

// Errors returned by the recorder.
var (
	ErrInvalidRegister = errors.New("invalid macro register")
	ErrRecording       = errors.New("already recording")
	ErrEmptyRegister   = errors.New("macro register is empty")
)

// IsValidRegister reports whether r names a macro register: a-z or 0-9.
// Uppercase letters are accepted by StartRecording and append to the
// matching lowercase register.
func IsValidRegister(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// Recorder holds recorded key sequences by register.
type Recorder struct {
	mu         sync.Mutex
	recording  bool
	appending  bool
	register   rune
	events     []key.Event
	registers  map[rune][]key.Event
	lastPlayed rune
}

// NewRecorder creates a recorder with empty registers.
func NewRecorder() *Recorder {
	return &Recorder{registers: make(map[rune][]key.Event)}
}

// StartRecording begins recording into register. An uppercase letter
// appends to the lowercase register.
func (r *Recorder) StartRecording(register rune) error {
	appending := register >= 'A' && register <= 'Z'
	if appending {
		register = unicode.ToLower(register)
	}
	if !IsValidRegister(register) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, register)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return fmt.Errorf("%w into %c", ErrRecording, r.register)
	}
	r.recording = true
	r.appending = appending
	r.register = register
	r.events = nil
	return nil
}

// StopRecording ends the recording, stores it and returns the keys
// recorded since StartRecording. An empty recording leaves the register
// unchanged.
func (r *Recorder) StopRecording() []key.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return nil
	}
	r.recording = false
	events := r.events
	r.events = nil

	if len(events) > 0 {
		if r.appending {
			r.registers[r.register] = append(slices.Clone(r.registers[r.register]), events...)
		} else {
			r.registers[r.register] = slices.Clone(events)
		}
	}
	return events
}

// IsRecording reports whether a recording is active.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// CurrentRegister returns the register being recorded, or 0.
func (r *Recorder) CurrentRegister() rune {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return r.register
	}
	return 0
}

// Record appends ev to the active recording.
func (r *Recorder) Record(ev key.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		r.events = append(r.events, ev)
	}
}

// Get returns a copy of the keys in register.
func (r *Recorder) Get(register rune) []key.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.registers[register])
}

// Set replaces the keys in register. No keys clears it.
func (r *Recorder) Set(register rune, events []key.Event) error {
	if !IsValidRegister(register) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, register)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(events) == 0 {
		delete(r.registers, register)
		return nil
	}
	r.registers[register] = slices.Clone(events)
	return nil
}

// Notation returns the keys in register in Vim notation.
func (r *Recorder) Notation(register rune) string {
	return key.NewSequence(r.Get(register)...).String()
}

// Registers returns the non-empty registers, sorted.
func (r *Recorder) Registers() []rune {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.registers))
}

// LastPlayed returns the register Play last ran, or 0.
func (r *Recorder) LastPlayed() rune {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPlayed
}
