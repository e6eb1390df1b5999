package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/dshills/keymode/internal/config"
	"github.com/dshills/keymode/internal/dispatcher"
	"github.com/dshills/keymode/internal/dispatcher/execctx"
	cursorhandler "github.com/dshills/keymode/internal/dispatcher/handlers/cursor"
	"github.com/dshills/keymode/internal/dispatcher/handlers/editor"
	modehandler "github.com/dshills/keymode/internal/dispatcher/handlers/mode"
	"github.com/dshills/keymode/internal/dispatcher/handlers/view"
	"github.com/dshills/keymode/internal/engine/buffer"
	"github.com/dshills/keymode/internal/input"
	"github.com/dshills/keymode/internal/input/key"
	"github.com/dshills/keymode/internal/input/keymap"
	"github.com/dshills/keymode/internal/input/mode"
	"github.com/dshills/keymode/internal/input/source"
	"github.com/dshills/keymode/internal/input/vim"
	"github.com/dshills/keymode/internal/plugin/lua"
)

// UserSource tags bindings that come from the config file.
const UserSource = "user"

// SessionOptions configures a session.
type SessionOptions struct {
	// Config supplies the engine settings and user keymap. Nil means
	// config.Default().
	Config *config.Config

	// Text is the initial buffer content.
	Text string

	// Logger is the parent logger. Nil discards output.
	Logger *Logger

	// TracerProvider records dispatch spans. Nil disables tracing.
	TracerProvider trace.TracerProvider

	// Clipboard backs the + and * registers. When nil, the system
	// clipboard is used if Config.Clipboard is set.
	Clipboard vim.ClipboardProvider
}

// Session is one editing session: a buffer and everything that
// interprets keys against it.
type Session struct {
	mu sync.Mutex

	id     uuid.UUID
	logger *Logger

	buffer     *buffer.Buffer
	dispatcher *dispatcher.Dispatcher
	table      *keymap.Table
	scripts    *lua.Engine
	state      *execctx.State
	input      *input.Handler

	scriptNames []string
	closed      bool
}

// NewSession builds a session with the default bindings plus the user
// keymap from opts.Config.
func NewSession(opts SessionOptions) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	parent := opts.Logger
	if parent == nil {
		parent = NullLogger
	}

	id := uuid.New()
	s := &Session{
		id:     id,
		logger: parent.WithField("session", id.String()),
	}

	s.buffer = buffer.NewBufferFromString(opts.Text,
		buffer.WithAsync(cfg.AsyncEdits),
		buffer.WithViewportHeight(cfg.ViewportHeight),
	)

	s.dispatcher = dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	s.dispatcher.SetLogger(s.logger.WithComponent("dispatcher"))
	if opts.TracerProvider != nil {
		s.dispatcher.SetTracerProvider(opts.TracerProvider)
	}
	s.dispatcher.RegisterNamespace(modehandler.NewHandler())
	s.dispatcher.RegisterNamespace(cursorhandler.NewHandler())
	s.dispatcher.RegisterNamespace(view.NewHandler())
	s.dispatcher.RegisterNamespace(editor.NewHandler())

	s.scripts = lua.NewEngine(s.dispatcher.Lookup)

	s.table = keymap.NewTable()
	if err := s.table.Add(keymap.DefaultBindings()...); err != nil {
		s.scripts.Close()
		return nil, &InitError{Component: "keymap", Err: err}
	}

	registers := vim.NewRegisterStore()
	switch {
	case opts.Clipboard != nil:
		registers.SetClipboard(opts.Clipboard)
	case cfg.Clipboard:
		if cb := (vim.SystemClipboard{}); cb.Available() {
			registers.SetClipboard(cb)
		} else {
			s.logger.Warn("system clipboard unavailable, + and * stay session-local")
		}
	}
	s.state = execctx.NewState(s.buffer, registers)

	ic := input.DefaultConfig()
	ic.Logger = s.logger.WithComponent("input")
	s.input = input.NewHandler(ic, keymap.NewMatcher(s.table), s.dispatcher, s.state, s.buffer)

	if err := s.ApplyKeymap(cfg); err != nil {
		s.scripts.Close()
		return nil, &InitError{Component: "user keymap", Err: err}
	}

	s.logger.Debug("session started with %d bindings", s.table.Len())
	return s, nil
}

// ApplyKeymap replaces the user bindings and scripted actions with those
// in cfg. A binding that does not parse leaves the previous keymap in
// place. A script that does not compile leaves the previous bindings with
// the scripts compiled so far.
func (s *Session) ApplyKeymap(cfg *config.Config) error {
	bindings, err := cfg.Bindings(UserSource)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	files, err := keymap.NewLoader(cfg.KeymapDirs...).LoadInto(s.table)
	if err != nil {
		return fmt.Errorf("keymap files: %w", err)
	}

	for _, name := range s.scriptNames {
		s.dispatcher.Registry().Unregister(name)
		s.scripts.Remove(name)
	}
	s.scriptNames = s.scriptNames[:0]

	for _, e := range cfg.LuaEntries() {
		name := e.ActionName()
		if err := s.scripts.Add(name, e.Lua); err != nil {
			return fmt.Errorf("keymap %q: %w", e.Keys, err)
		}
		s.scriptNames = append(s.scriptNames, name)
	}
	s.dispatcher.RegisterNamespace(s.scripts)

	for _, b := range bindings {
		if b.Kind != keymap.PatternOperator && !s.dispatcher.Registry().Has(b.Action) {
			s.logger.Warn("binding %q names unknown action %s", b.Keys, b.Action)
		}
	}

	removed := s.table.RemoveSource(UserSource)
	if err := s.table.Override(bindings...); err != nil {
		return err
	}
	s.logger.Debug("user keymap: %d removed, %d added, %d from files, %d scripts", removed, len(bindings), files, len(s.scriptNames))
	return nil
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Logger returns the session logger.
func (s *Session) Logger() *Logger {
	return s.logger
}

// Buffer returns the edited buffer.
func (s *Session) Buffer() *buffer.Buffer {
	return s.buffer
}

// Dispatcher returns the action dispatcher.
func (s *Session) Dispatcher() *dispatcher.Dispatcher {
	return s.dispatcher
}

// Table returns the binding table.
func (s *Session) Table() *keymap.Table {
	return s.table
}

// State returns the interpreter state.
func (s *Session) State() *execctx.State {
	return s.state
}

// Input returns the key handler.
func (s *Session) Input() *input.Handler {
	return s.input
}

// Mode returns the active mode.
func (s *Session) Mode() mode.Mode {
	return s.state.Mode()
}

// Text returns the buffer content.
func (s *Session) Text() string {
	return s.buffer.Text()
}

// HandleKeys feeds a Vim-notation key string such as "dw" or "ihi<Esc>".
func (s *Session) HandleKeys(ctx context.Context, keys string) ([]input.Outcome, error) {
	seq, err := key.ParseSequence(keys)
	if err != nil {
		return nil, err
	}
	return s.input.HandleKeys(ctx, seq.Events...), nil
}

// Run feeds keys from src until it is exhausted or ctx ends.
func (s *Session) Run(ctx context.Context, src source.Source, onKey func(input.Outcome)) error {
	return s.input.Run(ctx, src, onKey)
}

// Close stops the session. Further keys report input.StatusClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.input.Close()
	return s.scripts.Close()
}
