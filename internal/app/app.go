// Package app wires the engine together. A Session owns one buffer and
// everything that interprets keys against it. An Application loads the
// configuration, keeps it current while the file changes, and hands the
// result to every live session.
package app

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/dshills/keymode/internal/config"
	"github.com/dshills/keymode/internal/input/vim"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML or YAML config file. Empty means defaults
	// plus the environment.
	ConfigPath string

	// Watch reloads the config file when it changes.
	Watch bool

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// TracerProvider records dispatch spans for every session.
	TracerProvider trace.TracerProvider

	// Clipboard overrides the clipboard provider for every session.
	Clipboard vim.ClipboardProvider
}

// Application owns the configuration and the live sessions.
type Application struct {
	mu sync.RWMutex

	opts     Options
	config   *config.Config
	logger   *Logger
	sessions map[uuid.UUID]*Session
	watcher  *config.Watcher
	closed   bool
}

// New loads the configuration and, when asked, starts watching it.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	app := &Application{
		opts:   opts,
		config: cfg,
		logger: NewLogger(LoggerConfig{
			Level:  ParseLogLevel(level),
			Output: opts.LogOutput,
			Prefix: "keymode",
		}),
		sessions: make(map[uuid.UUID]*Session),
	}

	if opts.Watch {
		if opts.ConfigPath == "" {
			return nil, &InitError{Component: "config watcher", Err: ErrNoConfigPath}
		}
		w, err := config.Watch(opts.ConfigPath, config.DefaultDebounce, app.onReload)
		if err != nil {
			return nil, &InitError{Component: "config watcher", Err: err}
		}
		app.watcher = w
	}

	app.logger.Debug("config loaded from %q (%d user bindings)", opts.ConfigPath, len(cfg.Keymap))
	return app, nil
}

// Config returns the current configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// NewSession starts a session over text with the current configuration.
func (app *Application) NewSession(text string) (*Session, error) {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return nil, ErrClosed
	}

	s, err := NewSession(SessionOptions{
		Config:         app.config,
		Text:           text,
		Logger:         app.logger,
		TracerProvider: app.opts.TracerProvider,
		Clipboard:      app.opts.Clipboard,
	})
	if err != nil {
		return nil, err
	}
	app.sessions[s.ID()] = s
	return s, nil
}

// Session returns the live session with the given id.
func (app *Application) Session(id uuid.UUID) (*Session, bool) {
	app.mu.RLock()
	defer app.mu.RUnlock()
	s, ok := app.sessions[id]
	return s, ok
}

// Sessions returns the live sessions.
func (app *Application) Sessions() []*Session {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return slices.Collect(maps.Values(app.sessions))
}

// CloseSession closes and forgets a session.
func (app *Application) CloseSession(id uuid.UUID) error {
	app.mu.Lock()
	s, ok := app.sessions[id]
	delete(app.sessions, id)
	app.mu.Unlock()
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrClosed)
	}
	return s.Close()
}

// Reload reads the config file again and applies it.
func (app *Application) Reload() error {
	if app.opts.ConfigPath == "" {
		return ErrNoConfigPath
	}
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return err
	}
	return app.apply(cfg)
}

// onReload is the watcher callback. A broken file keeps the previous
// configuration.
func (app *Application) onReload(cfg *config.Config, err error) {
	if err != nil {
		app.logger.Warn("config reload: %v", err)
		return
	}
	if err := app.apply(cfg); err != nil {
		app.logger.Warn("config reload: %v", err)
		return
	}
	app.logger.Info("config reloaded (%d user bindings)", len(cfg.Keymap))
}

// apply makes cfg current and re-registers the user keymap of every
// session.
func (app *Application) apply(cfg *config.Config) error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return ErrClosed
	}
	app.config = cfg
	sessions := slices.Collect(maps.Values(app.sessions))
	app.mu.Unlock()

	if app.opts.LogLevel == "" {
		app.logger.SetLevel(ParseLogLevel(cfg.LogLevel))
	}

	var errs []error
	for _, s := range sessions {
		if err := s.ApplyKeymap(cfg); err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", s.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// Close stops the watcher and every session.
func (app *Application) Close() error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return nil
	}
	app.closed = true
	sessions := slices.Collect(maps.Values(app.sessions))
	clear(app.sessions)
	w := app.watcher
	app.mu.Unlock()

	var first error
	if w != nil {
		first = w.Stop()
	}
	for _, s := range sessions {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
