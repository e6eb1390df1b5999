package config

import (
	"fmt"
	"strconv"
)

// Environment variables that override file settings.
const (
	EnvLogLevel       = "KEYMODE_LOG_LEVEL"
	EnvClipboard      = "KEYMODE_CLIPBOARD"
	EnvAsyncEdits     = "KEYMODE_ASYNC_EDITS"
	EnvViewportHeight = "KEYMODE_VIEWPORT_HEIGHT"
)

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg with the KEYMODE_* variables that are set.
// Empty values count as set.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvClipboard); ok {
		b, err := parseBool(EnvClipboard, v)
		if err != nil {
			return err
		}
		cfg.Clipboard = b
	}
	if v, ok := lookup(EnvAsyncEdits); ok {
		b, err := parseBool(EnvAsyncEdits, v)
		if err != nil {
			return err
		}
		cfg.AsyncEdits = b
	}
	if v, ok := lookup(EnvViewportHeight); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, EnvViewportHeight, v)
		}
		cfg.ViewportHeight = n
	}
	return nil
}

func parseBool(name, v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidValue, name, v)
	}
	return b, nil
}
