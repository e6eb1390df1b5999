// Package config loads engine settings from a TOML or YAML file, the
// KEYMODE_* environment variables and built-in defaults, in increasing
// order of precedence:
//
//	defaults < file < environment
//
// A config file may also declare user bindings:
//
//	log_level = "debug"
//	clipboard = true
//
//	[[keymap]]
//	keys = "Q"
//	action = "editor.undo"
//
//	[[keymap]]
//	keys = "gs"
//	lua = "keymode.insert('// ')"
//
// Watch reloads the file when it changes and hands the new Config to a
// callback; the caller decides how to apply it.
package config
