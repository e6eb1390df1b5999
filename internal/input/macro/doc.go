// Package macro records key events into named registers and plays them
// back through an input handler.
//
// A RecordHook attached to a handler captures every key the handler
// processes while a recording is active:
//
//	rec := macro.NewRecorder()
//	h.Hooks().RegisterNamed(macro.RecordHook{Recorder: rec}, "macro")
//	rec.StartRecording('q')
//	// ... keys ...
//	rec.StopRecording()
//
//	rec.Play(ctx, h, 'q', 1)
//
// Macros are stored in Vim notation, so a recording can be replayed with
// keymode --keys or saved to a TOML file with Save.
package macro
