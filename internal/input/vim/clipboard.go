package vim

import "github.com/atotto/clipboard"

// SystemClipboard backs the + and * registers with the OS clipboard.
type SystemClipboard struct{}

// Get returns the current clipboard content.
func (SystemClipboard) Get() (string, error) {
	return clipboard.ReadAll()
}

// Set sets the clipboard content.
func (SystemClipboard) Set(content string) error {
	return clipboard.WriteAll(content)
}

// Available reports whether a clipboard utility is present on this system.
func (SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}
