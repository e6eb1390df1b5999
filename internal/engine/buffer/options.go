package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the line ending Text writes.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithAsync makes edits and commands complete on a separate goroutine,
// the way a remote or UI-thread surface would.
func WithAsync(async bool) Option {
	return func(b *Buffer) {
		b.async = async
	}
}

// WithViewportHeight sets the number of visible lines.
func WithViewportHeight(height int) Option {
	return func(b *Buffer) {
		if height > 0 {
			b.viewport.Height = height
		}
	}
}

// WithHistoryLimit sets the undo depth.
func WithHistoryLimit(n int) Option {
	return func(b *Buffer) {
		b.historyLimit = n
	}
}

// DetectLineEnding returns the most common line ending in text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n':
			crlf++
			i++
		case text[i] == '\r':
			cr++
		case text[i] == '\n':
			lf++
		}
	}

	switch {
	case crlf > 0 && crlf >= lf && crlf >= cr:
		return LineEndingCRLF
	case cr > 0 && cr >= lf:
		return LineEndingCR
	}
	return LineEndingLF
}
