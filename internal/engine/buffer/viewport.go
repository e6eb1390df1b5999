package buffer

// DefaultViewportHeight is the number of visible lines of a new buffer.
const DefaultViewportHeight = 20

// Viewport is the window of lines currently visible.
type Viewport struct {
	Top    int
	Height int
}

// Bottom returns the last line index covered by the viewport.
func (v Viewport) Bottom() int {
	return v.Top + v.Height - 1
}

// Contains reports whether line is visible.
func (v Viewport) Contains(line int) bool {
	return line >= v.Top && line <= v.Bottom()
}

// Viewport returns the current viewport.
func (b *Buffer) Viewport() Viewport {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.viewport
}

// SetViewportTop scrolls so that line is the first visible line.
func (b *Buffer) SetViewportTop(line int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setTopLocked(line)
}

// SetViewportHeight resizes the viewport.
func (b *Buffer) SetViewportHeight(h int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewport.Height = max(h, 1)
	b.scrollToRevealLocked(b.selections[0].Head.Line)
}

func (b *Buffer) setTopLocked(line int) {
	b.viewport.Top = min(max(line, 0), len(b.lines)-1)
}

// visibleLocked returns the number of document lines inside the viewport.
func (b *Buffer) visibleLocked() int {
	return max(min(b.viewport.Height, len(b.lines)-b.viewport.Top), 1)
}

// scrollToRevealLocked scrolls the least amount needed to show line.
func (b *Buffer) scrollToRevealLocked(line int) {
	if b.viewport.Top >= len(b.lines) {
		b.setTopLocked(len(b.lines) - 1)
	}
	switch {
	case line < b.viewport.Top:
		b.setTopLocked(line)
	case line > b.viewport.Bottom():
		b.setTopLocked(line - b.viewport.Height + 1)
	}
}
