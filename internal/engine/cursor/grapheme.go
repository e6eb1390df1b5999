package cursor

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// boundaries returns the rune columns at which grapheme clusters of line start,
// followed by the line's rune length.
func boundaries(line string) []int {
	cols := make([]int, 0, len(line)+1)
	col := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		cols = append(cols, col)
		col += len(g.Runes())
	}
	return append(cols, col)
}

// Right returns the column of the grapheme after col, clamped to the line end.
func Right(line string, col int) int {
	for _, b := range boundaries(line) {
		if b > col {
			return b
		}
	}
	return runeLen(line)
}

// Left returns the column of the grapheme before col, or 0.
func Left(line string, col int) int {
	prev := 0
	for _, b := range boundaries(line) {
		if b >= col {
			break
		}
		prev = b
	}
	return prev
}

// ByteOffset converts a rune column into a byte offset within line.
func ByteOffset(line string, col int) int {
	off := 0
	for i := 0; i < col && off < len(line); i++ {
		_, size := utf8.DecodeRuneInString(line[off:])
		off += size
	}
	return off
}

// Slice returns the runes of line in columns [from, to).
func Slice(line string, from, to int) string {
	return line[ByteOffset(line, from):ByteOffset(line, to)]
}
