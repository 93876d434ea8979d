package gridshell

import (
	"github.com/mattn/go-runewidth"
	"github.com/unilibs/uniwidth"
)

// RuneCells returns the display width of r: 2 for wide characters (CJK, emoji), 1 for normal,
// 0 for zero-width runes (combining marks, control chars) and anything wider than 2.
func RuneCells(r rune) int {
	w := uniwidth.RuneWidth(r)
	if w < 0 || w > 2 {
		return 0
	}
	return w
}

// StringCells returns the total display width of a string (sum of rune widths).
func StringCells(s string) int {
	n := 0
	for _, r := range s {
		n += RuneCells(r)
	}
	return n
}

// Widther measures display cells with an optional ambiguous-width policy.
// With AmbiguousWide set, East Asian ambiguous runes take two cells (ambiwidth=double).
type Widther struct {
	AmbiguousWide bool
}

// Rune returns the display width of r under the configured policy.
func (w Widther) Rune(r rune) int {
	n := RuneCells(r)
	if w.AmbiguousWide && n == 1 && runewidth.IsAmbiguousWidth(r) {
		return 2
	}
	return n
}

// String returns the display width of s under the configured policy.
func (w Widther) String(s string) int {
	n := 0
	for _, r := range s {
		n += w.Rune(r)
	}
	return n
}
