// Package core provides shared types for the renderer subsystem.
// This package breaks import cycles between renderer, terminal and backend.
package core

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// Position is a zero-based terminal cell coordinate.
// X is the column, Y is the row.
type Position struct {
	X int
	Y int
}

// Origin returns the top-left position.
func Origin() Position {
	return Position{}
}

// String returns the position as "(x, y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Size represents terminal dimensions in character cells.
type Size struct {
	Width  int
	Height int
}

// IsEmpty returns true if the size has no cells.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Clamp returns pos constrained to the size.
// An empty size clamps everything to the origin.
func (s Size) Clamp(pos Position) Position {
	if s.IsEmpty() {
		return Origin()
	}
	if pos.X < 0 {
		pos.X = 0
	} else if pos.X >= s.Width {
		pos.X = s.Width - 1
	}
	if pos.Y < 0 {
		pos.Y = 0
	} else if pos.Y >= s.Height {
		pos.Y = s.Height - 1
	}
	return pos
}

// String returns the size as "WxH".
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Cell represents a single terminal cell.
type Cell struct {
	// Rune is the character to display.
	Rune rune

	// Width is the display width of this cell.
	Width int

	// Combining holds zero-width marks drawn on top of Rune.
	Combining []rune
}

// EmptyCell returns a blank cell.
func EmptyCell() Cell {
	return Cell{
		Rune:  ' ',
		Width: 1,
	}
}

// NewCell creates a cell holding r.
func NewCell(r rune) Cell {
	return Cell{
		Rune:  r,
		Width: RuneWidth(r),
	}
}

// IsEmpty returns true if this is an empty (space) cell.
func (c Cell) IsEmpty() bool {
	return c.Rune == ' ' || c.Rune == 0
}

// IsContinuation returns true if this is a continuation cell.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// ContinuationCell returns a continuation cell for wide characters.
func ContinuationCell() Cell {
	return Cell{}
}

// RuneWidth returns the display width of a rune.
// Control characters occupy no cells.
func RuneWidth(r rune) int {
	if r < 32 || r == 0x7F {
		return 0
	}
	return runewidth.RuneWidth(r)
}

// StringWidth returns the display width of s.
func StringWidth(s string) int {
	w := 0
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w
}

// TabWidth is the distance between tab stops.
const TabWidth = 8

// ExpandTabs replaces each tab in s with spaces up to the next tab stop.
func ExpandTabs(s string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += RuneWidth(r)
	}
	return b.String()
}

// IsCombining reports whether r is a zero-width mark that attaches to the
// rune before it.
func IsCombining(r rune) bool {
	return !unicode.IsControl(r) && runewidth.RuneWidth(r) == 0
}

// Truncate cuts s so that it occupies at most width cells.
// A wide rune that would straddle the edge is dropped entirely.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "")
}

// StringFromCells converts cells back to a string.
func StringFromCells(cells []Cell) string {
	runes := make([]rune, 0, len(cells))
	for _, c := range cells {
		if !c.IsContinuation() && c.Rune != 0 {
			runes = append(runes, c.Rune)
			runes = append(runes, c.Combining...)
		}
	}
	return string(runes)
}
