package terminal

import (
	"fmt"

	"github.com/dshills/glance/internal/renderer/core"
)

// ClearType selects what a Clear command erases.
type ClearType int

const (
	// ClearAll erases the whole screen.
	ClearAll ClearType = iota
	// ClearCurrentLine erases the row the cursor is on.
	ClearCurrentLine
)

// String returns the clear type name.
func (c ClearType) String() string {
	switch c {
	case ClearAll:
		return "all"
	case ClearCurrentLine:
		return "current-line"
	default:
		return "unknown"
	}
}

// Direction is a one-cell relative cursor move.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionLeft
	DirectionRight
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "unknown"
	}
}

// delta returns the column/row offset of a one-cell move.
func (d Direction) delta() (dx, dy int) {
	switch d {
	case DirectionUp:
		return 0, -1
	case DirectionDown:
		return 0, 1
	case DirectionLeft:
		return -1, 0
	case DirectionRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// command is a queued terminal operation.
// Commands run in queue order during Execute against the size
// the device reports at that moment.
type command interface {
	apply(t *Terminal, size core.Size)
	fmt.Stringer
}

type clearCmd struct {
	typ ClearType
}

func (c clearCmd) apply(t *Terminal, size core.Size) {
	switch c.typ {
	case ClearAll:
		t.backend.Clear()
	case ClearCurrentLine:
		empty := core.EmptyCell()
		for x := 0; x < size.Width; x++ {
			t.backend.SetCell(x, t.cursor.Y, empty)
		}
	}
}

func (c clearCmd) String() string { return "clear(" + c.typ.String() + ")" }

type moveToCmd struct {
	pos core.Position
}

func (c moveToCmd) apply(t *Terminal, size core.Size) {
	t.cursor = size.Clamp(c.pos)
}

func (c moveToCmd) String() string { return "move-to" + c.pos.String() }

type moveByCmd struct {
	dir Direction
}

func (c moveByCmd) apply(t *Terminal, size core.Size) {
	dx, dy := c.dir.delta()
	t.cursor = size.Clamp(core.Position{X: t.cursor.X + dx, Y: t.cursor.Y + dy})
}

func (c moveByCmd) String() string { return "move(" + c.dir.String() + ")" }

type printCmd struct {
	text string
}

// apply writes text cell by cell from the cursor.
// Text past the right edge is dropped, never wrapped.
func (c printCmd) apply(t *Terminal, size core.Size) {
	if size.IsEmpty() {
		return
	}
	x, y := t.cursor.X, t.cursor.Y

	// last is the cell most recently drawn by this command, so combining
	// marks can be attached to it.
	var last core.Cell
	lastX := -1
	for _, r := range c.text {
		switch r {
		case '\r':
			x = 0
			lastX = -1
			continue
		case '\n':
			if y < size.Height-1 {
				y++
			}
			lastX = -1
			continue
		}

		if core.IsCombining(r) {
			if lastX >= 0 {
				last.Combining = append(last.Combining, r)
				t.backend.SetCell(lastX, y, last)
			}
			continue
		}

		w := core.RuneWidth(r)
		if w == 0 || x+w > size.Width {
			lastX = -1
			continue
		}
		last = core.NewCell(r)
		lastX = x
		t.backend.SetCell(x, y, last)
		if w == 2 {
			t.backend.SetCell(x+1, y, core.ContinuationCell())
		}
		x += w
	}
	t.cursor = size.Clamp(core.Position{X: x, Y: y})
}

func (c printCmd) String() string { return fmt.Sprintf("print(%q)", c.text) }

type cursorVisibilityCmd struct {
	visible bool
}

func (c cursorVisibilityCmd) apply(t *Terminal, _ core.Size) {
	t.cursorVisible = c.visible
}

func (c cursorVisibilityCmd) String() string {
	if c.visible {
		return "show-cursor"
	}
	return "hide-cursor"
}

type syncCmd struct{}

func (syncCmd) apply(t *Terminal, size core.Size) {
	t.backend.Sync()
	t.cursor = size.Clamp(t.cursor)
}

func (syncCmd) String() string { return "sync" }

type clampCmd struct{}

func (clampCmd) apply(t *Terminal, size core.Size) {
	t.cursor = size.Clamp(t.cursor)
}

func (clampCmd) String() string { return "clamp-cursor" }
