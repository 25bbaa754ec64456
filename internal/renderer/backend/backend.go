// Package backend provides terminal backend abstraction for the renderer.
package backend

import (
	"errors"
	"strings"

	"github.com/dshills/glance/internal/renderer/core"
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventResize:
		return "resize"
	default:
		return "none"
	}
}

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Resize event fields
	Width, Height int
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlQ
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// KeyEvent builds a key press event.
func KeyEvent(k Key, r rune, mod ModMask) Event {
	return Event{Type: EventKey, Key: k, Rune: r, Mod: mod}
}

// ResizeEvent builds a resize event.
func ResizeEvent(width, height int) Event {
	return Event{Type: EventResize, Width: width, Height: height}
}

// Backend defines the interface for terminal/display backends.
// Implementations handle actual drawing to the terminal or other display surfaces.
type Backend interface {
	// Init initializes the backend for use.
	// For a real terminal this enters raw mode.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	// Must be called when done with the backend.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetCell sets a single cell at the given position.
	// Positions outside the terminal are silently ignored.
	SetCell(x, y int, cell core.Cell)

	// Clear clears the entire screen.
	Clear()

	// Show synchronizes the internal buffer with the actual display.
	// Call this after making changes to flush them to the screen.
	Show()

	// Sync forces a full repaint, used after the display was resized.
	Sync()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// PollEvent waits for and returns the next terminal event.
	// This is a blocking call.
	PollEvent() Event

	// PostEvent posts a synthetic event to the event queue.
	PostEvent(event Event)
}

// ErrInitFailed is returned by a NullBackend configured to fail Init.
var ErrInitFailed = errors.New("backend init failed")

// NullBackend is an in-memory backend for testing.
type NullBackend struct {
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	events        chan Event

	initErr     error
	initialized bool
	shutdowns   int
	shows       int
	syncs       int
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
	}
}

// FailInit makes the next Init call return err.
func (b *NullBackend) FailInit(err error) {
	b.initErr = err
}

func (b *NullBackend) Init() error {
	if b.initErr != nil {
		return b.initErr
	}
	b.allocate()
	b.initialized = true
	return nil
}

func (b *NullBackend) allocate() {
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
}

func (b *NullBackend) Shutdown() {
	b.initialized = false
	b.shutdowns++
}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height && y < len(b.cells) {
		b.cells[y][x] = cell
	}
}

// Cell returns the cell at x, y, or an empty cell outside the grid, for testing.
func (b *NullBackend) Cell(x, y int) core.Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height && y < len(b.cells) {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Clear() {
	empty := core.EmptyCell()
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = empty
		}
	}
}

func (b *NullBackend) Show() { b.shows++ }

func (b *NullBackend) Sync() { b.syncs++ }

func (b *NullBackend) ShowCursor(x, y int) {
	b.cursorX = x
	b.cursorY = y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() {
	b.cursorVisible = false
}

// PollEvent returns the next posted event.
// Resize events change the backend size before they are delivered,
// the way a real terminal has already resized when the event arrives.
func (b *NullBackend) PollEvent() Event {
	ev := <-b.events
	if ev.Type == EventResize {
		b.Resize(ev.Width, ev.Height)
	}
	return ev
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
		// Event dropped if queue is full (non-blocking for testing)
	}
}

// CursorPosition returns the current cursor position for testing.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

// Resize simulates a terminal resize for testing.
// Content is discarded, as it is on a real terminal resize.
func (b *NullBackend) Resize(width, height int) {
	b.width = width
	b.height = height
	b.allocate()
}

// Row returns the text of row y with trailing blanks trimmed, for testing.
func (b *NullBackend) Row(y int) string {
	if y < 0 || y >= len(b.cells) {
		return ""
	}
	return strings.TrimRight(core.StringFromCells(b.cells[y]), " ")
}

// Initialized reports whether Init succeeded and Shutdown has not run since.
func (b *NullBackend) Initialized() bool { return b.initialized }

// ShutdownCount returns how many times Shutdown was called.
func (b *NullBackend) ShutdownCount() int { return b.shutdowns }

// ShowCount returns how many times Show was called.
func (b *NullBackend) ShowCount() int { return b.shows }

// SyncCount returns how many times Sync was called.
func (b *NullBackend) SyncCount() int { return b.syncs }
