// Package terminal is the single point of contact with the host terminal.
//
// Terminal wraps a backend.Backend with a command queue: drawing and cursor
// operations are recorded and only reach the device when Execute flushes
// them in one batch. The tracked cursor is bounds-checked against the
// device size on every update, so relative moves past an edge stop at the
// edge regardless of how the host terminal treats them.
//
// A Terminal is an owned resource. Initialize acquires it (raw mode on a
// real tty) and Terminate releases it; callers defer Terminate right after
// a successful Initialize. Terminal is not safe for concurrent use, except
// for PostEvent.
package terminal

import (
	"github.com/dshills/glance/internal/renderer/backend"
	"github.com/dshills/glance/internal/renderer/core"
)

// Terminal queues terminal operations and flushes them to a backend.
type Terminal struct {
	backend backend.Backend
	queue   []command

	cursor        core.Position
	cursorVisible bool

	initialized bool
}

// New creates a terminal over the given backend.
// The backend is not touched until Initialize.
func New(b backend.Backend) *Terminal {
	return &Terminal{
		backend:       b,
		cursorVisible: true,
	}
}

// Initialize acquires the device, clears the screen and homes the cursor.
func (t *Terminal) Initialize() error {
	if t.initialized {
		return ErrAlreadyInitialized
	}
	if err := t.backend.Init(); err != nil {
		return &IOError{Op: "initialize", Err: err}
	}
	t.initialized = true
	t.queue = t.queue[:0]
	t.cursor = core.Origin()

	if err := t.Clear(ClearAll); err != nil {
		return err
	}
	if err := t.SetCursorTo(core.Origin()); err != nil {
		return err
	}
	return t.Execute()
}

// Terminate flushes pending output and releases the device.
// It is a no-op when the terminal is not initialized, so it can be
// deferred unconditionally.
func (t *Terminal) Terminate() error {
	if !t.initialized {
		return nil
	}
	err := t.Execute()
	t.backend.Shutdown()
	t.initialized = false
	t.queue = nil
	return err
}

// IsInitialized reports whether the terminal holds the device.
func (t *Terminal) IsInitialized() bool {
	return t.initialized
}

// Clear queues a screen or line clear.
func (t *Terminal) Clear(typ ClearType) error {
	return t.enqueue(clearCmd{typ: typ})
}

// SetCursorTo queues an absolute cursor move.
func (t *Terminal) SetCursorTo(pos core.Position) error {
	return t.enqueue(moveToCmd{pos: pos})
}

// MoveCursor queues a one-cell relative cursor move.
func (t *Terminal) MoveCursor(dir Direction) error {
	return t.enqueue(moveByCmd{dir: dir})
}

// ShowCursor queues making the cursor visible.
func (t *Terminal) ShowCursor() error {
	return t.enqueue(cursorVisibilityCmd{visible: true})
}

// HideCursor queues hiding the cursor.
func (t *Terminal) HideCursor() error {
	return t.enqueue(cursorVisibilityCmd{visible: false})
}

// Print queues text output at the cursor.
func (t *Terminal) Print(text string) error {
	return t.enqueue(printCmd{text: text})
}

// Sync queues a full repaint and re-validates the cursor against the
// current size. Used after the terminal was resized.
func (t *Terminal) Sync() error {
	return t.enqueue(syncCmd{})
}

// ClampCursor queues re-validating the tracked cursor against the size the
// device reports when the queue runs.
func (t *Terminal) ClampCursor() error {
	return t.enqueue(clampCmd{})
}

// Size returns the current terminal dimensions. It is never cached.
func (t *Terminal) Size() (core.Size, error) {
	if !t.initialized {
		return core.Size{}, ErrNotInitialized
	}
	w, h := t.backend.Size()
	return core.Size{Width: w, Height: h}, nil
}

// CursorPosition flushes pending commands and reports where the cursor is.
func (t *Terminal) CursorPosition() (core.Position, error) {
	if err := t.Execute(); err != nil {
		return core.Position{}, err
	}
	return t.cursor, nil
}

// Pending returns a description of each queued command, oldest first.
func (t *Terminal) Pending() []string {
	out := make([]string, len(t.queue))
	for i, cmd := range t.queue {
		out[i] = cmd.String()
	}
	return out
}

// Execute applies every queued command in order and flushes the result
// to the device in a single Show.
func (t *Terminal) Execute() error {
	if !t.initialized {
		return ErrNotInitialized
	}

	w, h := t.backend.Size()
	size := core.Size{Width: w, Height: h}
	for _, cmd := range t.queue {
		cmd.apply(t, size)
	}
	t.queue = t.queue[:0]

	if t.cursorVisible {
		t.backend.ShowCursor(t.cursor.X, t.cursor.Y)
	} else {
		t.backend.HideCursor()
	}
	t.backend.Show()
	return nil
}

// PollEvent blocks until the next input event arrives.
func (t *Terminal) PollEvent() (backend.Event, error) {
	if !t.initialized {
		return backend.Event{}, ErrNotInitialized
	}
	return t.backend.PollEvent(), nil
}

// PostEvent injects a synthetic event into the input queue.
// Safe to call from another goroutine.
func (t *Terminal) PostEvent(ev backend.Event) {
	t.backend.PostEvent(ev)
}

func (t *Terminal) enqueue(cmd command) error {
	if !t.initialized {
		return ErrNotInitialized
	}
	t.queue = append(t.queue, cmd)
	return nil
}
