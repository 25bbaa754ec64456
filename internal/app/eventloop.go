package app

import (
	"github.com/dshills/glance/internal/renderer/backend"
	"github.com/dshills/glance/internal/terminal"
)

// eventLoop is the main application loop.
// Each iteration refreshes the screen, then blocks for one event.
func (app *Application) eventLoop() error {
	for {
		if err := app.refreshScreen(); err != nil {
			return err
		}
		if app.state == StateQuitting {
			return nil
		}

		ev, err := app.term.PollEvent()
		if err != nil {
			return NewComponentError("terminal", "poll event", err)
		}
		if err := app.handleBackendEvent(ev); err != nil {
			return err
		}
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		return app.handleResize(ev)
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	default:
		app.metrics.RecordIgnored()
		return nil
	}
}

// handleResize marks the view for a full redraw and pulls the cursor back
// inside the new bounds.
func (app *Application) handleResize(ev backend.Event) error {
	app.metrics.RecordResize()
	app.Logger().Debug("resize to %dx%d", ev.Width, ev.Height)

	app.view.SetNeedsRender(true)
	if err := app.term.Sync(); err != nil {
		return NewComponentError("terminal", "sync", err)
	}
	if err := app.term.ClampCursor(); err != nil {
		return NewComponentError("terminal", "clamp cursor", err)
	}
	return app.syncCursor()
}

// handleKeyEvent processes keyboard input events.
// Keys are only acted on while running.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	if app.state != StateRunning {
		app.metrics.RecordIgnored()
		return nil
	}

	if isQuitKey(ev) {
		app.metrics.RecordKey()
		app.quit()
		return nil
	}

	dir, ok := arrowDirection(ev.Key)
	if !ok {
		app.metrics.RecordIgnored()
		return nil
	}
	app.metrics.RecordKey()

	if err := app.term.MoveCursor(dir); err != nil {
		return NewComponentError("terminal", "move cursor", err)
	}
	return app.syncCursor()
}

// syncCursor replaces the stored cursor with the position the terminal
// reports after flushing.
func (app *Application) syncCursor() error {
	pos, err := app.term.CursorPosition()
	if err != nil {
		return NewComponentError("terminal", "cursor position", err)
	}
	app.cursor = pos
	return nil
}

// isQuitKey reports whether ev is Ctrl+Q with no other modifier. Terminals
// deliver it either as the control key or as 'q' with the Ctrl modifier.
func isQuitKey(ev backend.Event) bool {
	if ev.Mod != backend.ModCtrl {
		return false
	}
	return ev.Key == backend.KeyCtrlQ || (ev.Key == backend.KeyRune && ev.Rune == 'q')
}

// arrowDirection maps an arrow key to a cursor direction.
func arrowDirection(k backend.Key) (terminal.Direction, bool) {
	switch k {
	case backend.KeyUp:
		return terminal.DirectionUp, true
	case backend.KeyDown:
		return terminal.DirectionDown, true
	case backend.KeyLeft:
		return terminal.DirectionLeft, true
	case backend.KeyRight:
		return terminal.DirectionRight, true
	default:
		return 0, false
	}
}
