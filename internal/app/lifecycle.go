package app

import (
	"time"

	"github.com/dshills/glance/internal/renderer/core"
	"github.com/dshills/glance/internal/terminal"
)

// refreshScreen draws one frame. The cursor is hidden while drawing and
// shown again before the frame is flushed.
func (app *Application) refreshScreen() error {
	if err := app.term.HideCursor(); err != nil {
		return NewComponentError("terminal", "hide cursor", err)
	}

	if app.state == StateQuitting {
		return app.drawFarewell()
	}

	start := time.Now()
	redraw := app.view.NeedsRender()
	if err := app.view.Render(app.term); err != nil {
		return NewComponentError("view", "render", err)
	}
	if err := app.term.SetCursorTo(app.cursor); err != nil {
		return NewComponentError("terminal", "place cursor", err)
	}
	if err := app.term.ShowCursor(); err != nil {
		return NewComponentError("terminal", "show cursor", err)
	}
	if err := app.term.Execute(); err != nil {
		return NewComponentError("terminal", "execute", err)
	}
	app.metrics.RecordRefresh(redraw, time.Since(start))
	return nil
}

// drawFarewell replaces the view with the farewell line.
func (app *Application) drawFarewell() error {
	steps := []struct {
		action string
		run    func() error
	}{
		{"clear", func() error { return app.term.Clear(terminal.ClearAll) }},
		{"home cursor", func() error { return app.term.SetCursorTo(core.Origin()) }},
		{"print farewell", func() error { return app.term.Print(FarewellMessage + "\r\n") }},
		{"show cursor", app.term.ShowCursor},
		{"execute", app.term.Execute},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return NewComponentError("terminal", step.action, err)
		}
	}
	app.metrics.RecordRefresh(false, 0)
	return nil
}

// quit resets the cursor and moves the session to StateQuitting.
func (app *Application) quit() {
	app.Logger().Debug("quit requested at %s", app.cursor)
	app.cursor = core.Origin()
	app.state = StateQuitting
}
