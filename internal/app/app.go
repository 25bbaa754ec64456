// Package app runs a viewing session: it loads a file, takes over the
// terminal, and drives the render/input loop until the user quits.
package app

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/dshills/glance/internal/engine/buffer"
	"github.com/dshills/glance/internal/renderer"
	"github.com/dshills/glance/internal/renderer/backend"
	"github.com/dshills/glance/internal/renderer/core"
	"github.com/dshills/glance/internal/terminal"
)

// FarewellMessage is shown when the user quits.
const FarewellMessage = "Goodbye."

// State is the quit state machine of a session.
type State int

const (
	// StateRunning accepts input and renders the view.
	StateRunning State = iota
	// StateQuitting shows the farewell screen and ends the loop.
	// A session never leaves this state.
	StateQuitting
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateQuitting:
		return "quitting"
	default:
		return "unknown"
	}
}

// Application owns one viewing session at a time.
type Application struct {
	term *terminal.Terminal
	view *renderer.View

	state  State
	cursor core.Position

	logger  *Logger
	metrics *Metrics
	out     io.Writer

	running atomic.Bool
	opts    Options
}

// Options configures the application.
type Options struct {
	// Backend is the terminal device. Required.
	Backend backend.Backend

	// View configures how the buffer is drawn.
	View renderer.ViewOptions

	// Logger receives session logs. Defaults to NullLogger.
	Logger *Logger

	// Output receives the farewell line after the terminal is restored.
	// Nil disables it.
	Output io.Writer
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Backend == nil {
		return nil, &InitError{Component: "terminal", Err: ErrNoBackend}
	}
	if opts.Logger == nil {
		opts.Logger = NullLogger
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}

	return &Application{
		term:   terminal.New(opts.Backend),
		logger: opts.Logger,
		out:    opts.Output,
		state:  StateRunning,
		opts:   opts,
	}, nil
}

// Run loads path and shows it until the user quits.
// A load failure is returned before the terminal is touched.
func (app *Application) Run(path string) error {
	buf, err := buffer.Load(path)
	if err != nil {
		app.logComponentError("buffer", err)
		return err
	}
	app.Logger().Info("loaded %s (%d lines, %s)", path, buf.LineCount(), buf.LineEnding())
	return app.RunBuffer(buf)
}

// RunBuffer shows an already loaded buffer until the user quits.
// The terminal is restored on every exit path, including a panic in the loop.
func (app *Application) RunBuffer(buf *buffer.Buffer) (err error) {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.view = renderer.NewView(buf, app.opts.View)
	app.state = StateRunning
	app.cursor = core.Origin()
	app.metrics = NewMetrics()

	if err := app.term.Initialize(); err != nil {
		app.logComponentError("terminal", err)
		return &InitError{Component: "terminal", Err: err}
	}
	app.Logger().Debug("terminal initialized")

	defer func() {
		if termErr := app.term.Terminate(); termErr != nil {
			app.logComponentError("terminal", termErr)
			if err == nil {
				err = NewComponentError("terminal", "terminate", termErr)
			}
		}
		app.logSummary(err)
		if err == nil && app.state == StateQuitting {
			fmt.Fprintln(app.out, FarewellMessage)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = NewRecoveredPanicError(r, string(debug.Stack()))
		}
	}()

	return app.eventLoop()
}

// State returns the current state of the quit state machine.
func (app *Application) State() State {
	return app.state
}

// Cursor returns the cursor position the loop last synchronized.
func (app *Application) Cursor() core.Position {
	return app.cursor
}

// View returns the view of the current or last session. Nil before the first.
func (app *Application) View() *renderer.View {
	return app.view
}

// IsRunning returns true while a session is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// RequestQuit asks a running session to quit through its normal path.
// Safe to call from another goroutine, e.g. a signal handler.
func (app *Application) RequestQuit() {
	app.term.PostEvent(backend.KeyEvent(backend.KeyCtrlQ, 0, backend.ModCtrl))
}

// Metrics returns the counters of the current or last session.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

func (app *Application) logSummary(err error) {
	s := app.metrics.Snapshot()
	log := app.Logger().WithFields(map[string]any{
		"refreshes": s.Refreshes,
		"redraws":   s.Redraws,
		"keys":      s.Keys,
		"resizes":   s.Resizes,
	})
	if err != nil {
		var pe *RecoveredPanicError
		if errors.As(err, &pe) {
			log.Error("session aborted: %v", pe)
			return
		}
		log.Error("session failed: %v", err)
		return
	}
	log.Info("session ended after %s", s.Uptime.Round(time.Millisecond))
}
