package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/glance/internal/engine/buffer"
	"github.com/dshills/glance/internal/renderer"
	"github.com/dshills/glance/internal/renderer/backend"
	"github.com/dshills/glance/internal/renderer/core"
)

func newTestApp(t *testing.T, b backend.Backend) (*Application, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	app, err := New(Options{
		Backend: b,
		View:    renderer.DefaultViewOptions(),
		Output:  &out,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return app, &out
}

// startSession sets up a session without entering the loop so handlers
// can be driven one event at a time.
func startSession(t *testing.T, width, height int, lines ...string) (*Application, *backend.NullBackend) {
	t.Helper()
	b := backend.NewNullBackend(width, height)
	app, _ := newTestApp(t, b)

	app.view = renderer.NewView(buffer.NewBuffer(lines...), app.opts.View)
	app.metrics = NewMetrics()
	if err := app.term.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { _ = app.term.Terminate() })
	return app, b
}

func key(k backend.Key) backend.Event {
	return backend.KeyEvent(k, 0, backend.ModNone)
}

func ctrlQ() backend.Event {
	return backend.KeyEvent(backend.KeyCtrlQ, 0, backend.ModCtrl)
}

func TestNewRequiresBackend(t *testing.T) {
	_, err := New(Options{})
	if !errors.Is(err, ErrNoBackend) {
		t.Fatalf("expected ErrNoBackend, got %v", err)
	}
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Errorf("expected InitError, got %T", err)
	}
}

func TestRunBufferQuitsOnCtrlQ(t *testing.T) {
	b := backend.NewNullBackend(20, 5)
	app, out := newTestApp(t, b)
	b.PostEvent(ctrlQ())

	if err := app.RunBuffer(buffer.NewBuffer("abc", "de")); err != nil {
		t.Fatalf("RunBuffer failed: %v", err)
	}

	if app.State() != StateQuitting {
		t.Errorf("expected quitting state, got %s", app.State())
	}
	if got := b.Row(0); got != FarewellMessage {
		t.Errorf("expected farewell on row 0, got %q", got)
	}
	for y := 1; y < 5; y++ {
		if got := b.Row(y); got != "" {
			t.Errorf("screen should be cleared, row %d = %q", y, got)
		}
	}
	x, y, visible := b.CursorPosition()
	if !visible || x != 0 || y != 1 {
		t.Errorf("expected visible cursor at (0, 1), got (%d, %d, %v)", x, y, visible)
	}
	if b.ShutdownCount() != 1 {
		t.Errorf("terminal should be restored exactly once, got %d", b.ShutdownCount())
	}
	if got := out.String(); got != FarewellMessage+"\n" {
		t.Errorf("expected farewell on output, got %q", got)
	}
	if app.IsRunning() {
		t.Error("application should not be running after RunBuffer returns")
	}
}

func TestRunBufferRendersBeforeInput(t *testing.T) {
	b := backend.NewNullBackend(10, 3)
	b.PostEvent(ctrlQ())

	var rows []string
	rec := &pollRecorder{NullBackend: b, onPoll: func() {
		rows = []string{b.Row(0), b.Row(1), b.Row(2)}
	}}
	app, _ := newTestApp(t, rec)

	if err := app.RunBuffer(buffer.NewBuffer("abc", "de")); err != nil {
		t.Fatalf("RunBuffer failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("loop never polled for input")
	}
	want := []string{"abc", "de", "~"}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d: expected %q, got %q", i, want[i], rows[i])
		}
	}
}

func TestRunLoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello\nworld\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := backend.NewNullBackend(10, 4)
	app, out := newTestApp(t, b)
	b.PostEvent(ctrlQ())

	if err := app.Run(path); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if app.View().Buffer().LineCount() != 2 {
		t.Errorf("expected 2 lines loaded, got %d", app.View().Buffer().LineCount())
	}
	if !strings.Contains(out.String(), FarewellMessage) {
		t.Errorf("expected farewell, got %q", out.String())
	}
}

func TestRunDirectoryFailsBeforeInit(t *testing.T) {
	b := backend.NewNullBackend(10, 4)
	app, out := newTestApp(t, b)

	err := app.Run(t.TempDir())
	if !errors.Is(err, buffer.ErrIsDirectory) {
		t.Fatalf("expected ErrIsDirectory, got %v", err)
	}
	if b.ShowCount() != 0 || b.ShutdownCount() != 0 {
		t.Error("terminal must not be touched when loading fails")
	}
	if out.Len() != 0 {
		t.Errorf("no farewell expected, got %q", out.String())
	}
}

func TestRunMissingFile(t *testing.T) {
	b := backend.NewNullBackend(10, 4)
	app, _ := newTestApp(t, b)

	err := app.Run(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if buffer.IsDirectoryError(err) {
		t.Error("missing file must not look like a directory")
	}
}

func TestRunBufferInitFailure(t *testing.T) {
	b := backend.NewNullBackend(10, 4)
	b.FailInit(backend.ErrInitFailed)
	app, out := newTestApp(t, b)

	err := app.RunBuffer(buffer.NewBuffer("x"))
	if !errors.Is(err, backend.ErrInitFailed) {
		t.Fatalf("expected ErrInitFailed, got %v", err)
	}
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "terminal" {
		t.Errorf("expected terminal InitError, got %#v", err)
	}
	if b.ShutdownCount() != 0 {
		t.Error("a backend that never initialized must not be shut down")
	}
	if out.Len() != 0 {
		t.Error("no farewell after a failed start")
	}
}

func TestRunBufferAlreadyRunning(t *testing.T) {
	app, _ := newTestApp(t, backend.NewNullBackend(10, 4))
	app.running.Store(true)

	if err := app.RunBuffer(buffer.NewBuffer()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestRunBufferRecoversPanic(t *testing.T) {
	b := backend.NewNullBackend(10, 4)
	app, out := newTestApp(t, &panicBackend{NullBackend: b})

	err := app.RunBuffer(buffer.NewBuffer("x"))
	var pe *RecoveredPanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected RecoveredPanicError, got %v", err)
	}
	if pe.Summary() != "panic: input exploded" {
		t.Errorf("unexpected summary %q", pe.Summary())
	}
	if b.ShutdownCount() != 1 {
		t.Error("terminal should be restored after a panic")
	}
	if out.Len() != 0 {
		t.Error("no farewell after a panic")
	}
}

func TestRunBufferArrowKeysThenQuit(t *testing.T) {
	b := backend.NewNullBackend(10, 4)
	app, _ := newTestApp(t, b)

	b.PostEvent(key(backend.KeyRight))
	b.PostEvent(key(backend.KeyDown))
	b.PostEvent(backend.KeyEvent(backend.KeyRune, 'x', backend.ModNone))
	b.PostEvent(ctrlQ())

	if err := app.RunBuffer(buffer.NewBuffer("abc")); err != nil {
		t.Fatalf("RunBuffer failed: %v", err)
	}

	s := app.Metrics().Snapshot()
	if s.Keys != 3 {
		t.Errorf("expected 3 handled keys, got %d", s.Keys)
	}
	if s.Ignored != 1 {
		t.Errorf("expected 1 ignored event, got %d", s.Ignored)
	}
	if s.Redraws != 1 {
		t.Errorf("view should be drawn once without a resize, got %d", s.Redraws)
	}
	if app.Cursor() != core.Origin() {
		t.Errorf("quit should reset the cursor, got %s", app.Cursor())
	}
}

func TestRunBufferResizeRedraws(t *testing.T) {
	b := backend.NewNullBackend(10, 4)
	app, _ := newTestApp(t, b)

	b.PostEvent(backend.ResizeEvent(6, 2))
	b.PostEvent(ctrlQ())

	if err := app.RunBuffer(buffer.NewBuffer("abc")); err != nil {
		t.Fatalf("RunBuffer failed: %v", err)
	}

	s := app.Metrics().Snapshot()
	if s.Resizes != 1 || s.Redraws != 2 || s.Refreshes != 3 {
		t.Errorf("unexpected counters %+v", s)
	}
	if b.SyncCount() != 1 {
		t.Errorf("resize should repaint the device, got %d syncs", b.SyncCount())
	}
}

func TestRequestQuit(t *testing.T) {
	b := backend.NewNullBackend(10, 4)
	app, out := newTestApp(t, b)

	app.RequestQuit()
	if err := app.RunBuffer(buffer.NewBuffer("x")); err != nil {
		t.Fatalf("RunBuffer failed: %v", err)
	}
	if out.String() != FarewellMessage+"\n" {
		t.Errorf("expected normal quit path, got %q", out.String())
	}
}

func TestArrowKeysMoveCursor(t *testing.T) {
	app, _ := startSession(t, 10, 5, "abc")

	steps := []struct {
		key  backend.Key
		want core.Position
	}{
		{backend.KeyRight, core.Position{X: 1, Y: 0}},
		{backend.KeyRight, core.Position{X: 2, Y: 0}},
		{backend.KeyDown, core.Position{X: 2, Y: 1}},
		{backend.KeyLeft, core.Position{X: 1, Y: 1}},
		{backend.KeyUp, core.Position{X: 1, Y: 0}},
	}

	for i, step := range steps {
		if err := app.handleBackendEvent(key(step.key)); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if app.Cursor() != step.want {
			t.Errorf("step %d: expected %s, got %s", i, step.want, app.Cursor())
		}
	}
}

func TestArrowKeysStopAtEdges(t *testing.T) {
	app, _ := startSession(t, 2, 2)

	moves := []backend.Key{
		backend.KeyLeft, backend.KeyUp,
		backend.KeyRight, backend.KeyRight, backend.KeyRight,
		backend.KeyDown, backend.KeyDown,
	}
	for _, k := range moves {
		if err := app.handleBackendEvent(key(k)); err != nil {
			t.Fatalf("%v: %v", k, err)
		}
	}
	if app.Cursor() != (core.Position{X: 1, Y: 1}) {
		t.Errorf("expected cursor pinned at (1, 1), got %s", app.Cursor())
	}
}

func TestQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   backend.Event
		quit bool
	}{
		{"ctrl-q key", ctrlQ(), true},
		{"ctrl with rune q", backend.KeyEvent(backend.KeyRune, 'q', backend.ModCtrl), true},
		{"plain q", backend.KeyEvent(backend.KeyRune, 'q', backend.ModNone), false},
		{"ctrl-shift-q key", backend.KeyEvent(backend.KeyCtrlQ, 'Q', backend.ModCtrl|backend.ModShift), false},
		{"ctrl with rune Q", backend.KeyEvent(backend.KeyRune, 'Q', backend.ModCtrl), false},
		{"ctrl-alt-q", backend.KeyEvent(backend.KeyRune, 'q', backend.ModCtrl|backend.ModAlt), false},
		{"ctrl-q without modifier", key(backend.KeyCtrlQ), false},
		{"unmapped key", key(backend.KeyNone), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isQuitKey(tt.ev); got != tt.quit {
				t.Errorf("isQuitKey = %v, want %v", got, tt.quit)
			}
		})
	}
}

func TestQuitResetsCursor(t *testing.T) {
	app, _ := startSession(t, 10, 5, "abc")

	app.handleBackendEvent(key(backend.KeyDown))
	app.handleBackendEvent(key(backend.KeyRight))
	app.handleBackendEvent(ctrlQ())

	if app.State() != StateQuitting {
		t.Fatalf("expected quitting, got %s", app.State())
	}
	if app.Cursor() != core.Origin() {
		t.Errorf("expected origin, got %s", app.Cursor())
	}
}

func TestKeysIgnoredWhileQuitting(t *testing.T) {
	app, _ := startSession(t, 10, 5, "abc")
	app.handleBackendEvent(ctrlQ())

	app.handleBackendEvent(key(backend.KeyRight))
	app.handleBackendEvent(key(backend.KeyDown))

	if app.State() != StateQuitting {
		t.Error("quitting must never revert to running")
	}
	if app.Cursor() != core.Origin() {
		t.Errorf("cursor must not move after quit, got %s", app.Cursor())
	}
}

func TestResizeClampsCursorAndMarksDirty(t *testing.T) {
	app, b := startSession(t, 10, 10, "abc")

	for i := 0; i < 8; i++ {
		app.handleBackendEvent(key(backend.KeyRight))
		app.handleBackendEvent(key(backend.KeyDown))
	}
	if err := app.refreshScreen(); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if app.View().NeedsRender() {
		t.Fatal("view should be clean after a refresh")
	}

	b.Resize(4, 3)
	if err := app.handleBackendEvent(backend.ResizeEvent(4, 3)); err != nil {
		t.Fatalf("resize failed: %v", err)
	}

	if app.Cursor() != (core.Position{X: 3, Y: 2}) {
		t.Errorf("expected cursor clamped to (3, 2), got %s", app.Cursor())
	}
	if !app.View().NeedsRender() {
		t.Error("resize should mark the view dirty")
	}

	if err := app.refreshScreen(); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	want := []string{"abc", "~", "~"}
	for row, w := range want {
		if got := b.Row(row); got != w {
			t.Errorf("row %d: expected %q, got %q", row, w, got)
		}
	}
}

func TestRefreshScreenPlacesCursor(t *testing.T) {
	app, b := startSession(t, 10, 3, "abc", "de")

	app.handleBackendEvent(key(backend.KeyDown))
	app.handleBackendEvent(key(backend.KeyRight))
	if err := app.refreshScreen(); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	x, y, visible := b.CursorPosition()
	if !visible || x != 1 || y != 1 {
		t.Errorf("expected visible cursor at (1, 1), got (%d, %d, %v)", x, y, visible)
	}
	if b.Row(1) != "de" {
		t.Errorf("expected row 1 %q, got %q", "de", b.Row(1))
	}
}

func TestStateString(t *testing.T) {
	if StateRunning.String() != "running" || StateQuitting.String() != "quitting" {
		t.Error("unexpected state names")
	}
	if State(7).String() != "unknown" {
		t.Error("unknown state should say so")
	}
}

// pollRecorder calls onPoll before each poll.
type pollRecorder struct {
	*backend.NullBackend
	onPoll func()
	polled bool
}

func (p *pollRecorder) PollEvent() backend.Event {
	if !p.polled {
		p.polled = true
		p.onPoll()
	}
	return p.NullBackend.PollEvent()
}

// panicBackend panics on the first poll.
type panicBackend struct {
	*backend.NullBackend
}

func (p *panicBackend) PollEvent() backend.Event {
	panic("input exploded")
}
