package backend

import (
	"errors"
	"testing"

	"github.com/dshills/glance/internal/renderer/core"
)

func TestNullBackendInit(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size (80, 24), got (%d, %d)", w, h)
	}
	if !b.Initialized() {
		t.Error("backend should report initialized")
	}
}

func TestNullBackendFailInit(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.FailInit(ErrInitFailed)

	if err := b.Init(); !errors.Is(err, ErrInitFailed) {
		t.Fatalf("expected ErrInitFailed, got %v", err)
	}
	if b.Initialized() {
		t.Error("failed Init should leave backend uninitialized")
	}
}

func TestNullBackendShutdown(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()
	b.Shutdown()

	if b.Initialized() {
		t.Error("backend should not be initialized after Shutdown")
	}
	if b.ShutdownCount() != 1 {
		t.Errorf("expected 1 shutdown, got %d", b.ShutdownCount())
	}
}

func TestNullBackendSetCell(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	cell := core.NewCell('X')
	b.SetCell(10, 5, cell)

	got := b.Cell(10, 5)
	if got.Rune != cell.Rune || got.Width != cell.Width {
		t.Errorf("cell mismatch: expected %+v, got %+v", cell, got)
	}

	// Out of bounds should be ignored/return empty
	b.SetCell(-1, 0, cell)
	b.SetCell(100, 0, cell)

	empty := b.Cell(-1, 0)
	if !empty.IsEmpty() {
		t.Error("out of bounds should return empty cell")
	}
}

func TestNullBackendClear(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	b.SetCell(10, 10, core.NewCell('X'))
	b.SetCell(20, 20, core.NewCell('Y'))

	b.Clear()

	got := b.Cell(10, 10)
	if !got.IsEmpty() {
		t.Error("clear should reset all cells")
	}
}

func TestNullBackendRow(t *testing.T) {
	b := NewNullBackend(10, 2)
	b.Init()

	for i, r := range "abc" {
		b.SetCell(i, 1, core.NewCell(r))
	}

	if got := b.Row(1); got != "abc" {
		t.Errorf("expected row %q, got %q", "abc", got)
	}
	if got := b.Row(0); got != "" {
		t.Errorf("expected blank row, got %q", got)
	}
	if got := b.Row(5); got != "" {
		t.Errorf("out of range row should be blank, got %q", got)
	}
}

func TestNullBackendCursor(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	b.ShowCursor(15, 10)
	x, y, visible := b.CursorPosition()
	if x != 15 || y != 10 || !visible {
		t.Errorf("cursor position: expected (15, 10, true), got (%d, %d, %v)", x, y, visible)
	}

	b.HideCursor()
	_, _, visible = b.CursorPosition()
	if visible {
		t.Error("cursor should be hidden")
	}
}

func TestNullBackendResize(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()
	b.SetCell(0, 0, core.NewCell('X'))

	b.Resize(100, 40)

	w, h := b.Size()
	if w != 100 || h != 40 {
		t.Errorf("expected size (100, 40), got (%d, %d)", w, h)
	}
	if !b.Cell(0, 0).IsEmpty() {
		t.Error("resize should discard content")
	}
}

func TestNullBackendPostEvent(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	b.PostEvent(KeyEvent(KeyRune, 'x', ModNone))

	got := b.PollEvent()
	if got.Type != EventKey || got.Key != KeyRune || got.Rune != 'x' {
		t.Errorf("expected 'x' key event, got %+v", got)
	}
}

func TestNullBackendPolledResizeAppliesSize(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	b.PostEvent(ResizeEvent(40, 10))

	// Size changes only once the event is delivered
	if w, h := b.Size(); w != 80 || h != 24 {
		t.Errorf("size changed before poll: (%d, %d)", w, h)
	}

	ev := b.PollEvent()
	if ev.Type != EventResize {
		t.Fatalf("expected resize event, got %v", ev.Type)
	}
	if w, h := b.Size(); w != 40 || h != 10 {
		t.Errorf("expected size (40, 10), got (%d, %d)", w, h)
	}
}

func TestNullBackendCounters(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	b.Show()
	b.Show()
	b.Sync()

	if b.ShowCount() != 2 {
		t.Errorf("expected 2 shows, got %d", b.ShowCount())
	}
	if b.SyncCount() != 1 {
		t.Errorf("expected 1 sync, got %d", b.SyncCount())
	}
}

func TestModMaskHas(t *testing.T) {
	mod := ModShift | ModCtrl

	if !mod.Has(ModShift) {
		t.Error("should have shift")
	}
	if !mod.Has(ModCtrl) {
		t.Error("should have ctrl")
	}
	if mod.Has(ModAlt) {
		t.Error("should not have alt")
	}
}

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		typ  EventType
		want string
	}{
		{EventNone, "none"},
		{EventKey, "key"},
		{EventResize, "resize"},
		{EventType(42), "none"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("EventType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
