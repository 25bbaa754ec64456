package renderer

import (
	"github.com/dshills/glance/internal/engine/buffer"
	"github.com/dshills/glance/internal/renderer/core"
	"github.com/dshills/glance/internal/terminal"
)

// DefaultEmptyRowMarker is drawn on rows past the end of the buffer.
const DefaultEmptyRowMarker = "~"

// Screen is the part of terminal control a View draws through.
// *terminal.Terminal implements it.
type Screen interface {
	Size() (core.Size, error)
	SetCursorTo(pos core.Position) error
	Clear(typ terminal.ClearType) error
	Print(text string) error
}

// ViewOptions configures a View.
type ViewOptions struct {
	// EmptyRowMarker is printed on rows with no buffer line.
	EmptyRowMarker string
}

// DefaultViewOptions returns default view options.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{
		EmptyRowMarker: DefaultEmptyRowMarker,
	}
}

// View renders a buffer against the current terminal size.
type View struct {
	buf  *buffer.Buffer
	opts ViewOptions

	needsRender bool
}

// NewView creates a view over buf. A nil buf renders as an empty buffer.
// The view starts out needing a render.
func NewView(buf *buffer.Buffer, opts ViewOptions) *View {
	if buf == nil {
		buf = buffer.NewBuffer()
	}
	if opts.EmptyRowMarker == "" {
		opts.EmptyRowMarker = DefaultEmptyRowMarker
	}
	return &View{
		buf:         buf,
		opts:        opts,
		needsRender: true,
	}
}

// Buffer returns the buffer the view draws.
func (v *View) Buffer() *buffer.Buffer {
	return v.buf
}

// Options returns the view's options.
func (v *View) Options() ViewOptions {
	return v.opts
}

// NeedsRender returns whether the next Render will draw.
func (v *View) NeedsRender() bool {
	return v.needsRender
}

// SetNeedsRender sets the dirty flag.
func (v *View) SetNeedsRender(needs bool) {
	v.needsRender = needs
}

// Render draws every row of the screen if the view is dirty and is a no-op
// otherwise. The dirty flag is cleared only after all rows were queued; on
// error it stays set so the next call retries the full redraw.
func (v *View) Render(s Screen) error {
	if !v.needsRender {
		return nil
	}

	size, err := s.Size()
	if err != nil {
		return err
	}

	for row := 0; row < size.Height; row++ {
		if err := v.renderRow(s, row, size.Width); err != nil {
			return err
		}
	}

	v.needsRender = false
	return nil
}

// renderRow positions at column 0 of row, clears it and draws its content.
func (v *View) renderRow(s Screen, row, width int) error {
	if err := s.SetCursorTo(core.Position{X: 0, Y: row}); err != nil {
		return err
	}
	if err := s.Clear(terminal.ClearCurrentLine); err != nil {
		return err
	}

	line, ok := v.buf.Line(row)
	if !ok {
		return s.Print(v.opts.EmptyRowMarker)
	}
	return s.Print(core.Truncate(core.ExpandTabs(line, core.TabWidth), width))
}
