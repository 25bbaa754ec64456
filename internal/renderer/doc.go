// Package renderer projects a line buffer onto the terminal grid.
//
// A View draws every terminal row from the top: rows backed by a buffer
// line show that line cut to the terminal width, rows past the end of the
// buffer show a single end-of-content marker. There is no scrolling, so
// buffer lines beyond the terminal height are never drawn.
//
// Redraws are gated by a dirty flag. A View starts dirty, Render clears the
// flag after a complete redraw, and SetNeedsRender(true) (on resize) forces
// the next Render to draw again.
//
// Usage:
//
//	buf, _ := buffer.Load(path)
//	v := renderer.NewView(buf, renderer.DefaultViewOptions())
//	if err := v.Render(term); err != nil {
//	    return err
//	}
//	term.Execute()
package renderer
