package buffer

// LineEnding specifies the line ending style detected in loaded content.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	default:
		return "\\n"
	}
}

// Buffer is an ordered, read-only sequence of text lines.
type Buffer struct {
	path       string
	lines      []string
	lineEnding LineEnding
}

// NewBuffer creates a buffer holding the given lines.
// The slice is copied.
func NewBuffer(lines ...string) *Buffer {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return &Buffer{lines: cp}
}

// Path returns the file the buffer was loaded from, if any.
func (b *Buffer) Path() string {
	return b.path
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// IsEmpty returns true if the buffer has no lines.
func (b *Buffer) IsEmpty() bool {
	return len(b.lines) == 0
}

// Line returns the line at index i.
// The boolean is false when i is past the end of the buffer.
func (b *Buffer) Line(i int) (string, bool) {
	if i < 0 || i >= len(b.lines) {
		return "", false
	}
	return b.lines[i], true
}

// Lines returns a copy of all lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// LineEnding returns the line ending style of the loaded content.
func (b *Buffer) LineEnding() LineEnding {
	return b.lineEnding
}
