// Package buffer provides the immutable line buffer a file is loaded into.
//
// A Buffer is created once, by Load or NewBuffer, and never changes
// afterwards. Line indexes are 0-based and correspond to rows of the
// loaded file.
//
// Basic usage:
//
//	buf, err := buffer.Load("notes.txt")
//	if errors.Is(err, buffer.ErrIsDirectory) {
//	    // directories are not supported
//	}
//	line, ok := buf.Line(0)
//
// Line Splitting:
//
// Content is split the way a line scanner splits it: "\n" ends a line and a
// "\r" right before it is dropped. A final line terminator does not start an
// extra empty line, and an empty file has no lines at all.
package buffer
