package buffer

import (
	"bufio"
	"bytes"
	"os"
	"unicode/utf8"
)

// minScanBuffer is the initial scanner buffer size.
const minScanBuffer = 64 * 1024

// Load reads the file at path into a new Buffer.
//
// A directory fails with ErrIsDirectory. Missing files, permission problems
// and content that is not valid UTF-8 fail with the underlying cause.
// Every error is a *LoadError; no partial buffer is ever returned.
func Load(path string) (*Buffer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Path: path, Err: ErrIsDirectory}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	buf, err := parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	buf.path = path
	return buf, nil
}

func parse(data []byte) (*Buffer, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	// No line can be longer than the whole content
	scanner.Buffer(make([]byte, 0, minScanBuffer), max(len(data)+1, minScanBuffer))

	lines := []string{}
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Buffer{
		lines:      lines,
		lineEnding: detectLineEnding(data),
	}, nil
}

// detectLineEnding reports CRLF when the first line terminator is "\r\n".
func detectLineEnding(data []byte) LineEnding {
	i := bytes.IndexByte(data, '\n')
	if i > 0 && data[i-1] == '\r' {
		return LineEndingCRLF
	}
	return LineEndingLF
}
