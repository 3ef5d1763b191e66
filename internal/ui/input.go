package ui

import (
	"bufio"
	"io"
	"strings"
)

// LineSource yields input one line at a time.
type LineSource interface {
	ReadLine() (string, error)
}

// LineReader reads input line by line. It also implements io.Reader and
// returns at most one line per Read, so a scanner layered on top of it never
// consumes input beyond the line it asked for.
type LineReader struct {
	r       *bufio.Reader
	pending []byte
}

// NewLineReader returns a LineReader over r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line without its terminator. A final line with
// no newline is returned with a nil error; io.EOF follows it.
func (l *LineReader) ReadLine() (string, error) {
	var line []byte
	if len(l.pending) > 0 {
		line, l.pending = l.pending, nil
		if line[len(line)-1] == '\n' {
			return trimEOL(line), nil
		}
	}

	rest, err := l.r.ReadBytes('\n')
	line = append(line, rest...)
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return trimEOL(line), nil
		}
		return "", err
	}
	return trimEOL(line), nil
}

// Read implements io.Reader.
func (l *LineReader) Read(p []byte) (int, error) {
	if len(l.pending) == 0 {
		line, err := l.r.ReadBytes('\n')
		if len(line) == 0 {
			return 0, err
		}
		l.pending = line
	}
	n := copy(p, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}

func trimEOL(line []byte) string {
	s := strings.TrimSuffix(string(line), "\n")
	return strings.TrimSuffix(s, "\r")
}
