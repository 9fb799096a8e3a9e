package fileops

import (
	"bufio"
	"io"
)

// maxLineBytes bounds a single line; longer lines fail the iteration
// rather than growing without limit
const maxLineBytes = 1 << 20

// LineIter is a lazy line sequence over an open file. The caller drives
// it with Next/Text and must Close it, including when abandoning the
// iteration early — Close is what releases the underlying handle.
// The sequence restarts by calling Cat again; an iterator itself is
// single-pass.
type LineIter struct {
	rc      io.ReadCloser
	scanner *bufio.Scanner
	closed  bool
}

func newLineIter(rc io.ReadCloser) *LineIter {
	s := bufio.NewScanner(rc)
	s.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &LineIter{rc: rc, scanner: s}
}

// Next advances to the next line, returning false at EOF or on error
func (it *LineIter) Next() bool {
	if it.closed {
		return false
	}
	return it.scanner.Scan()
}

// Text returns the current line without its trailing newline
func (it *LineIter) Text() string {
	return it.scanner.Text()
}

// Err returns the first error encountered while scanning, nil at clean EOF
func (it *LineIter) Err() error {
	return it.scanner.Err()
}

// Close releases the file handle. Safe to call more than once.
func (it *LineIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return it.rc.Close()
}
