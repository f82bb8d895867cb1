// Package shell implements the interactive interpreter loop: reading lines,
// splitting them into arguments, and dispatching them to builtin commands
// inline or in a child process.
package shell

import (
	"errors"
	"io"
	"syscall"
)

// LineBufferSize is the initial capacity of the line buffer and the fixed
// increment it grows by.
const LineBufferSize = 1024

// ReadLine reads one newline terminated line from r, a byte at a time.
// The returned line excludes the newline. Interrupted reads are retried
// without losing bytes already read. ok is false when the stream ends or
// fails before a newline arrives, any partial line is discarded so callers
// can tell "no line" apart from an empty line.
func ReadLine(r io.Reader) (line string, ok bool) {
	buf := make([]byte, 0, LineBufferSize)
	var b [1]byte

	for {
		n, err := r.Read(b[:])
		if n > 0 {
			if b[0] == '\n' {
				return string(buf), true
			}
			if len(buf) == cap(buf) {
				grown := make([]byte, len(buf), cap(buf)+LineBufferSize)
				copy(grown, buf)
				buf = grown
			}
			buf = append(buf, b[0])
			continue
		}
		if errors.Is(err, syscall.EINTR) {
			continue
		}
		if err == nil {
			// A zero byte read without error reports nothing happened.
			continue
		}
		return "", false
	}
}
