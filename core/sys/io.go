package sys

import (
	"io"
	"os"
)

// IOAdapter implements IO over arbitrary readers and writers.
type IOAdapter struct {
	IStdin  io.ReadCloser
	IStdout io.WriteCloser
	IStderr io.WriteCloser
}

var _ IO = (*IOAdapter)(nil)

// NewIOAdapter builds an IO from the given streams. Nil streams become
// /dev/null style endpoints, non-closers get no-op Close methods.
func NewIOAdapter(stdin io.Reader, stdout, stderr io.Writer) *IOAdapter {
	return &IOAdapter{
		IStdin:  toReadCloserOrDiscard(stdin),
		IStdout: toWriteCloserOrDiscard(stdout),
		IStderr: toWriteCloserOrDiscard(stderr),
	}
}

// NewNullIO creates a valid /dev/null style IO, reads fail and writes are
// discarded.
func NewNullIO() IO {
	return NewIOAdapter(nil, nil, nil)
}

// NewStdIO returns the real standard streams of the running process.
func NewStdIO() IO {
	return &IOAdapter{IStdin: os.Stdin, IStdout: os.Stdout, IStderr: os.Stderr}
}

func (a *IOAdapter) Stdin() io.ReadCloser {
	return a.IStdin
}

func (a *IOAdapter) Stdout() io.WriteCloser {
	return a.IStdout
}

func (a *IOAdapter) Stderr() io.WriteCloser {
	return a.IStderr
}

func toWriteCloserOrDiscard(w io.Writer) io.WriteCloser {
	if w == nil {
		return &devNull{}
	}
	if wc, ok := w.(io.WriteCloser); ok {
		return wc
	}
	return nopWriteCloser{w}
}

func toReadCloserOrDiscard(r io.Reader) io.ReadCloser {
	if r == nil {
		return &devNull{}
	}
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// devNull implements io.ReadCloser and io.WriteCloser, always closed for
// reads and discarding writes.
type devNull struct{}

var _ io.ReadCloser = (*devNull)(nil)
var _ io.WriteCloser = (*devNull)(nil)

func (*devNull) Read([]byte) (int, error) {
	return 0, os.ErrClosed
}

func (*devNull) Write(b []byte) (int, error) {
	return len(b), nil
}

func (*devNull) Close() error {
	return nil
}
