package shell

import (
	"io"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readStep is one scripted Read result. Only one byte is ever delivered per
// call, matching the byte at a time contract of ReadLine.
type readStep struct {
	b   byte
	n   int
	err error
}

type scriptedReader struct {
	steps []readStep
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	if len(r.steps) == 0 {
		return 0, io.EOF
	}
	s := r.steps[0]
	r.steps = r.steps[1:]
	if s.n > 0 {
		p[0] = s.b
	}
	return s.n, s.err
}

func TestReadLine(t *testing.T) {
	cases := map[string]struct {
		input    string
		wantLine string
		wantOK   bool
	}{
		"simple": {
			input:    "ls -l\n",
			wantLine: "ls -l",
			wantOK:   true,
		},
		"empty line": {
			input:    "\n",
			wantLine: "",
			wantOK:   true,
		},
		"no input": {
			input:  "",
			wantOK: false,
		},
		"partial line discarded": {
			input:  "ls -l",
			wantOK: false,
		},
		"stops at first newline": {
			input:    "first\nsecond\n",
			wantLine: "first",
			wantOK:   true,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			line, ok := ReadLine(strings.NewReader(tc.input))

			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantLine, line)
		})
	}
}

func TestReadLineSequential(t *testing.T) {
	r := strings.NewReader("first\nsecond\n")

	line, ok := ReadLine(r)
	require.True(t, ok)
	assert.Equal(t, "first", line)

	line, ok = ReadLine(r)
	require.True(t, ok)
	assert.Equal(t, "second", line)

	_, ok = ReadLine(r)
	assert.False(t, ok)
}

func TestReadLineGrowth(t *testing.T) {
	// Longer than two buffer extensions.
	long := strings.Repeat("x", 2*LineBufferSize+100)

	line, ok := ReadLine(strings.NewReader(long + "\n"))

	require.True(t, ok)
	assert.Equal(t, long, line)
}

func TestReadLineInterrupted(t *testing.T) {
	r := &scriptedReader{steps: []readStep{
		{b: 'h', n: 1},
		{err: syscall.EINTR},
		{b: 'i', n: 1},
		{err: syscall.EINTR},
		{b: '\n', n: 1},
	}}

	line, ok := ReadLine(r)

	require.True(t, ok)
	assert.Equal(t, "hi", line)
}

func TestReadLineInterruptedThenEOF(t *testing.T) {
	r := &scriptedReader{steps: []readStep{
		{b: 'h', n: 1},
		{err: syscall.EINTR},
	}}

	line, ok := ReadLine(r)

	assert.False(t, ok)
	assert.Empty(t, line)
}

func TestReadLineErrorDiscardsPartial(t *testing.T) {
	r := &scriptedReader{steps: []readStep{
		{b: 'l', n: 1},
		{b: 's', n: 1},
		{err: syscall.EBADF},
	}}

	line, ok := ReadLine(r)

	assert.False(t, ok)
	assert.Empty(t, line)
}

func TestReadLineByteDeliveredWithEOF(t *testing.T) {
	// Readers may return data and io.EOF from the same call.
	r := &scriptedReader{steps: []readStep{
		{b: 'o', n: 1},
		{b: 'k', n: 1},
		{b: '\n', n: 1, err: io.EOF},
	}}

	line, ok := ReadLine(r)

	require.True(t, ok)
	assert.Equal(t, "ok", line)
}

func TestReadLineEmptyReadRetried(t *testing.T) {
	r := &scriptedReader{steps: []readStep{
		{n: 0},
		{b: 'x', n: 1},
		{n: 0},
		{b: '\n', n: 1},
	}}

	line, ok := ReadLine(r)

	require.True(t, ok)
	assert.Equal(t, "x", line)
}
