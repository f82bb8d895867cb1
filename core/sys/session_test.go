package sys

import (
	"io/fs"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionOSDefaults(t *testing.T) {
	s := NewSessionOS(nil, "", nil, SessionAttr{})

	dir, err := s.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/", dir)
	assert.Empty(t, s.Environ())
	assert.NotNil(t, s.Events())

	_, ok := s.ShutdownRequested()
	assert.False(t, ok)
}

func TestSessionOSChdir(t *testing.T) {
	td := t.TempDir()
	s := NewSessionOS(nil, "", nil, SessionAttr{Dir: "/"})

	require.NoError(t, s.Chdir(td))
	dir, err := s.Getwd()
	require.NoError(t, err)
	assert.Equal(t, td, dir)

	// Relative changes resolve against the tracked directory.
	require.NoError(t, s.Mkdir("sub", 0o755))
	require.NoError(t, s.Chdir("sub"))
	dir, _ = s.Getwd()
	assert.Equal(t, filepath.Join(td, "sub"), dir)

	require.NoError(t, s.Chdir(".."))
	dir, _ = s.Getwd()
	assert.Equal(t, td, dir)

	assert.ErrorIs(t, s.Chdir("missing"), fs.ErrNotExist)

	fd, err := s.Create("file.txt")
	require.NoError(t, err)
	require.NoError(t, fd.Close())
	assert.ErrorIs(t, s.Chdir("file.txt"), syscall.ENOTDIR)

	// Failed changes leave the tracked directory alone.
	dir, _ = s.Getwd()
	assert.Equal(t, td, dir)
}

func TestSessionOSShutdown(t *testing.T) {
	s := NewSessionOS(nil, "", nil, SessionAttr{})

	s.Shutdown(3)

	code, ok := s.ShutdownRequested()
	assert.True(t, ok)
	assert.Equal(t, 3, code)
}

func TestSessionOSEnv(t *testing.T) {
	env := NewMapEnv()
	require.NoError(t, env.Setenv("HOME", "/root"))
	s := NewSessionOS(nil, "", nil, SessionAttr{Env: env})

	assert.Equal(t, "/root", s.Getenv("HOME"))

	home, err := s.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, "/root", home)
}
