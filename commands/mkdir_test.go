package commands

import (
	"bytes"
	"testing"

	"github.com/keelsh/keelsh/core/sys/systest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMkdir(t *testing.T) {
	cmd := systest.Command(Mkdir, "mkdir", "/fresh")
	require.NoError(t, cmd.Run())

	assert.Equal(t, 0, cmd.ExitStatus)

	isDir, err := afero.IsDir(cmd.OS, "/fresh")
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestMkdirExisting(t *testing.T) {
	cmd := systest.Command(Mkdir, "mkdir", "/root")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Contains(t, stderr.String(), "mkdir: cannot create directory \"/root\"")
}

func TestMkdirParents(t *testing.T) {
	cmd := systest.Command(Mkdir, "mkdir", "-p", "/a/b/c")
	require.NoError(t, cmd.Run())

	assert.Equal(t, 0, cmd.ExitStatus)

	isDir, err := afero.IsDir(cmd.OS, "/a/b/c")
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestMkdirVerbose(t *testing.T) {
	cmd := systest.Command(Mkdir, "mkdir", "-v", "/one", "/two")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, "mkdir: created directory \"/one\"\n"+
		"mkdir: created directory \"/two\"\n", stdout.String())
}

func TestMkdirMissingOperand(t *testing.T) {
	cmd := systest.Command(Mkdir, "mkdir")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Equal(t, "mkdir: missing operand\n", stderr.String())
	assert.Contains(t, stdout.String(), "usage: mkdir")
}

func TestMkdirKeepsGoingAfterFailure(t *testing.T) {
	cmd := systest.Command(Mkdir, "mkdir", "/root", "/fine")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	// The bad operand fails the command but the good one is still made.
	assert.Equal(t, 1, cmd.ExitStatus)

	isDir, err := afero.IsDir(cmd.OS, "/fine")
	require.NoError(t, err)
	assert.True(t, isDir)
}
