package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/keelsh/keelsh/core/sys/systest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatFile(t *testing.T) {
	cmd := systest.Command(Stat, "stat", "/notes.txt")
	require.NoError(t, afero.WriteFile(cmd.OS, "/notes.txt", []byte("hello\n"), 0o644))
	when := time.Date(2020, time.March, 14, 9, 26, 53, 0, time.UTC)
	require.NoError(t, cmd.OS.Chtimes("/notes.txt", when, when))

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, "  File: /notes.txt\n"+
		"  Size: 6          Blocks: 1          IO Block: 4096   regular file\n"+
		"Access: (0644/-rw-r--r--)  Uid: (    0/    root)   Gid: (    0/    root)\n"+
		"Modify: 2020-03-14 09:26:53.000000000 +0000\n", string(out))
}

func TestStatDirectory(t *testing.T) {
	cmd := systest.Command(Stat, "stat", "/srv")
	require.NoError(t, cmd.OS.MkdirAll("/srv", 0o755))

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Contains(t, string(out), "  File: /srv\n")
	assert.Contains(t, string(out), "directory")
	assert.Contains(t, string(out), "Access: (0755/drwxr-xr-x)")
}

func TestStatEmptyFile(t *testing.T) {
	cmd := systest.Command(Stat, "stat", "/empty.txt")
	require.NoError(t, afero.WriteFile(cmd.OS, "/empty.txt", nil, 0o644))

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Contains(t, string(out), "regular empty file")
}

func TestStatBlockRounding(t *testing.T) {
	cmd := systest.Command(Stat, "stat", "/big.bin")
	require.NoError(t, afero.WriteFile(cmd.OS, "/big.bin", bytes.Repeat([]byte("x"), 513), 0o644))

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Contains(t, string(out), "Blocks: 2")
}

func TestStatMissing(t *testing.T) {
	cmd := systest.Command(Stat, "stat", "/present.txt", "/missing.txt")
	require.NoError(t, afero.WriteFile(cmd.OS, "/present.txt", []byte("x"), 0o644))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	// The good operand still prints, the bad one fails the command.
	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Contains(t, stdout.String(), "  File: /present.txt\n")
	assert.Contains(t, stderr.String(), "stat: cannot stat \"/missing.txt\"")
}

func TestStatMissingOperand(t *testing.T) {
	cmd := systest.Command(Stat, "stat")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Equal(t, "stat: missing operand\n", stderr.String())
}
