package commands

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/keelsh/keelsh/core/sys/systest"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLs(t *testing.T) {
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	t.Run("flat", func(t *testing.T) {
		cmd := systest.Command(Ls, "ls", "--color=never", "/data")
		for _, name := range []string{"aa.txt", "bb.txt", "cc.txt", ".hidden"} {
			require.NoError(t, afero.WriteFile(cmd.OS, "/data/"+name, []byte("x"), 0o644))
		}

		out, err := cmd.CombinedOutput()
		require.NoError(t, err)

		assert.Equal(t, 0, cmd.ExitStatus)
		g.Assert(t, "flat", out)
	})

	t.Run("all", func(t *testing.T) {
		cmd := systest.Command(Ls, "ls", "-a", "--color=never", "/data")
		require.NoError(t, afero.WriteFile(cmd.OS, "/data/.hidden", []byte("x"), 0o644))
		require.NoError(t, afero.WriteFile(cmd.OS, "/data/vis.txt", []byte("x"), 0o644))

		out, err := cmd.CombinedOutput()
		require.NoError(t, err)

		assert.Equal(t, 0, cmd.ExitStatus)
		g.Assert(t, "all", out)
	})

	t.Run("long", func(t *testing.T) {
		cmd := systest.Command(Ls, "ls", "-l", "--color=never", "/data")
		require.NoError(t, afero.WriteFile(cmd.OS, "/data/a.txt", []byte("hello\n"), 0o644))
		require.NoError(t, afero.WriteFile(cmd.OS, "/data/bb.txt", bytes.Repeat([]byte("x"), 600), 0o644))

		// Pin modification times to a past year so the listing shows the
		// year form instead of the clock.
		when := time.Date(2020, time.March, 14, 9, 26, 53, 0, time.UTC)
		require.NoError(t, cmd.OS.Chtimes("/data/a.txt", when, when))
		require.NoError(t, cmd.OS.Chtimes("/data/bb.txt", when, when))

		out, err := cmd.CombinedOutput()
		require.NoError(t, err)

		assert.Equal(t, 0, cmd.ExitStatus)
		g.Assert(t, "long", out)
	})

	t.Run("columns", func(t *testing.T) {
		cmd := systest.Command(Ls, "ls", "-w", "9", "--color=never", "/data")
		for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
			require.NoError(t, afero.WriteFile(cmd.OS, "/data/"+name, []byte("x"), 0o644))
		}

		out, err := cmd.CombinedOutput()
		require.NoError(t, err)

		assert.Equal(t, 0, cmd.ExitStatus)
		g.Assert(t, "columns", out)
	})

	t.Run("two-dirs", func(t *testing.T) {
		cmd := systest.Command(Ls, "ls", "--color=never", "/d2", "/d1")
		require.NoError(t, afero.WriteFile(cmd.OS, "/d1/x.txt", []byte("x"), 0o644))
		require.NoError(t, afero.WriteFile(cmd.OS, "/d2/y.txt", []byte("y"), 0o644))

		out, err := cmd.CombinedOutput()
		require.NoError(t, err)

		assert.Equal(t, 0, cmd.ExitStatus)
		g.Assert(t, "two-dirs", out)
	})
}

func TestLsHumanReadable(t *testing.T) {
	cmd := systest.Command(Ls, "ls", "-lh", "--color=never", "/data")
	require.NoError(t, afero.WriteFile(cmd.OS, "/data/big.bin", bytes.Repeat([]byte("x"), 5120), 0o644))

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Contains(t, string(out), "5.1K")
}

func TestLsMissingDirectory(t *testing.T) {
	cmd := systest.Command(Ls, "ls", "--color=never", "/missing")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Contains(t, stderr.String(), "/missing")
	assert.Empty(t, stdout.String())
}

func TestLsHelp(t *testing.T) {
	cmd := systest.Command(Ls, "ls", "--help")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Contains(t, stderr.String(), "Usage: ls [OPTION]... [FILE]...")
	assert.Contains(t, stderr.String(), "--human-readable")
}
