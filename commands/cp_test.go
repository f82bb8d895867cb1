package commands

import (
	"bytes"
	"testing"

	"github.com/keelsh/keelsh/core/sys/systest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCpFile(t *testing.T) {
	cmd := systest.Command(Cp, "cp", "/src.txt", "/dst.txt")
	require.NoError(t, afero.WriteFile(cmd.OS, "/src.txt", []byte("hello"), 0o644))
	require.NoError(t, cmd.Run())

	assert.Equal(t, 0, cmd.ExitStatus)

	got, err := afero.ReadFile(cmd.OS, "/dst.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestCpIntoDirectory(t *testing.T) {
	cmd := systest.Command(Cp, "cp", "/src.txt", "/d")
	require.NoError(t, afero.WriteFile(cmd.OS, "/src.txt", []byte("hello"), 0o644))
	require.NoError(t, cmd.OS.MkdirAll("/d", 0o755))
	require.NoError(t, cmd.Run())

	assert.Equal(t, 0, cmd.ExitStatus)

	got, err := afero.ReadFile(cmd.OS, "/d/src.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestCpMultipleSources(t *testing.T) {
	cmd := systest.Command(Cp, "cp", "/a.txt", "/b.txt", "/d")
	require.NoError(t, afero.WriteFile(cmd.OS, "/a.txt", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(cmd.OS, "/b.txt", []byte("b"), 0o644))
	require.NoError(t, cmd.OS.MkdirAll("/d", 0o755))
	require.NoError(t, cmd.Run())

	assert.Equal(t, 0, cmd.ExitStatus)

	for _, name := range []string{"/d/a.txt", "/d/b.txt"} {
		exists, err := afero.Exists(cmd.OS, name)
		require.NoError(t, err)
		assert.True(t, exists, name)
	}
}

func TestCpMultipleSourcesNeedDirectory(t *testing.T) {
	cmd := systest.Command(Cp, "cp", "/a.txt", "/b.txt", "/dst.txt")
	require.NoError(t, afero.WriteFile(cmd.OS, "/a.txt", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(cmd.OS, "/b.txt", []byte("b"), 0o644))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Equal(t, "cp: target \"/dst.txt\" is not a directory\n", stderr.String())
}

func TestCpRecursive(t *testing.T) {
	cmd := systest.Command(Cp, "cp", "-r", "/a", "/out")
	require.NoError(t, cmd.OS.MkdirAll("/a/b", 0o755))
	require.NoError(t, afero.WriteFile(cmd.OS, "/a/b/c.txt", []byte("deep"), 0o644))
	require.NoError(t, cmd.Run())

	assert.Equal(t, 0, cmd.ExitStatus)

	got, err := afero.ReadFile(cmd.OS, "/out/b/c.txt")
	require.NoError(t, err)
	assert.Equal(t, "deep", string(got))
}

func TestCpDirectoryWithoutRecursive(t *testing.T) {
	cmd := systest.Command(Cp, "cp", "/a", "/out")
	require.NoError(t, cmd.OS.MkdirAll("/a", 0o755))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Equal(t, "cp: -r not specified; omitting directory \"/a\"\n", stderr.String())
}

func TestCpVerbose(t *testing.T) {
	cmd := systest.Command(Cp, "cp", "-v", "/src.txt", "/dst.txt")
	require.NoError(t, afero.WriteFile(cmd.OS, "/src.txt", []byte("hello"), 0o644))
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, "'/src.txt' -> '/dst.txt'\n", stdout.String())
}

func TestCpMissingOperands(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"none", []string{"cp"}, "cp: missing file operand\n"},
		{"one", []string{"cp", "/src.txt"}, "cp: missing destination file operand after \"/src.txt\"\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := systest.Command(Cp, tc.args[0], tc.args[1:]...)
			var stderr bytes.Buffer
			cmd.Stderr = &stderr
			require.NoError(t, cmd.Run())

			assert.Equal(t, 1, cmd.ExitStatus)
			assert.Equal(t, tc.want, stderr.String())
		})
	}
}

func TestCpMissingSource(t *testing.T) {
	cmd := systest.Command(Cp, "cp", "/nope.txt", "/dst.txt")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Contains(t, stderr.String(), "cp: ")
}
