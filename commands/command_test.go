package commands

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/keelsh/keelsh/core/logger"
	"github.com/keelsh/keelsh/core/sys"
	"github.com/keelsh/keelsh/core/sys/systest"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleBytesToHuman() {

	// < 1k is presented directly
	fmt.Println(BytesToHuman(512))

	// Multiples > 10 are shown without decimal.
	fmt.Println(BytesToHuman(23 * 10e8))

	// Multiples < 10 are shown with decimal.
	fmt.Println(BytesToHuman(5 * 1024))

	// Output: 512
	// 23G
	// 5.1K
}

func TestBuiltins(t *testing.T) {
	var names []string
	for _, cmd := range Builtins() {
		names = append(names, cmd.Name)
	}

	assert.Equal(t, []string{
		"cd", "cp", "dmesg", "env", "exit", "help", "id", "jailbreak",
		"kill", "ls", "mkdir", "mount", "pwd", "rmdir", "sleep", "stat",
		"uname",
	}, names)
}

func TestBuiltinsForkPolicy(t *testing.T) {
	// Commands that mutate interpreter state have to run inline.
	inline := map[string]bool{"cd": true, "env": true, "exit": true, "jailbreak": true}

	for _, cmd := range Builtins() {
		assert.Equal(t, !inline[cmd.Name], cmd.Forked, cmd.Name)
		assert.NotNil(t, cmd.Main, cmd.Name)
	}
}

func TestLookup(t *testing.T) {
	proc, ok := Lookup("ls")
	assert.True(t, ok)
	assert.NotNil(t, proc)

	_, ok = Lookup("vim")
	assert.False(t, ok)
}

type goldenTestSuite map[string]goldenTest

type goldenTest struct {
	Args []string
}

func (gts goldenTestSuite) Run(t *testing.T, cmd sys.ProcessFunc) {
	t.Helper()

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	for tn, tc := range gts {
		t.Run(tn, func(t *testing.T) {
			cmd := systest.Command(cmd, tc.Args[0], tc.Args[1:]...)
			out, err := cmd.CombinedOutput()
			if err != nil {
				t.Fatal(err)
			}

			g.Assert(t, tn, out)
		})
	}
}

func TestSimpleCommandBadFlag(t *testing.T) {
	cmd := systest.Command(Mkdir, "mkdir", "--bogus")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Contains(t, stderr.String(), "error: ")
	assert.Contains(t, stdout.String(), "usage: mkdir")

	events := cmd.OS.RecordedEvents()
	require.Len(t, events, 1)
	_, ok := events[0].Event().(*logger.InvalidInvocation)
	assert.True(t, ok)
}

func TestSimpleCommandHelpFlag(t *testing.T) {
	cmd := systest.Command(Mkdir, "mkdir", "--help")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Contains(t, stdout.String(), "usage: mkdir [OPTION...] DIRECTORY...")
	assert.Contains(t, stdout.String(), "--parents")
}

func TestUidResolver(t *testing.T) {
	testOS := systest.NewTestOS()
	passwd := "root:x:0:0:root:/root:/bin/bash\n" +
		"games:x:5:60:games:/usr/games:/usr/sbin/nologin\n"
	require.NoError(t, afero.WriteFile(testOS, "/etc/passwd", []byte(passwd), 0o644))

	resolve := UidResolver(testOS)
	assert.Equal(t, "root", resolve(0))
	assert.Equal(t, "games", resolve(5))
	assert.Equal(t, "42", resolve(42))
}

func TestUidResolverNoDatabase(t *testing.T) {
	resolve := UidResolver(systest.NewTestOS())

	// root is known even without /etc/passwd, everyone else is numeric.
	assert.Equal(t, "root", resolve(0))
	assert.Equal(t, "1000", resolve(1000))
}

func TestColorPrinterShouldColor(t *testing.T) {
	cases := []struct {
		value string
		pty   bool
		want  bool
	}{
		{colorAlways, false, true},
		{colorNever, true, false},
		{colorAuto, true, true},
		{colorAuto, false, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s pty=%v", tc.value, tc.pty), func(t *testing.T) {
			testOS := systest.NewTestOS()
			pty := testOS.GetPTY()
			pty.IsPTY = tc.pty
			testOS.SetPTY(pty)

			value := tc.value
			printer := &ColorPrinter{value: &value, system: testOS}
			assert.Equal(t, tc.want, printer.ShouldColor())
		})
	}
}
