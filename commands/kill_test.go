package commands

import (
	"bytes"
	"errors"
	"strings"
	"syscall"
	"testing"

	"github.com/keelsh/keelsh/core/sys/systest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKillDefaultsToTerm(t *testing.T) {
	cmd := systest.Command(Kill, "kill", "123")
	require.NoError(t, cmd.Run())

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, []systest.SignalRecord{
		{Pid: 123, Sig: syscall.SIGTERM},
	}, cmd.OS.FakeKernel.Signals())
}

func TestKillSignalSpecs(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want syscall.Signal
	}{
		{"numeric flag", []string{"kill", "-9", "123"}, syscall.SIGKILL},
		{"name flag", []string{"kill", "-KILL", "123"}, syscall.SIGKILL},
		{"sig prefix", []string{"kill", "-SIGHUP", "123"}, syscall.SIGHUP},
		{"s flag", []string{"kill", "-s", "HUP", "123"}, syscall.SIGHUP},
		{"s flag lowercase", []string{"kill", "-s", "sigusr1", "123"}, syscall.SIGUSR1},
		{"s flag numeric", []string{"kill", "-s", "12", "123"}, syscall.Signal(12)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := systest.Command(Kill, tc.args[0], tc.args[1:]...)
			require.NoError(t, cmd.Run())

			assert.Equal(t, 0, cmd.ExitStatus)
			assert.Equal(t, []systest.SignalRecord{
				{Pid: 123, Sig: tc.want},
			}, cmd.OS.FakeKernel.Signals())
		})
	}
}

func TestKillMultiplePids(t *testing.T) {
	cmd := systest.Command(Kill, "kill", "-1", "10", "20")
	require.NoError(t, cmd.Run())

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, []systest.SignalRecord{
		{Pid: 10, Sig: syscall.SIGHUP},
		{Pid: 20, Sig: syscall.SIGHUP},
	}, cmd.OS.FakeKernel.Signals())
}

func TestKillList(t *testing.T) {
	cmd := systest.Command(Kill, "kill", "-l")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err)

	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Contains(t, string(out), "SIGKILL")
	assert.Contains(t, string(out), "SIGTERM")

	// Four signals per row.
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	assert.Equal(t, (len(signalTable)+3)/4, len(lines))

	assert.Empty(t, cmd.OS.FakeKernel.Signals())
}

func TestKillNoPid(t *testing.T) {
	cmd := systest.Command(Kill, "kill")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Equal(t, "usage: kill [-l] [-SIGNAL | -s SIGNAL] PID...\n", stderr.String())
}

func TestKillBadSignal(t *testing.T) {
	cmd := systest.Command(Kill, "kill", "-BOGUS", "123")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Equal(t, "kill: -BOGUS: invalid signal specification\n", stderr.String())
	assert.Empty(t, cmd.OS.FakeKernel.Signals())
}

func TestKillBadPid(t *testing.T) {
	cmd := systest.Command(Kill, "kill", "abc")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Equal(t, "kill: abc: arguments must be process ids\n", stderr.String())
}

func TestKillDeliveryFailure(t *testing.T) {
	cmd := systest.Command(Kill, "kill", "123")
	cmd.OS.FakeKernel.SignalErr = errors.New("no such process")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())

	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Equal(t, "kill: (123): no such process\n", stderr.String())
}

func TestParseSignal(t *testing.T) {
	cases := []struct {
		spec string
		want syscall.Signal
		ok   bool
	}{
		{"9", syscall.SIGKILL, true},
		{"TERM", syscall.SIGTERM, true},
		{"SIGTERM", syscall.SIGTERM, true},
		{"sigterm", syscall.SIGTERM, true},
		{"hup", syscall.SIGHUP, true},
		{"WINCH", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.spec, func(t *testing.T) {
			got, ok := parseSignal(tc.spec)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
