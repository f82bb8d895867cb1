package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"

	"github.com/keelsh/keelsh/core/sys"
)

// signalTable holds the symbolic names kill accepts, ordered by their Linux
// numbers. The values come from the syscall package so they match the host.
var signalTable = []struct {
	sig  syscall.Signal
	name string
}{
	{syscall.SIGHUP, "HUP"},
	{syscall.SIGINT, "INT"},
	{syscall.SIGQUIT, "QUIT"},
	{syscall.SIGILL, "ILL"},
	{syscall.SIGTRAP, "TRAP"},
	{syscall.SIGABRT, "ABRT"},
	{syscall.SIGBUS, "BUS"},
	{syscall.SIGFPE, "FPE"},
	{syscall.SIGKILL, "KILL"},
	{syscall.SIGUSR1, "USR1"},
	{syscall.SIGSEGV, "SEGV"},
	{syscall.SIGUSR2, "USR2"},
	{syscall.SIGPIPE, "PIPE"},
	{syscall.SIGALRM, "ALRM"},
	{syscall.SIGTERM, "TERM"},
	{syscall.SIGCHLD, "CHLD"},
	{syscall.SIGCONT, "CONT"},
	{syscall.SIGSTOP, "STOP"},
	{syscall.SIGTSTP, "TSTP"},
}

// parseSignal accepts "9", "KILL", "SIGKILL", or lowercase variants.
func parseSignal(spec string) (syscall.Signal, bool) {
	if num, err := strconv.Atoi(spec); err == nil {
		return syscall.Signal(num), true
	}

	name := strings.ToUpper(spec)
	name = strings.TrimPrefix(name, "SIG")
	for _, entry := range signalTable {
		if entry.name == name {
			return entry.sig, true
		}
	}
	return 0, false
}

func printSignalTable(w io.Writer) {
	for i, entry := range signalTable {
		fmt.Fprintf(w, "%2d) SIG%-9s", int(entry.sig), entry.name)
		if (i+1)%4 == 0 || i == len(signalTable)-1 {
			fmt.Fprintln(w)
		}
	}
}

// Kill implements a kill command sending real signals through the kernel
// surface.
func Kill(system sys.OS) int {
	args := system.Args()[1:]

	usage := func() int {
		fmt.Fprintln(system.Stderr(), "usage: kill [-l] [-SIGNAL | -s SIGNAL] PID...")
		return 1
	}

	sig := syscall.SIGTERM
	for len(args) > 0 && strings.HasPrefix(args[0], "-") {
		arg := args[0]
		args = args[1:]

		switch {
		case arg == "-l":
			printSignalTable(system.Stdout())
			return 0
		case arg == "-s":
			if len(args) == 0 {
				return usage()
			}
			parsed, ok := parseSignal(args[0])
			if !ok {
				fmt.Fprintf(system.Stderr(), "kill: %s: invalid signal specification\n", args[0])
				return 1
			}
			sig = parsed
			args = args[1:]
		default:
			parsed, ok := parseSignal(arg[1:])
			if !ok {
				fmt.Fprintf(system.Stderr(), "kill: %s: invalid signal specification\n", arg)
				return 1
			}
			sig = parsed
		}
	}

	if len(args) == 0 {
		return usage()
	}

	exitCode := 0
	for _, operand := range args {
		pid, err := strconv.Atoi(operand)
		if err != nil {
			fmt.Fprintf(system.Stderr(), "kill: %s: arguments must be process ids\n", operand)
			exitCode = 1
			continue
		}
		if err := system.SendSignal(pid, sig); err != nil {
			fmt.Fprintf(system.Stderr(), "kill: (%d): %v\n", pid, err)
			exitCode = 1
		}
	}
	return exitCode
}

var _ sys.ProcessFunc = Kill

func init() {
	mustAddForkedCmd("kill", Kill)
}
