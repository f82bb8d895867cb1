package sys

import (
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
)

// ForkExecCommand is the hidden subcommand the shell re-executes its own
// binary with to run a builtin in a separate process.
const ForkExecCommand = "forkexec"

// EnvConfigDir carries the configuration directory to forked children so
// they resolve the same system identity as the parent.
const EnvConfigDir = "KEELSH_CONFIG_DIR"

// EnvPTY marks children spawned by a session that holds a terminal, since
// their own stdio is piped back to the parent rather than attached to it.
const EnvPTY = "KEELSH_PTY"

// setEnviron returns environ with key pinned to value, replacing any
// earlier definition.
func setEnviron(environ []string, key, value string) []string {
	out := make([]string, 0, len(environ)+1)
	for _, def := range environ {
		if !strings.HasPrefix(def, key+"=") {
			out = append(out, def)
		}
	}
	return append(out, key+"="+value)
}

// withConfigDir returns environ with EnvConfigDir pinned to dir.
func withConfigDir(environ []string, dir string) []string {
	return setEnviron(environ, EnvConfigDir, dir)
}

// withPTYEnv exports pty to environ the conventional way, COLUMNS, LINES
// and TERM, plus EnvPTY when a terminal is attached.
func withPTYEnv(environ []string, pty PTY) []string {
	environ = setEnviron(environ, "COLUMNS", strconv.Itoa(pty.Width))
	environ = setEnviron(environ, "LINES", strconv.Itoa(pty.Height))
	if pty.Term != "" {
		environ = setEnviron(environ, "TERM", pty.Term)
	}
	if pty.IsPTY {
		environ = setEnviron(environ, EnvPTY, "1")
	}
	return environ
}

// InheritedPTY derives terminal parameters from the process environment and
// standard output. Forked children see the session's terminal through the
// variables withPTYEnv exports.
func InheritedPTY() PTY {
	pty := PTY{
		Width:  80,
		Height: 24,
		Term:   os.Getenv("TERM"),
		IsPTY:  os.Getenv(EnvPTY) == "1" || isatty.IsTerminal(os.Stdout.Fd()),
	}
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		pty.Width = n
	}
	if n, err := strconv.Atoi(os.Getenv("LINES")); err == nil && n > 0 {
		pty.Height = n
	}
	return pty
}

// startProcess re-executes the running binary with the forkexec entry point
// so argv runs isolated in a fresh address space. The caller owns the wait.
func startProcess(argv []string, attr *ProcAttr, fallback IO) (Process, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}

	files := attr.Files
	if files == nil {
		files = fallback
	}

	handles, closeAfterStart, err := bridgeStdio(files)
	if err != nil {
		return nil, err
	}

	args := append([]string{exe, ForkExecCommand}, argv...)
	proc, err := os.StartProcess(exe, args, &os.ProcAttr{
		Dir:   attr.Dir,
		Env:   attr.Env,
		Files: handles,
	})
	closeAfterStart()
	if err != nil {
		return nil, err
	}

	return &hostProcess{proc: proc}, nil
}

type hostProcess struct {
	proc *os.Process
}

var _ Process = (*hostProcess)(nil)

func (p *hostProcess) Pid() int {
	return p.proc.Pid
}

// Wait reports one state change of the child, including stops.
func (p *hostProcess) Wait() (WaitStatus, error) {
	var ws syscall.WaitStatus
	if _, err := syscall.Wait4(p.proc.Pid, &ws, syscall.WUNTRACED, nil); err != nil {
		return nil, err
	}
	return ws, nil
}

// bridgeStdio turns an IO into the three inheritable file handles a child
// needs. Streams already backed by files pass straight through, anything
// else gets a pipe with a copier goroutine on the parent side. The returned
// func closes the child-side pipe ends once the child owns them.
func bridgeStdio(files IO) ([]*os.File, func(), error) {
	var childEnds []*os.File
	closeAfterStart := func() {
		for _, fd := range childEnds {
			fd.Close()
		}
	}

	stdin, err := readHandle(files.Stdin(), &childEnds)
	if err != nil {
		closeAfterStart()
		return nil, nil, err
	}
	stdout, err := writeHandle(files.Stdout(), &childEnds)
	if err != nil {
		closeAfterStart()
		return nil, nil, err
	}
	stderr, err := writeHandle(files.Stderr(), &childEnds)
	if err != nil {
		closeAfterStart()
		return nil, nil, err
	}

	return []*os.File{stdin, stdout, stderr}, closeAfterStart, nil
}

func readHandle(r io.Reader, childEnds *[]*os.File) (*os.File, error) {
	if fd, ok := r.(*os.File); ok {
		return fd, nil
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	*childEnds = append(*childEnds, pr)
	go func() {
		io.Copy(pw, r)
		pw.Close()
	}()
	return pr, nil
}

func writeHandle(w io.Writer, childEnds *[]*os.File) (*os.File, error) {
	if fd, ok := w.(*os.File); ok {
		return fd, nil
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	*childEnds = append(*childEnds, pw)
	go func() {
		io.Copy(w, pr)
		pr.Close()
	}()
	return pw, nil
}
