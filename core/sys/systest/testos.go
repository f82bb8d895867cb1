// Package systest provides a deterministic in-memory sys.OS so builtins and
// the interpreter loop can be tested without touching the host.
package systest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sync"
	"syscall"

	"github.com/keelsh/keelsh/core/logger"
	"github.com/keelsh/keelsh/core/sys"
	"github.com/spf13/afero"
)

// TestOS implements sys.OS against an in-memory filesystem, a map backed
// environment, and a fake kernel. The zero value isn't usable, create
// instances with NewTestOS.
type TestOS struct {
	sys.Env
	sys.IO
	sys.FS
	*FakeKernel

	// LookupProcess resolves names for StartProcess. Spawns fail while it's
	// unset.
	LookupProcess func(name string) sys.ProcessFunc

	// StartProcessHook, when set, replaces the default in-process spawn.
	StartProcessHook func(argv []string, attr *sys.ProcAttr) (sys.Process, error)

	// SpawnErr forces StartProcess to fail when set.
	SpawnErr error

	base   afero.Fs
	events *logger.SessionLogger

	mu           sync.Mutex
	pid          int
	nextPid      int
	dir          string
	args         []string
	pty          sys.PTY
	recorded     []*logger.LogEntry
	spawns       [][]string
	shutdownCode int
	shutdownSet  bool
}

var _ sys.OS = (*TestOS)(nil)

// NewTestOS creates an OS rooted at "/" with a fixed environment, an empty
// filesystem holding only the home directory, null standard streams, and
// superuser credentials.
func NewTestOS() *TestOS {
	env := sys.NewMapEnv()
	for key, value := range map[string]string{
		"HOME":    "/root",
		"LOGNAME": "root",
		"PATH":    "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin",
		"PWD":     "/",
		"SHELL":   "/bin/keelsh",
		"USER":    "root",
	} {
		_ = env.Setenv(key, value)
	}

	t := &TestOS{
		Env:        env,
		IO:         sys.NewNullIO(),
		FakeKernel: NewFakeKernel(),
		base:       afero.NewMemMapFs(),
		pid:        1234,
		nextPid:    5000,
		dir:        "/",
		args:       []string{"keelsh"},
		pty:        sys.PTY{Width: 80, Height: 24, Term: "xterm-256color", IsPTY: true},
	}
	t.FS = sys.NewRelativeFs(t.base, t.Getwd)
	t.events = (&logger.Logger{Record: t.record}).NewSession()

	_ = t.base.MkdirAll("/root", 0o755)
	return t
}

func (t *TestOS) record(le *logger.LogEntry) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recorded = append(t.recorded, le)
	return nil
}

// BaseFS returns the raw filesystem under the working directory mapping.
func (t *TestOS) BaseFS() afero.Fs {
	return t.base
}

// RecordedEvents returns every event logged so far, in order.
func (t *TestOS) RecordedEvents() []*logger.LogEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*logger.LogEntry(nil), t.recorded...)
}

// Spawns returns the argv of every StartProcess attempt, in order.
func (t *TestOS) Spawns() [][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([][]string(nil), t.spawns...)
}

// SetArgs replaces the argument vector reported by Args.
func (t *TestOS) SetArgs(argv []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.args = argv
}

// Args implements sys.Proc.
func (t *TestOS) Args() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.args
}

// Getpid implements sys.Proc.
func (t *TestOS) Getpid() int {
	return t.pid
}

// Getuid implements sys.Proc.
func (t *TestOS) Getuid() int {
	return 0
}

// Getgid implements sys.Proc.
func (t *TestOS) Getgid() int {
	return 0
}

// Getgroups implements sys.Proc.
func (t *TestOS) Getgroups() []int {
	return []int{0}
}

// Getwd implements sys.Proc.
func (t *TestOS) Getwd() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dir, nil
}

// Chdir implements sys.Proc against the tracked directory.
func (t *TestOS) Chdir(dir string) error {
	if !path.IsAbs(dir) {
		cur, _ := t.Getwd()
		dir = path.Join(cur, dir)
	}
	dir = path.Clean(dir)

	stat, err := t.Stat(dir)
	switch {
	case err != nil:
		return err
	case !stat.IsDir():
		return &os.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.dir = dir
	return nil
}

// StartProcess implements sys.Proc by running the resolved builtin against a
// derived child OS in a fresh goroutine. The child shares the parent's
// filesystem, kernel, and event log but owns its argv, environment, working
// directory, and streams.
func (t *TestOS) StartProcess(argv []string, attr *sys.ProcAttr) (sys.Process, error) {
	if len(argv) == 0 {
		return nil, errors.New("startprocess: empty argv")
	}

	t.mu.Lock()
	t.spawns = append(t.spawns, argv)
	t.nextPid++
	pid := t.nextPid
	dir := t.dir
	t.mu.Unlock()

	if t.StartProcessHook != nil {
		return t.StartProcessHook(argv, attr)
	}
	if t.SpawnErr != nil {
		return nil, t.SpawnErr
	}

	var run sys.ProcessFunc
	if t.LookupProcess != nil {
		run = t.LookupProcess(argv[0])
	}
	if run == nil {
		return nil, fmt.Errorf("%s: no spawn target registered", argv[0])
	}

	child := &TestOS{
		Env:           t.Env,
		IO:            t.IO,
		FakeKernel:    t.FakeKernel,
		LookupProcess: t.LookupProcess,
		base:          t.base,
		events:        t.events,
		pid:           pid,
		nextPid:       pid,
		dir:           dir,
		args:          argv,
		pty:           t.GetPTY(),
	}
	if attr != nil {
		if attr.Dir != "" {
			child.dir = attr.Dir
		}
		if attr.Env != nil {
			child.Env = sys.NewMapEnvFromList(attr.Env)
		}
		if attr.Files != nil {
			child.IO = attr.Files
		}
	}
	child.FS = sys.NewRelativeFs(child.base, child.Getwd)

	proc := &fakeProcess{pid: pid, done: make(chan struct{})}
	go func() {
		defer close(proc.done)
		// Exit statuses pass through the 8 bit process exit path.
		proc.code = run(child) & 0xff
	}()
	return proc, nil
}

// Shutdown implements sys.Proc.
func (t *TestOS) Shutdown(code int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.shutdownCode = code
	t.shutdownSet = true
}

// ShutdownRequested implements sys.Proc.
func (t *TestOS) ShutdownRequested() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.shutdownCode, t.shutdownSet
}

// Events implements sys.Auditor.
func (t *TestOS) Events() *logger.SessionLogger {
	return t.events
}

// LogInvalidInvocation implements sys.Auditor.
func (t *TestOS) LogInvalidInvocation(err error) {
	t.events.Record(&logger.InvalidInvocation{
		Argv:  t.Args(),
		Error: err.Error(),
	})
}

func (t *TestOS) SetPTY(pty sys.PTY) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pty = pty
}

func (t *TestOS) GetPTY() sys.PTY {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pty
}

// fakeProcess reports the exit of an in-process spawn.
type fakeProcess struct {
	pid  int
	done chan struct{}
	code int
}

var _ sys.Process = (*fakeProcess)(nil)

func (p *fakeProcess) Pid() int {
	return p.pid
}

func (p *fakeProcess) Wait() (sys.WaitStatus, error) {
	<-p.done
	return Exited(p.code), nil
}

// Cmd runs a builtin against a fresh TestOS, similar to exec.Cmd.
type Cmd struct {
	// Process is the builtin under test.
	Process sys.ProcessFunc
	// Process arguments, the first argument should be the process name.
	Argv []string
	// OS is the fake the builtin runs against. Tests may seed files or
	// environment variables on it before calling Run.
	OS *TestOS

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	ExitStatus int
}

// Command creates a Cmd to run process with the given argv.
func Command(process sys.ProcessFunc, name string, arg ...string) *Cmd {
	return &Cmd{
		Process: process,
		Argv:    append([]string{name}, arg...),
		OS:      NewTestOS(),
	}
}

// CombinedOutput runs the builtin and returns its combined stdout and
// stderr.
func (c *Cmd) CombinedOutput() ([]byte, error) {
	buf := &bytes.Buffer{}
	c.Stdout = buf
	c.Stderr = buf

	err := c.Run()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run invokes the builtin and records its exit status.
func (c *Cmd) Run() error {
	c.OS.IO = sys.NewIOAdapter(c.Stdin, c.Stdout, c.Stderr)
	c.OS.SetArgs(c.Argv)
	c.ExitStatus = c.Process(c.OS)
	return nil
}
