// Package sys provides the operating system surface that shell builtins run
// against. Implementations back it with the host process, an SSH session, or
// an in-memory fake for tests.
package sys

import (
	"io"
	"syscall"

	"github.com/keelsh/keelsh/core/logger"
	"github.com/spf13/afero"
)

// FS implements the filesystem layer of the OS.
type FS = afero.Fs

// ProcessFunc is the entry point of a builtin process.
type ProcessFunc func(OS) int

// Env represents a process environment.
type Env interface {
	// UserHomeDir returns the current user's home directory.
	UserHomeDir() (string, error)

	// Unsetenv unsets a single environment variable.
	Unsetenv(key string) error

	// Setenv sets the value of the environment variable named by the key.
	// It returns an error, if any.
	Setenv(key, value string) error

	// LookupEnv retrieves the value of the environment variable named by the
	// key. If the variable is present in the environment the value (which may
	// be empty) is returned and the boolean is true. Otherwise the returned
	// value will be empty and the boolean will be false.
	LookupEnv(key string) (string, bool)

	// Getenv retrieves the value of the environment variable named by the key.
	// It returns the value, which will be empty if the variable is not present.
	// To distinguish between an empty value and an unset value, use LookupEnv.
	Getenv(key string) string

	// ExpandEnv replaces ${var} or $var in the string according to the values
	// of the current environment variables. References to undefined variables
	// are replaced by the empty string.
	ExpandEnv(s string) string

	// Environ returns a copy of strings representing the environment, in the
	// form "key=value".
	Environ() []string

	// Clearenv deletes all environment variables.
	Clearenv()
}

// IO holds the standard streams of a process.
type IO interface {
	Stdin() io.ReadCloser
	Stdout() io.WriteCloser
	Stderr() io.WriteCloser
}

// Proc exposes the state and control surface of the current process.
type Proc interface {
	// Args holds command line arguments, including the command as Args()[0].
	Args() []string

	// Getpid returns the process ID of the process.
	Getpid() int

	// Getuid returns the numeric user ID of the process.
	Getuid() int

	// Getgid returns the numeric group ID of the process.
	Getgid() int

	// Getgroups returns the supplementary group IDs of the process.
	Getgroups() []int

	// Getwd returns the working directory of the process.
	Getwd() (dir string, err error)

	// Chdir changes the working directory of the process.
	Chdir(dir string) error

	// StartProcess launches argv[0] as a new child process with its own
	// address space. The child resolves argv[0] against the builtin table and
	// terminates with the builtin's return value as its exit status.
	StartProcess(argv []string, attr *ProcAttr) (Process, error)

	// Shutdown requests that the owning interpreter stop with the given code.
	Shutdown(code int)

	// ShutdownRequested reports whether Shutdown has been called and with
	// which code.
	ShutdownRequested() (code int, ok bool)
}

// Auditor records notable process activity to the event log.
type Auditor interface {
	// Events returns the session event log, never nil.
	Events() *logger.SessionLogger

	// LogInvalidInvocation records a command invocation that failed to parse.
	LogInvalidInvocation(err error)
}

// OS is the complete surface a builtin may touch.
type OS interface {
	Env
	IO
	Proc
	Kernel
	Auditor
	FS

	SetPTY(PTY)
	GetPTY() PTY
}

// PTY holds the controlling terminal parameters, if any.
type PTY struct {
	Width  int
	Height int
	Term   string
	IsPTY  bool
}

// ProcAttr holds the attributes applied to a child started by StartProcess.
type ProcAttr struct {
	// If Dir is non-empty, the child changes into the directory before
	// running.
	Dir string

	// If Env is non-nil, it gives the environment variables for the new
	// process in the form returned by Environ. If it is nil, the parent's
	// environment is used.
	Env []string

	// Files specifies the standard streams inherited by the new process.
	// If nil the child gets the parent's streams.
	Files IO
}

// Process is a running child created by StartProcess.
type Process interface {
	// Pid returns the process ID of the child.
	Pid() int

	// Wait blocks until the child changes state and reports the change.
	// Stop notifications are reported, not swallowed; callers decide whether
	// to keep waiting.
	Wait() (WaitStatus, error)
}

// WaitStatus describes a state change reported by Process.Wait.
//
// syscall.WaitStatus satisfies this on POSIX platforms.
type WaitStatus interface {
	Exited() bool
	ExitStatus() int
	Signaled() bool
	Signal() syscall.Signal
	Stopped() bool
}

type argsOS struct {
	OS
	procArgs []string
}

func (a *argsOS) Args() []string {
	return a.procArgs
}

// WithArgs returns a view of base whose Args reports argv. The underlying
// state stays shared with base.
func WithArgs(base OS, argv []string) OS {
	return &argsOS{OS: base, procArgs: argv}
}
