package sys

import (
	"os"
	"sync"

	"github.com/keelsh/keelsh/core/logger"
	"github.com/spf13/afero"
)

// SystemOS implements OS directly against the host process: the environment,
// working directory, and filesystem are the real ones. The interactive shell
// and forked builtin children both run on top of it.
type SystemOS struct {
	Env
	IO
	FS
	Kernel

	procArgs  []string
	configDir string
	events    *logger.SessionLogger
	pty       PTY

	mu           sync.Mutex
	shutdownCode int
	shutdownSet  bool
}

var _ OS = (*SystemOS)(nil)

// NewSystemOS builds an OS bound to the host process. The config directory
// is propagated to forked children via the environment, events may be nil
// to discard the audit trail.
func NewSystemOS(kernel Kernel, configDir string, events *logger.SessionLogger) *SystemOS {
	if events == nil {
		events = logger.Discard()
	}

	return &SystemOS{
		Env:       &ProcessEnv{},
		IO:        NewStdIO(),
		FS:        afero.NewOsFs(),
		Kernel:    kernel,
		procArgs:  os.Args,
		configDir: configDir,
		events:    events,
		pty:       InheritedPTY(),
	}
}

// SetArgs replaces the argument vector reported by Args.
func (s *SystemOS) SetArgs(argv []string) {
	s.procArgs = argv
}

// Args implements Proc.Args.
func (s *SystemOS) Args() []string {
	return s.procArgs
}

// Getpid implements Proc.Getpid.
func (s *SystemOS) Getpid() int {
	return os.Getpid()
}

// Getuid implements Proc.Getuid.
func (s *SystemOS) Getuid() int {
	return os.Getuid()
}

// Getgid implements Proc.Getgid.
func (s *SystemOS) Getgid() int {
	return os.Getgid()
}

// Getgroups implements Proc.Getgroups.
func (s *SystemOS) Getgroups() []int {
	groups, err := os.Getgroups()
	if err != nil {
		return nil
	}
	return groups
}

// Getwd implements Proc.Getwd.
func (s *SystemOS) Getwd() (string, error) {
	return os.Getwd()
}

// Chdir implements Proc.Chdir. The change applies to the whole process.
func (s *SystemOS) Chdir(dir string) error {
	return os.Chdir(dir)
}

// StartProcess implements Proc.StartProcess by re-executing the shell's own
// binary with the forkexec entry point.
func (s *SystemOS) StartProcess(argv []string, attr *ProcAttr) (Process, error) {
	if attr == nil {
		attr = &ProcAttr{}
	}

	env := attr.Env
	if env == nil {
		env = os.Environ()
	}
	if s.configDir != "" {
		env = withConfigDir(env, s.configDir)
	}

	return startProcess(argv, &ProcAttr{Dir: attr.Dir, Env: env, Files: attr.Files}, s.IO)
}

// Shutdown implements Proc.Shutdown.
func (s *SystemOS) Shutdown(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdownCode = code
	s.shutdownSet = true
}

// ShutdownRequested implements Proc.ShutdownRequested.
func (s *SystemOS) ShutdownRequested() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdownCode, s.shutdownSet
}

// Events implements Auditor.Events.
func (s *SystemOS) Events() *logger.SessionLogger {
	return s.events
}

// LogInvalidInvocation implements Auditor.LogInvalidInvocation.
func (s *SystemOS) LogInvalidInvocation(err error) {
	s.events.Record(&logger.InvalidInvocation{
		Argv:  s.Args(),
		Error: err.Error(),
	})
}

func (s *SystemOS) SetPTY(pty PTY) {
	s.pty = pty
}

func (s *SystemOS) GetPTY() PTY {
	return s.pty
}
