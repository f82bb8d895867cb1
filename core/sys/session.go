package sys

import (
	"os"
	"path"
	"sync"
	"syscall"

	"github.com/keelsh/keelsh/core/logger"
	"github.com/spf13/afero"
)

// SessionAttr configures a new SessionOS.
type SessionAttr struct {
	// Files holds the streams connected to the remote peer.
	Files IO

	// Env is the environment of the session. A fresh one is created if nil.
	Env *MapEnv

	// Dir is the initial working directory, "/" if empty.
	Dir string
}

// SessionOS implements OS for one remote session served out of a long
// running server process. Each session owns its environment and working
// directory; several sessions can coexist in the process, so nothing here
// touches process-wide state.
type SessionOS struct {
	Env
	IO
	FS
	Kernel

	procArgs  []string
	configDir string
	events    *logger.SessionLogger

	mu           sync.Mutex
	dir          string
	pty          PTY
	shutdownCode int
	shutdownSet  bool
}

var _ OS = (*SessionOS)(nil)

// NewSessionOS builds an OS for one remote session. Relative paths resolve
// against the session's own working directory rather than the server's.
func NewSessionOS(kernel Kernel, configDir string, events *logger.SessionLogger, attr SessionAttr) *SessionOS {
	if events == nil {
		events = logger.Discard()
	}
	if attr.Env == nil {
		attr.Env = NewMapEnv()
	}
	if attr.Files == nil {
		attr.Files = NewNullIO()
	}
	if attr.Dir == "" {
		attr.Dir = "/"
	}

	s := &SessionOS{
		Env:       attr.Env,
		IO:        attr.Files,
		Kernel:    kernel,
		procArgs:  os.Args,
		configDir: configDir,
		events:    events,
		dir:       attr.Dir,
	}
	s.FS = NewRelativeFs(afero.NewOsFs(), s.Getwd)
	return s
}

// Args implements Proc.Args.
func (s *SessionOS) Args() []string {
	return s.procArgs
}

// Getpid implements Proc.Getpid.
func (s *SessionOS) Getpid() int {
	return os.Getpid()
}

// Getuid implements Proc.Getuid.
func (s *SessionOS) Getuid() int {
	return os.Getuid()
}

// Getgid implements Proc.Getgid.
func (s *SessionOS) Getgid() int {
	return os.Getgid()
}

// Getgroups implements Proc.Getgroups.
func (s *SessionOS) Getgroups() []int {
	groups, err := os.Getgroups()
	if err != nil {
		return nil
	}
	return groups
}

// Getwd implements Proc.Getwd from the tracked directory.
func (s *SessionOS) Getwd() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir, nil
}

// Chdir implements Proc.Chdir against the tracked directory. Paths are
// joined logically, the way interactive shells track $PWD.
func (s *SessionOS) Chdir(dir string) error {
	if !path.IsAbs(dir) {
		cur, _ := s.Getwd()
		dir = path.Join(cur, dir)
	}
	dir = path.Clean(dir)

	stat, err := s.Stat(dir)
	switch {
	case err != nil:
		return err
	case !stat.IsDir():
		return &os.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dir = dir
	return nil
}

// StartProcess implements Proc.StartProcess. Children inherit the session's
// working directory, environment, and streams rather than the server's.
func (s *SessionOS) StartProcess(argv []string, attr *ProcAttr) (Process, error) {
	if attr == nil {
		attr = &ProcAttr{}
	}

	dir := attr.Dir
	if dir == "" {
		dir, _ = s.Getwd()
	}
	env := attr.Env
	if env == nil {
		env = s.Environ()
	}
	if s.configDir != "" {
		env = withConfigDir(env, s.configDir)
	}
	env = withPTYEnv(env, s.GetPTY())
	files := attr.Files
	if files == nil {
		files = s.IO
	}

	return startProcess(argv, &ProcAttr{Dir: dir, Env: env, Files: files}, s.IO)
}

// Shutdown implements Proc.Shutdown.
func (s *SessionOS) Shutdown(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdownCode = code
	s.shutdownSet = true
}

// ShutdownRequested implements Proc.ShutdownRequested.
func (s *SessionOS) ShutdownRequested() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdownCode, s.shutdownSet
}

// Events implements Auditor.Events.
func (s *SessionOS) Events() *logger.SessionLogger {
	return s.events
}

// LogInvalidInvocation implements Auditor.LogInvalidInvocation.
func (s *SessionOS) LogInvalidInvocation(err error) {
	s.events.Record(&logger.InvalidInvocation{
		Argv:  s.Args(),
		Error: err.Error(),
	})
}

func (s *SessionOS) SetPTY(pty PTY) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pty = pty
}

func (s *SessionOS) GetPTY() PTY {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pty
}
