package shell

import (
	"bufio"
	"fmt"

	"github.com/keelsh/keelsh/core/sys"
)

const (
	EnvHome = "HOME"
	EnvPWD  = "PWD"
)

// Shell is the interactive interpreter: it prompts, reads a line, splits it
// into arguments and dispatches them until told to stop.
type Shell struct {
	OS         sys.OS
	Dispatcher *Dispatcher

	// MOTD is printed once before the first prompt, framed by blank lines.
	// Empty suppresses the banner.
	MOTD string

	// DefaultHome and DefaultWorkdir seed HOME and PWD when the session
	// environment doesn't already carry them.
	DefaultHome    string
	DefaultWorkdir string

	lastStatus int
}

// NewShell builds a shell over os dispatching to table.
func NewShell(os sys.OS, table []Command) *Shell {
	return &Shell{
		OS:             os,
		Dispatcher:     NewDispatcher(table),
		DefaultHome:    "/",
		DefaultWorkdir: "/",
	}
}

// Run drives the interpreter until exit is dispatched or the input stream
// ends. It returns the session's exit status: the code passed to exit, or
// the status of the last command that produced one.
func (s *Shell) Run() int {
	out := bufio.NewWriter(s.OS.Stdout())

	if s.MOTD != "" {
		fmt.Fprintf(out, "\n%s\n\n", s.MOTD)
	}
	s.seedEnv()

	for {
		if code, ok := s.OS.ShutdownRequested(); ok {
			out.Flush()
			return code
		}

		fmt.Fprintf(out, "%s$ ", s.cwd())
		// The prompt has to reach the terminal before the read blocks.
		out.Flush()

		line, ok := ReadLine(s.OS.Stdin())
		if !ok {
			return s.lastStatus
		}

		if status := s.Dispatcher.Execute(s.OS, SplitLine(line)); status != NoStatus {
			s.lastStatus = status
		}
	}
}

// seedEnv gives the session a minimal environment without clobbering
// variables the caller already exported.
func (s *Shell) seedEnv() {
	sys.SetenvDefault(s.OS, EnvHome, s.DefaultHome)
	sys.SetenvDefault(s.OS, EnvPWD, s.DefaultWorkdir)
}

// cwd resolves the directory shown in the prompt: the exported PWD variable
// when present, else a live working directory query.
func (s *Shell) cwd() string {
	if pwd, ok := s.OS.LookupEnv(EnvPWD); ok {
		return pwd
	}
	if wd, err := s.OS.Getwd(); err == nil {
		return wd
	}
	return "(null)"
}
