package shell

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/keelsh/keelsh/core/logger"
	"github.com/keelsh/keelsh/core/sys"
)

// RunForked launches argv as a child process and blocks until it terminates,
// returning its exit status. Stop notifications are waited through rather
// than treated as termination. A child killed by a signal maps to 128 plus
// the signal number.
func RunForked(system sys.OS, argv []string) int {
	proc, err := system.StartProcess(argv, nil)
	if err != nil {
		fmt.Fprintf(system.Stderr(), "fork: %v\n", err)
		system.Events().Record(&logger.SpawnError{Argv: argv, Error: err.Error()})
		return NoStatus
	}

	for {
		status, err := proc.Wait()
		switch {
		case errors.Is(err, syscall.EINTR):
			continue
		case err != nil:
			fmt.Fprintf(system.Stderr(), "wait: %v\n", err)
			return NoStatus
		case status.Exited():
			return status.ExitStatus()
		case status.Signaled():
			return 128 + int(status.Signal())
		default:
			// Stopped. The child is still alive, keep waiting.
		}
	}
}
