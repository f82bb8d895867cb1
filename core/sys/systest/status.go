package systest

import (
	"syscall"

	"github.com/keelsh/keelsh/core/sys"
)

// status is a canned sys.WaitStatus.
type status struct {
	exited   bool
	code     int
	signaled bool
	sig      syscall.Signal
	stopped  bool
}

var _ sys.WaitStatus = status{}

func (s status) Exited() bool           { return s.exited }
func (s status) ExitStatus() int        { return s.code }
func (s status) Signaled() bool         { return s.signaled }
func (s status) Signal() syscall.Signal { return s.sig }
func (s status) Stopped() bool          { return s.stopped }

// Exited builds the wait status of a child that exited with code.
func Exited(code int) sys.WaitStatus {
	return status{exited: true, code: code}
}

// Signaled builds the wait status of a child terminated by sig.
func Signaled(sig syscall.Signal) sys.WaitStatus {
	return status{signaled: true, sig: sig}
}

// Stopped builds the wait status of a child suspended by sig.
func Stopped(sig syscall.Signal) sys.WaitStatus {
	return status{stopped: true, sig: sig}
}

// WaitResult is one scripted return value of ScriptedProcess.Wait.
type WaitResult struct {
	Status sys.WaitStatus
	Err    error
}

// ScriptedProcess is a sys.Process replaying canned wait results, useful for
// driving wait loops through stops and interrupted calls. Once the script is
// exhausted every Wait reports a clean exit.
type ScriptedProcess struct {
	ProcPid int
	Results []WaitResult

	calls int
}

var _ sys.Process = (*ScriptedProcess)(nil)

func (p *ScriptedProcess) Pid() int {
	return p.ProcPid
}

func (p *ScriptedProcess) Wait() (sys.WaitStatus, error) {
	if p.calls >= len(p.Results) {
		return Exited(0), nil
	}
	res := p.Results[p.calls]
	p.calls++
	return res.Status, res.Err
}
