package systest

import (
	"sync"
	"syscall"

	"github.com/keelsh/keelsh/core/sys"
)

// SignalRecord is one SendSignal call observed by a FakeKernel.
type SignalRecord struct {
	Pid int
	Sig syscall.Signal
}

// MountRecord is one Mount call observed by a FakeKernel.
type MountRecord struct {
	Source string
	Target string
	Fstype string
	Flags  uintptr
	Data   string
}

// FakeKernel implements sys.Kernel with canned responses and records every
// mutating call for later assertions.
type FakeKernel struct {
	Identity     sys.Utsname
	KernelLog    []byte
	KernelLogErr error
	MountTable   []sys.MountPoint
	MountErr     error
	SignalErr    error
	EscalateErr  error

	mu          sync.Mutex
	signals     []SignalRecord
	mounts      []MountRecord
	escalations int
}

var _ sys.Kernel = (*FakeKernel)(nil)

// NewFakeKernel creates a kernel with a fixed plausible identity.
func NewFakeKernel() *FakeKernel {
	return &FakeKernel{
		Identity: sys.Utsname{
			Sysname:  "Linux",
			Nodename: "keelsh-test",
			Release:  "5.15.0-91-generic",
			Version:  "#101 SMP Mon Jan 2 15:04:05 UTC 2006",
			Machine:  "x86_64",
		},
	}
}

// Uname implements sys.Kernel.
func (k *FakeKernel) Uname() sys.Utsname {
	return k.Identity
}

// ReadKernelLog implements sys.Kernel.
func (k *FakeKernel) ReadKernelLog() ([]byte, error) {
	return k.KernelLog, k.KernelLogErr
}

// SendSignal implements sys.Kernel.
func (k *FakeKernel) SendSignal(pid int, sig syscall.Signal) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.signals = append(k.signals, SignalRecord{Pid: pid, Sig: sig})
	return k.SignalErr
}

// Mount implements sys.Kernel.
func (k *FakeKernel) Mount(source, target, fstype string, flags uintptr, data string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.mounts = append(k.mounts, MountRecord{
		Source: source,
		Target: target,
		Fstype: fstype,
		Flags:  flags,
		Data:   data,
	})
	return k.MountErr
}

// MountedFilesystems implements sys.Kernel.
func (k *FakeKernel) MountedFilesystems() ([]sys.MountPoint, error) {
	return k.MountTable, nil
}

// Escalate implements sys.Kernel.
func (k *FakeKernel) Escalate() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.escalations++
	return k.EscalateErr
}

// Signals returns every SendSignal call, in order.
func (k *FakeKernel) Signals() []SignalRecord {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]SignalRecord(nil), k.signals...)
}

// Mounts returns every Mount call, in order.
func (k *FakeKernel) Mounts() []MountRecord {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]MountRecord(nil), k.mounts...)
}

// Escalations returns how many times Escalate was called.
func (k *FakeKernel) Escalations() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.escalations
}
