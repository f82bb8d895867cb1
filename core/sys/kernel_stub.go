//go:build unix && !linux

package sys

import "syscall"

// ReadKernelLog implements Kernel.ReadKernelLog.
func (k *HostKernel) ReadKernelLog() ([]byte, error) {
	return nil, ErrUnsupported
}

// SendSignal implements Kernel.SendSignal.
func (k *HostKernel) SendSignal(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}

// Mount implements Kernel.Mount.
func (k *HostKernel) Mount(source, target, fstype string, flags uintptr, data string) error {
	return ErrUnsupported
}

// Escalate implements Kernel.Escalate.
func (k *HostKernel) Escalate() error {
	return ErrUnsupported
}
