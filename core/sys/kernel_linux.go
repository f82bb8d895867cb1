//go:build linux

package sys

import (
	"fmt"
	"syscall"
)

// Actions for klogctl(2).
const (
	syslogActionReadAll    = 3
	syslogActionSizeBuffer = 10
)

// ReadKernelLog implements Kernel.ReadKernelLog via klogctl(2).
func (k *HostKernel) ReadKernelLog() ([]byte, error) {
	size, err := syscall.Klogctl(syslogActionSizeBuffer, nil)
	if err != nil {
		return nil, fmt.Errorf("klogctl: %w", err)
	}

	buf := make([]byte, size)
	n, err := syscall.Klogctl(syslogActionReadAll, buf)
	if err != nil {
		return nil, fmt.Errorf("klogctl: %w", err)
	}
	return buf[:n], nil
}

// SendSignal implements Kernel.SendSignal via kill(2).
func (k *HostKernel) SendSignal(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}

// Mount implements Kernel.Mount via mount(2).
func (k *HostKernel) Mount(source, target, fstype string, flags uintptr, data string) error {
	return syscall.Mount(source, target, fstype, flags, data)
}

// Escalate implements Kernel.Escalate. Without an applicable exploit or
// setuid binary this only succeeds when the effective UID is already 0.
func (k *HostKernel) Escalate() error {
	if syscall.Geteuid() == 0 {
		if syscall.Getuid() != 0 {
			return syscall.Setuid(0)
		}
		return nil
	}

	if err := syscall.Setuid(0); err != nil {
		return fmt.Errorf("setuid: %w", err)
	}
	return nil
}
