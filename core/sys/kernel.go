package sys

import (
	"errors"
	"os"
	"runtime"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
)

// ErrUnsupported is returned for kernel operations the platform can't do.
var ErrUnsupported = errors.New("operation not supported on this platform")

// MountReadOnly asks Mount for a read only attachment. The value matches
// MS_RDONLY so Linux kernels take it as is.
const MountReadOnly uintptr = 0x1

// Utsname describes the identity of the running system, mirroring uname(2).
type Utsname struct {
	Sysname    string
	Nodename   string
	Release    string
	Version    string
	Machine    string
	Domainname string
}

// MountPoint describes one mounted filesystem.
type MountPoint struct {
	Device  string
	Path    string
	Type    string
	Options string
}

// Kernel exposes privileged host operations to builtins.
type Kernel interface {
	// Uname returns the system identity.
	Uname() Utsname

	// ReadKernelLog returns the contents of the kernel ring buffer.
	ReadKernelLog() ([]byte, error)

	// SendSignal delivers sig to the process with the given PID.
	SendSignal(pid int, sig syscall.Signal) error

	// Mount attaches the filesystem on source to the directory target.
	Mount(source, target, fstype string, flags uintptr, data string) error

	// MountedFilesystems lists the currently mounted filesystems.
	MountedFilesystems() ([]MountPoint, error)

	// Escalate attempts to raise the credentials of the process to root.
	Escalate() error
}

// HostKernel implements Kernel against the host the shell runs on.
type HostKernel struct {
	identity Utsname
}

var _ Kernel = (*HostKernel)(nil)

// NewHostKernel builds a host kernel whose Uname reports the given identity.
// Empty identity fields are filled in from the live host.
func NewHostKernel(identity Utsname) *HostKernel {
	live := liveUtsname()
	merge := func(dst *string, fallback string) {
		if *dst == "" {
			*dst = fallback
		}
	}
	merge(&identity.Sysname, live.Sysname)
	merge(&identity.Nodename, live.Nodename)
	merge(&identity.Release, live.Release)
	merge(&identity.Version, live.Version)
	merge(&identity.Machine, live.Machine)

	return &HostKernel{identity: identity}
}

// Uname implements Kernel.Uname.
func (k *HostKernel) Uname() Utsname {
	return k.identity
}

// MountedFilesystems implements Kernel.MountedFilesystems.
func (k *HostKernel) MountedFilesystems() ([]MountPoint, error) {
	partitions, err := disk.Partitions(true)
	if err != nil {
		return nil, err
	}

	var out []MountPoint
	for _, p := range partitions {
		out = append(out, MountPoint{
			Device:  p.Device,
			Path:    p.Mountpoint,
			Type:    p.Fstype,
			Options: strings.Join(p.Opts, ","),
		})
	}
	return out, nil
}

func liveUtsname() Utsname {
	uts := Utsname{
		Sysname: sysname(),
		Machine: runtime.GOARCH,
	}

	if info, err := host.Info(); err == nil {
		uts.Nodename = info.Hostname
		uts.Release = info.KernelVersion
		uts.Version = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		if info.KernelArch != "" {
			uts.Machine = info.KernelArch
		}
	} else if name, err := os.Hostname(); err == nil {
		uts.Nodename = name
	}

	return uts
}

func sysname() string {
	switch runtime.GOOS {
	case "linux":
		return "Linux"
	case "darwin":
		return "Darwin"
	case "freebsd":
		return "FreeBSD"
	default:
		return runtime.GOOS
	}
}
