package commands

import (
	"fmt"

	"github.com/keelsh/keelsh/core/sys"
)

// Mount implements a mount command. Without operands it reports the mount
// table, with a device and directory it asks the kernel for a real mount.
func Mount(system sys.OS) int {
	cmd := &SimpleCommand{
		Use:   "mount [-r] [-t fstype] [-o options] [device dir]",
		Short: "Mount a filesystem or list mounted filesystems.",
	}

	fsType := cmd.Flags().StringLong("types", 't', "", "filesystem type")
	options := cmd.Flags().StringLong("options", 'o', "", "comma separated mount options")
	readOnly := cmd.Flags().BoolLong("read-only", 'r', "mount the filesystem read-only")

	return cmd.Run(system, func() int {
		args := cmd.Flags().Args()

		switch len(args) {
		case 0:
			return listMounts(system, *fsType)

		case 1:
			// Resolving a lone operand needs fstab, which this shell
			// doesn't keep.
			fmt.Fprintf(system.Stderr(), "mount: can't find %s in /etc/fstab\n", args[0])
			return 1

		case 2:
			if *fsType == "" {
				fmt.Fprintf(system.Stderr(), "mount: %s: you must specify the filesystem type\n", args[1])
				return 1
			}

			var flags uintptr
			if *readOnly {
				flags |= sys.MountReadOnly
			}

			if err := system.Mount(args[0], args[1], *fsType, flags, *options); err != nil {
				fmt.Fprintf(system.Stderr(), "mount: %v\n", err)
				return 32
			}
			return 0

		default:
			fmt.Fprintln(system.Stderr(), "mount: too many arguments")
			return 1
		}
	})
}

// listMounts prints the mount table, optionally restricted to one filesystem
// type.
func listMounts(system sys.OS, fsType string) int {
	mounts, err := system.MountedFilesystems()
	if err != nil {
		fmt.Fprintf(system.Stderr(), "mount: %v\n", err)
		return 1
	}

	for _, mp := range mounts {
		if fsType != "" && mp.Type != fsType {
			continue
		}

		opts := mp.Options
		if opts == "" {
			opts = "defaults"
		}
		fmt.Fprintf(system.Stdout(), "%s on %s type %s (%s)\n", mp.Device, mp.Path, mp.Type, opts)
	}
	return 0
}

var _ sys.ProcessFunc = Mount

func init() {
	mustAddForkedCmd("mount", Mount)
}
