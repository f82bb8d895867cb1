package commands

import (
	"fmt"
	"path"
	"syscall"

	"github.com/keelsh/keelsh/core/sys"
	"github.com/spf13/afero"
)

// Rmdir implements a POSIX rmdir command.
func Rmdir(system sys.OS) int {
	cmd := &SimpleCommand{
		Use:   "rmdir [OPTION...] DIRECTORY...",
		Short: "Remove empty directories.",
	}

	parents := cmd.Flags().BoolLong("parents", 'p', "remove DIRECTORY and its ancestors")
	verbose := cmd.Flags().BoolLong("verbose", 'v', "print a line for every removed directory")

	return cmd.Run(system, func() int {
		directories := cmd.Flags().Args()
		if len(directories) == 0 {
			fmt.Fprintln(system.Stderr(), "rmdir: missing operand")

			cmd.PrintHelp(system.Stdout())
			return 1
		}

		anyFailed := false
		for _, dir := range directories {
			steps := []string{dir}
			if *parents {
				for cur := path.Dir(dir); cur != "." && cur != "/"; cur = path.Dir(cur) {
					steps = append(steps, cur)
				}
			}

			for _, step := range steps {
				if *verbose {
					fmt.Fprintf(system.Stdout(), "rmdir: removing directory, %q\n", step)
				}

				if err := removeEmptyDir(system, step); err != nil {
					fmt.Fprintf(system.Stderr(), "rmdir: failed to remove %q: %v\n", step, err)
					anyFailed = true
					// An ancestor can't be empty if this level still
					// exists.
					break
				}
			}
		}

		if anyFailed {
			return 1
		}
		return 0
	})
}

// removeEmptyDir removes dir only when it holds no entries. Some filesystem
// backends happily remove populated directories.
func removeEmptyDir(system sys.OS, dir string) error {
	contents, err := afero.ReadDir(system, dir)
	if err != nil {
		return err
	}
	if len(contents) > 0 {
		return syscall.ENOTEMPTY
	}
	return system.Remove(dir)
}

var _ sys.ProcessFunc = Rmdir

func init() {
	mustAddForkedCmd("rmdir", Rmdir)
}
