package commands

import (
	"fmt"
	"os"

	"github.com/keelsh/keelsh/core/sys"
)

// Mkdir implements a POSIX mkdir command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/mkdir.html
func Mkdir(system sys.OS) int {
	cmd := &SimpleCommand{
		Use:   "mkdir [OPTION...] DIRECTORY...",
		Short: "Create directories if they don't exist.",
	}

	makeParents := cmd.Flags().BoolLong("parents", 'p', "make parents if needed")
	verbose := cmd.Flags().BoolLong("verbose", 'v', "print a line for every created directory")

	return cmd.Run(system, func() int {
		directories := cmd.Flags().Args()
		if len(directories) == 0 {
			fmt.Fprintln(system.Stderr(), "mkdir: missing operand")

			cmd.PrintHelp(system.Stdout())
			return 1
		}

		var op func(path string, perm os.FileMode) error
		if *makeParents {
			op = system.MkdirAll
		} else {
			op = system.Mkdir
		}

		anyFailed := false
		for _, dir := range directories {
			if err := op(dir, 0777); err != nil {
				fmt.Fprintf(system.Stderr(), "mkdir: cannot create directory %q: %v\n", dir, err)
				anyFailed = true
				continue
			}

			if *verbose {
				fmt.Fprintf(system.Stdout(), "mkdir: created directory %q\n", dir)
			}
		}

		if anyFailed {
			return 1
		}
		return 0
	})
}

var _ sys.ProcessFunc = Mkdir

func init() {
	mustAddForkedCmd("mkdir", Mkdir)
}
