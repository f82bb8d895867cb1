package commands

import (
	"fmt"

	"github.com/keelsh/keelsh/core/shell"
	"github.com/keelsh/keelsh/core/sys"
)

// Cd implements the cd builtin. It runs inline: a directory change has to
// land in the interpreter's own process to be visible to later commands.
func Cd(system sys.OS) int {
	args := system.Args()
	switch len(args) {
	case 1:
		args = append(args, system.Getenv(shell.EnvHome))
		fallthrough
	case 2:
		if err := system.Chdir(args[1]); err != nil {
			fmt.Fprintf(system.Stderr(), "%s: %v\n", args[0], err)
			return 1
		}
		if wd, err := system.Getwd(); err == nil {
			// Keep the prompt's PWD in step with the real directory.
			system.Setenv(shell.EnvPWD, wd)
		}
		return 0
	default:
		fmt.Fprintf(system.Stderr(), "%s: too many arguments\n", args[0])
		return 1
	}
}

var _ sys.ProcessFunc = Cd

func init() {
	mustAddCmd("cd", Cd)
}
