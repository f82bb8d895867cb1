package commands

import (
	"flag"
	"fmt"

	"github.com/keelsh/keelsh/core/sys"
)

// Pwd implements the UNIX pwd command.
func Pwd(system sys.OS) int {
	flags := flag.NewFlagSet("pwd", flag.ContinueOnError)
	flags.SetOutput(system.Stderr())
	if err := flags.Parse(system.Args()[1:]); err != nil {
		system.LogInvalidInvocation(err)

		fmt.Fprintln(system.Stderr(), "Usage: pwd")
		fmt.Fprintln(system.Stderr(), "Print the name of the current working directory.")
		return 1
	}

	// Report the live directory rather than $PWD so a stale environment
	// can't lie about where we are.
	wd, err := system.Getwd()
	if err != nil {
		fmt.Fprintf(system.Stderr(), "pwd: %v\n", err)
		return 1
	}
	fmt.Fprintln(system.Stdout(), wd)

	return 0
}

var _ sys.ProcessFunc = Pwd

func init() {
	mustAddForkedCmd("pwd", Pwd)
}
