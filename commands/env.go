package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/keelsh/keelsh/core/sys"
)

// Env implements the POSIX env command. It runs inline so that NAME=VALUE
// operands land in the interpreter's own environment.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/env.html
func Env(system sys.OS) int {
	cmd := &SimpleCommand{
		Use:   "env [NAME=VALUE]...",
		Short: "Set or print the environment for command invocation.",
	}

	return cmd.Run(system, func() int {
		for _, arg := range cmd.Flags().Args() {
			if !strings.Contains(arg, "=") {
				// Operands without an assignment name a utility to run,
				// which this shell has no path for.
				fmt.Fprintf(system.Stderr(), "env: %q: No such file or directory\n", arg)
				return 127
			}
			name, value := sys.SplitEnvDef(arg)
			system.Setenv(name, value)
		}

		env := system.Environ()
		sort.Strings(env)
		for _, envDef := range env {
			fmt.Fprintln(system.Stdout(), envDef)
		}

		return 0
	})
}

var _ sys.ProcessFunc = Env

func init() {
	mustAddCmd("env", Env)
}
