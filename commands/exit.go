package commands

import (
	"fmt"
	"strconv"

	"github.com/keelsh/keelsh/core/sys"
)

// Exit implements the exit builtin. It runs inline because it has to stop
// the interpreter loop itself.
func Exit(system sys.OS) int {
	args := system.Args()

	code := 0
	if len(args) > 1 {
		var err error
		code, err = strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(system.Stderr(), "%s: %s: numeric argument required\n", args[0], args[1])
			code = 2
		}
	}

	system.Shutdown(code)
	return code
}

var _ sys.ProcessFunc = Exit

func init() {
	mustAddCmd("exit", Exit)
}
