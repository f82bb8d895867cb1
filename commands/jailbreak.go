package commands

import (
	"fmt"

	"github.com/keelsh/keelsh/core/sys"
)

// Jailbreak asks the platform backend to lift the interpreter's credentials
// to root. It runs inline: escalating a short lived child would change
// nothing for the session.
func Jailbreak(system sys.OS) int {
	args := system.Args()

	if system.Getuid() == 0 {
		fmt.Fprintf(system.Stdout(), "%s: already root\n", args[0])
		return 0
	}

	if err := system.Escalate(); err != nil {
		fmt.Fprintf(system.Stderr(), "%s: %v\n", args[0], err)
		return 1
	}

	fmt.Fprintf(system.Stdout(), "%s: credentials updated, uid=%d\n", args[0], system.Getuid())
	return 0
}

var _ sys.ProcessFunc = Jailbreak

func init() {
	mustAddCmd("jailbreak", Jailbreak)
}
