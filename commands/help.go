package commands

import (
	"fmt"

	"github.com/keelsh/keelsh/core/sys"
)

// Help lists every builtin the shell supports, in table order.
func Help(system sys.OS) int {
	cmd := &SimpleCommand{
		Use:   "help",
		Short: "Display a list of supported commands.",

		// Never bail, even if args are bad.
		NeverBail: true,
	}

	return cmd.Run(system, func() int {
		w := system.Stdout()
		fmt.Fprintln(w, "Available commands are:")
		for _, entry := range Builtins() {
			fmt.Fprintf(w, "  %s\n", entry.Name)
		}
		return 0
	})
}

var _ sys.ProcessFunc = Help

func init() {
	mustAddForkedCmd("help", Help)
}
