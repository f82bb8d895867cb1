package commands

import (
	"fmt"

	"github.com/keelsh/keelsh/core/sys"
)

// Dmesg implements a dmesg command over the kernel ring buffer.
func Dmesg(system sys.OS) int {
	cmd := &SimpleCommand{
		Use:   "dmesg [OPTION...]",
		Short: "Print the kernel ring buffer.",

		// Never bail, even if args are bad.
		NeverBail: true,
	}

	return cmd.Run(system, func() int {
		contents, err := system.ReadKernelLog()
		if err != nil {
			fmt.Fprintf(system.Stderr(), "dmesg: %v\n", err)
			return 1
		}

		system.Stdout().Write(contents)
		if n := len(contents); n > 0 && contents[n-1] != '\n' {
			fmt.Fprintln(system.Stdout())
		}
		return 0
	})
}

var _ sys.ProcessFunc = Dmesg

func init() {
	mustAddForkedCmd("dmesg", Dmesg)
}
