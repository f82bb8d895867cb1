package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keelsh/keelsh/commands"
)

// builtinsCmd lists the commands compiled into the shell.
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, builtin := range commands.Builtins() {
			mode := "forked"
			if !builtin.Forked {
				mode = "inline"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s%s\n", builtin.Name, mode)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
