package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/keelsh/keelsh/commands"
	"github.com/keelsh/keelsh/core/config"
	"github.com/keelsh/keelsh/core/logger"
	"github.com/keelsh/keelsh/core/sys"
)

// forkexecCmd is the hidden entry point the shell re-executes its own
// binary with to run a forked builtin. It resolves the builtin by name,
// runs it against a host backed OS, and terminates with its exit status.
var forkexecCmd = &cobra.Command{
	Use:                sys.ForkExecCommand + " COMMAND [ARG...]",
	Hidden:             true,
	DisableFlagParsing: true,
	Args:               cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		proc, ok := commands.Lookup(args[0])
		if !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: not a builtin\n", args[0])
			exitStatus = 127
			return nil
		}

		configuration := childConfig()

		events := logger.Discard()
		if configuration.Dir() != "" {
			if fd, err := configuration.OpenAppLog(); err == nil {
				defer fd.Close()
				events = logger.NewJSONLinesLogRecorder(fd).Sessionless()
			}
		}

		kernel := sys.NewHostKernel(configuration.Uname.Utsname())
		system := sys.NewSystemOS(kernel, configuration.Dir(), events)
		system.SetArgs(args)

		exitStatus = proc(system)
		return nil
	},
}

// childConfig resolves the configuration a forked child runs under: the
// directory the parent exported, or the built-in defaults.
func childConfig() *config.Configuration {
	dir := os.Getenv(sys.EnvConfigDir)
	if dir == "" {
		return config.Default()
	}

	configuration, err := config.Load(dir)
	if err != nil {
		log.Printf("forkexec: %v", err)
		return config.Default()
	}
	return configuration
}

func init() {
	rootCmd.AddCommand(forkexecCmd)
}
