package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/keelsh/keelsh/commands"
	"github.com/keelsh/keelsh/core/config"
	"github.com/keelsh/keelsh/core/logger"
	"github.com/keelsh/keelsh/core/shell"
	"github.com/keelsh/keelsh/core/sys"
)

var cfgPath string

// exitStatus is the code the process terminates with after a clean command
// run. The interactive shell and the forkexec trampoline set it to relay
// builtin exit statuses.
var exitStatus int

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// loadOrDefaultConfig loads the config directory, falling back to the
// built-in defaults when none has been initialized.
func loadOrDefaultConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return configuration, err
}

// rootCmd runs an interactive shell on the local system when invoked
// without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "keelsh",
	Short: "A tiny embeddable command interpreter.",
	Long: `keelsh is a small interactive shell with a fixed table of builtin commands.
Run it bare for a local prompt, or "keelsh serve" to expose the same shell
over SSH.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadOrDefaultConfig()
		if err != nil {
			return err
		}

		session, cleanup, err := openSessionEvents(configuration)
		if err != nil {
			return err
		}
		defer cleanup()

		kernel := sys.NewHostKernel(configuration.Uname.Utsname())
		system := sys.NewSystemOS(kernel, configuration.Dir(), session)

		sh := shell.NewShell(system, commands.Builtins())
		sh.MOTD = configuration.Motd
		sh.DefaultHome = configuration.OS.DefaultHome
		sh.DefaultWorkdir = configuration.OS.DefaultWorkdir

		session.Record(&logger.SessionStart{User: system.Getenv("USER")})
		exitStatus = sh.Run()
		session.Record(&logger.SessionEnd{ExitCode: exitStatus})
		return nil
	},
}

// openSessionEvents starts an event log session in the config directory.
// Without a config directory events are dropped.
func openSessionEvents(configuration *config.Configuration) (*logger.SessionLogger, func(), error) {
	if configuration.Dir() == "" {
		return logger.Discard(), func() {}, nil
	}

	fd, err := configuration.OpenAppLog()
	if err != nil {
		return nil, nil, err
	}
	return logger.NewJSONLinesLogRecorder(fd).NewSession(), func() { fd.Close() }, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitStatus)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
