package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/keelsh/keelsh/core/logger"
)

var logsCmd = &cobra.Command{
	Use:     "logs",
	Aliases: []string{"log", "events"},
	Short:   "Explore the recorded event log.",
}

// reportCommand summarizes the whole event log.
var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Show aggregate statistics over all events.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var report logger.Report
		if err := readAppLog(report.Update); err != nil {
			return err
		}

		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

// sessionsCommand groups events by the session that produced them.
var sessionsCommand = &cobra.Command{
	Use:   "sessions",
	Short: "Show a per-session breakdown of events.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var report logger.SessionHistoryReport
		if err := readAppLog(report.Update); err != nil {
			return err
		}

		out, err := yaml.Marshal(&report)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

// catCommand prints events one per line in arrival order.
var catCommand = &cobra.Command{
	Use:   "cat",
	Short: "Print every event as a human readable line.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		return readAppLog(func(le *logger.LogEntry) {
			event := le.Event()
			if event == nil {
				return
			}
			when := time.UnixMicro(le.TimestampMicros).UTC().Format(time.RFC3339)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", when, event)
		})
	},
}

// readAppLog streams the event log of the config directory through handler.
func readAppLog(handler func(*logger.LogEntry)) error {
	configuration, err := loadConfig()
	if err != nil {
		return err
	}

	fd, err := configuration.ReadAppLog()
	if err != nil {
		return err
	}
	defer fd.Close()

	return logger.ReadJSONLinesLog(fd, handler)
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(reportCommand)
	logsCmd.AddCommand(sessionsCommand)
	logsCmd.AddCommand(catCommand)
}
