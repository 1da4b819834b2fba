// Package cli wires the command-line surface: the monitor loop, the one-shot
// summary, config generation, and version output. Commands only parse flags
// and load config; the sampling machinery lives in internal/scheduler.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Persistent flags shared by all commands.
var (
	configFlag string
	onceFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "sysmon",
	Short: "Monitor system resources and performance",
	Long: `sysmon periodically samples host resource metrics (CPU, memory, disk,
per-process usage), renders them as a terminal dashboard, and raises alerts
when configured thresholds are crossed.

Running sysmon without a subcommand starts the monitor loop.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMonitor(onceFlag)
	},
}

// Execute runs the root command tree. Fatal startup failures (unreadable or
// invalid config) exit non-zero; a clean stop, including user interrupt,
// exits zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVar(&onceFlag, "once", false, "Run one sampling cycle and exit")
}
