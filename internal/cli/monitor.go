package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sysmon-tools/sysmon/internal/alert"
	"github.com/sysmon-tools/sysmon/internal/collector"
	"github.com/sysmon-tools/sysmon/internal/config"
	"github.com/sysmon-tools/sysmon/internal/render"
	"github.com/sysmon-tools/sysmon/internal/scheduler"
)

var monitorOnceFlag bool

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the monitor loop (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMonitor(monitorOnceFlag)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a one-shot system summary",
	Long:  `Sample all metrics once, render the dashboard, and exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMonitor(true)
	},
}

func init() {
	monitorCmd.Flags().BoolVar(&monitorOnceFlag, "once", false, "Run one sampling cycle and exit")
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(summaryCmd)
}

// runMonitor loads config, assembles the pipeline, and runs the sampling
// loop — continuously, or for a single cycle when once is set.
func runMonitor(once bool) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	registry := collector.NewRegistry(logger)
	registry.Register(collector.NewCPUCollector())
	registry.Register(collector.NewMemoryCollector())
	registry.Register(collector.NewSwapCollector())
	registry.Register(collector.NewDiskCollector(logger))
	registry.Register(collector.NewProcessCollector(cfg.Display.MaxProcessesToDisplay))
	registry.Register(collector.NewSystemCollector())

	renderer := render.NewDashboard(os.Stdout, cfg.Display)
	loop := scheduler.New(registry, cfg, renderer, buildSink(cfg, logger), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	if once {
		return loop.RunOnce(ctx)
	}

	logger.Info("Monitor running",
		zap.Duration("refresh_interval", cfg.General.RefreshInterval.Duration))
	loop.Run(ctx)
	logger.Info("Monitor stopped")
	return nil
}

// buildSink assembles the alert sink chain: structured logging always, plus
// the alert log file when enabled.
func buildSink(cfg *config.Config, logger *zap.Logger) alert.Sink {
	if cfg.General.LogAlerts && cfg.General.LogFile != "" {
		return alert.NewMultiSink(
			alert.NewLogSink(logger),
			alert.NewFileSink(cfg.General.LogFile),
		)
	}
	return alert.NewLogSink(logger)
}
