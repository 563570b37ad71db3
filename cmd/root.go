package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/facilitymetrics/app"
	"github.com/kilianp07/facilitymetrics/config"
	coremon "github.com/kilianp07/facilitymetrics/core/monitoring"
	"github.com/kilianp07/facilitymetrics/infra/logger"
	"github.com/kilianp07/facilitymetrics/infra/monitoring"
)

var (
	cfgPath string
	dryRun  bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:          "facilitymetrics",
	Short:        "Recompute facility indicators and forecast accuracy from chart history",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger.SetOutput(c.Logging.Writer())
		logger.SetLevel(c.Logging.Level)
		mon, err := monitoring.NewSentryMonitor(c.Sentry)
		if err != nil {
			return fmt.Errorf("sentry: %w", err)
		}
		coremon.Init(mon)
		cfg = c
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		coremon.Flush(2 * time.Second)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "compute and report without writing the facility document")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func buildRunner() (*app.Runner, func(), error) {
	return app.Build(cfg, app.WithDryRun(dryRun))
}
