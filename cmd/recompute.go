package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/facilitymetrics/app"
	"github.com/kilianp07/facilitymetrics/app/plugins"
	"github.com/kilianp07/facilitymetrics/core/model"
	"github.com/kilianp07/facilitymetrics/pkg/export"
)

var modelsMode string

var facilitiesCmd = &cobra.Command{
	Use:   "facilities",
	Short: "Recompute latest values, percentages and 24h deltas of every facility",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWith(cmd, (*app.Runner).UpdateFacilities)
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Recompute the accuracy record of every forecast model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if modelsMode != "" {
			cfg.Models.Mode = modelsMode
			if err := cfg.Models.Validate(); err != nil {
				return err
			}
		}
		return runWith(cmd, (*app.Runner).UpdateModelMetrics)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Recompute facilities and models, writing the facility document once",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWith(cmd, (*app.Runner).RunAll)
	},
}

func init() {
	modelsCmd.Flags().StringVar(&modelsMode, "mode", "", fmt.Sprintf("accuracy mode %v", plugins.Modes()))
	rootCmd.AddCommand(facilitiesCmd, modelsCmd, runCmd)
}

func runWith(cmd *cobra.Command, fn func(*app.Runner, context.Context) (app.Result, error)) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, closeFn, err := buildRunner()
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := fn(r, ctx)
	if err != nil {
		return err
	}
	return printResult(cmd, res)
}

func printResult(cmd *cobra.Command, res app.Result) error {
	out := cmd.OutOrStdout()
	if len(res.Facilities.Updated) > 0 || len(res.Facilities.Skipped) > 0 {
		fmt.Fprintf(out, "Facilities: %d updated, %d skipped\n", len(res.Facilities.Updated), len(res.Facilities.Skipped))
	}
	if len(res.Models.Scored) > 0 {
		metrics := make(map[string]model.ModelMetrics, len(res.Models.Scored))
		for _, km := range res.Models.Scored {
			metrics[km.Key] = km.Metrics
		}
		fmt.Fprintf(out, "Forecast metrics summary (%s):\n", res.Mode)
		if err := export.WriteTable(out, export.Rows(metrics)); err != nil {
			return err
		}
	}
	switch {
	case res.Written:
		fmt.Fprintf(out, "Updated %s (run %s)\n", cfg.Stores.Facilities, res.RunID)
	case dryRun:
		fmt.Fprintf(out, "Dry run %s: nothing written\n", res.RunID)
	}
	return nil
}
