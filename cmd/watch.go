package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	coremetrics "github.com/kilianp07/facilitymetrics/core/metrics"
	coremon "github.com/kilianp07/facilitymetrics/core/monitoring"
	"github.com/kilianp07/facilitymetrics/infra/logger"
	"github.com/kilianp07/facilitymetrics/infra/metrics"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run a full recompute whenever the chart or forecast documents change",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r, closeFn, err := buildRunner()
		if err != nil {
			return err
		}
		defer closeFn()

		log := logger.New("watch")
		if addr := cfg.Metrics.ListenAddr; addr != "" {
			go func() {
				defer coremon.Recover()
				if err := metrics.StartPromServer(ctx, addr, metrics.Registry); err != nil {
					log.Errorf("prom server: %v", err)
				}
			}()
		}
		events := r.Subscribe()
		defer r.Unsubscribe(events)
		go printRunEvents(cmd.OutOrStdout(), events)
		if _, err := r.RunAll(ctx); err != nil {
			log.Warnf("initial run failed: %v", err)
		}
		return r.Watch(ctx, []string{cfg.Stores.Charts, cfg.Stores.Forecasts}, cfg.Watch.Debounce)
	},
}

// printRunEvents writes one line per finished run until events is closed.
func printRunEvents(out io.Writer, events <-chan coremetrics.RunEvent) {
	defer coremon.Recover()
	for ev := range events {
		status := "ok"
		if !ev.Succeeded() {
			status = "failed: " + ev.Err
		}
		fmt.Fprintf(out, "%s run %s %s in %s (%d facilities, %d keys)\n",
			ev.Finished.Format("15:04:05"), ev.RunID, status, ev.Duration().Round(time.Millisecond), ev.FacilitiesUpdated, ev.KeysScored)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
