package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/facilitymetrics/infra/audit"
)

var (
	historyKind  string
	historyKey   string
	historySince time.Duration
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past recompute runs from the audit store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := audit.New(cfg.Audit)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		q := audit.Query{Kind: historyKind, Key: historyKey, Limit: historyLimit}
		if historySince > 0 {
			q.Start = time.Now().Add(-historySince)
		}
		recs, err := st.Query(cmd.Context(), q)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tRUN\tKIND\tMODE\tSTATUS\tFACILITIES\tKEYS")
		for _, r := range recs {
			status := "ok"
			switch {
			case !r.Success:
				status = "error: " + r.Error
			case r.DryRun:
				status = "dry-run"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
				r.Timestamp.Format(time.RFC3339), r.RunID, r.Kind, r.Mode, status, len(r.Facilities), len(r.ModelMetrics))
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyKind, "kind", "", "filter by run kind (facilities, models, all)")
	historyCmd.Flags().StringVar(&historyKey, "key", "", "only runs that scored this forecast key")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "only runs newer than this duration")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs, most recent kept")
	rootCmd.AddCommand(historyCmd)
}
