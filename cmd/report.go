package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/facilitymetrics/infra/store"
	"github.com/kilianp07/facilitymetrics/pkg/export"
)

var (
	reportFormat string
	reportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the stored model metrics as a table, CSV, JSON or HTML chart",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := store.NewJSONStore(cfg.Stores).LoadFacilities()
		if err != nil {
			return err
		}
		var w io.Writer = cmd.OutOrStdout()
		if reportOut != "" {
			f, err := os.Create(reportOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", reportOut, err)
			}
			defer func() { _ = f.Close() }()
			w = f
		}
		return export.Write(w, reportFormat, export.Rows(reg.ModelMetrics()))
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", export.FormatTable, "output format: table, csv, json or html")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(reportCmd)
}
