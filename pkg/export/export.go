// Package export renders model accuracy records as a console table, CSV,
// JSON or an HTML bar chart.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/kilianp07/facilitymetrics/core/model"
)

// Formats accepted by Write.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatHTML  = "html"
)

// Row is the accuracy record of one forecast key.
type Row struct {
	Key       string  `json:"metric_key"`
	MAE       float64 `json:"mae"`
	MAPE      float64 `json:"mape"`
	TrainSize int     `json:"trainSize"`
	TestSize  int     `json:"testSize"`
}

// Rows flattens the records sorted by key.
func Rows(metrics map[string]model.ModelMetrics) []Row {
	out := make([]Row, 0, len(metrics))
	for k, m := range metrics {
		out = append(out, Row{Key: k, MAE: m.MAE, MAPE: m.MAPE, TrainSize: m.TrainSize, TestSize: m.TestSize})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Write renders rows in the given format.
func Write(w io.Writer, format string, rows []Row) error {
	switch strings.ToLower(format) {
	case FormatTable, "":
		return WriteTable(w, rows)
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	case FormatHTML:
		return WriteHTML(w, rows)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteTable writes an aligned summary table.
func WriteTable(w io.Writer, rows []Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintln(tw, "metric_key\tmae\tmape\ttrainSize\ttestSize\t"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t\n",
			r.Key, formatFloat(r.MAE), formatFloat(r.MAPE), r.TrainSize, r.TestSize); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteJSON writes the rows as a JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if rows == nil {
		rows = []Row{}
	}
	return enc.Encode(rows)
}

// WriteCSV writes the rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"metric_key", "mae", "mape", "trainSize", "testSize"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Key,
			formatFloat(r.MAE),
			formatFloat(r.MAPE),
			strconv.Itoa(r.TrainSize),
			strconv.Itoa(r.TestSize),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
