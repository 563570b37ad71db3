package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteHTML renders MAE and MAPE per forecast key as a bar chart page.
func WriteHTML(w io.Writer, rows []Row) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Model accuracy", Subtitle: "MAE and MAPE (%) per forecast key"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Forecast key"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Error"}),
	)

	keys := make([]string, 0, len(rows))
	mae := make([]opts.BarData, 0, len(rows))
	mape := make([]opts.BarData, 0, len(rows))
	for _, r := range rows {
		keys = append(keys, r.Key)
		mae = append(mae, opts.BarData{Value: r.MAE})
		mape = append(mape, opts.BarData{Value: r.MAPE})
	}
	bar.SetXAxis(keys).
		AddSeries("MAE", mae).
		AddSeries("MAPE", mape)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
