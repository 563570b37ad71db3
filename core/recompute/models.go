package recompute

import (
	"fmt"

	"github.com/kilianp07/facilitymetrics/core/model"
)

// KeyMetrics is the accuracy record computed for one forecast key.
type KeyMetrics struct {
	Key     string
	Metrics model.ModelMetrics
}

// ModelReport summarises a model metrics recompute.
type ModelReport struct {
	Scored    []KeyMetrics
	Skipped   []string
	BadPoints int
}

// ModelMetrics scores every forecast key joined to a chart series and merges
// the results into a copy of the registry. Entries of keys that are not
// scored are left as they were. A scorer error aborts the recompute.
func (r *Recomputer) ModelMetrics(charts model.ChartData, forecasts model.ForecastData, reg *model.FacilityRegistry, scorer Scorer) (*model.FacilityRegistry, ModelReport, error) {
	out := reg.Clone()
	var rep ModelReport
	for _, k := range forecasts.Keys() {
		key, err := model.ParseForecastKey(k)
		if err != nil {
			r.log.Debugf("skip forecast: %v", err)
			rep.Skipped = append(rep.Skipped, k)
			continue
		}
		raw, ok := charts.Series(key.FacilityID, key.Metric)
		if !ok {
			r.log.Debugf("skip forecast %s: no chart series", k)
			rep.Skipped = append(rep.Skipped, k)
			continue
		}
		s, errs := model.ParseSeries(raw)
		for _, err := range errs {
			r.log.Warnf("forecast %s: %v", k, err)
		}
		rep.BadPoints += len(errs)

		m, err := scorer.Score(Observations{Key: key, Series: s, Total: len(raw)})
		if err != nil {
			return nil, rep, fmt.Errorf("score %s: %w", k, err)
		}
		out.SetModelMetric(k, m)
		rep.Scored = append(rep.Scored, KeyMetrics{Key: k, Metrics: m})
		r.log.Debugw("model metrics", map[string]any{
			"key": k, "mae": m.MAE, "mape": m.MAPE, "train_size": m.TrainSize, "test_size": m.TestSize,
		})
	}
	return out, rep, nil
}
