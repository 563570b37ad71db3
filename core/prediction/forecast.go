package prediction

import (
	"sort"
	"time"

	"github.com/kilianp07/facilitymetrics/core/model"
	"github.com/kilianp07/facilitymetrics/core/timeseries"
)

// DefaultTolerance is the maximum distance between an observation and the
// forecast point aligned to it.
const DefaultTolerance = 30 * time.Minute

// ForecastEngine scores the stored forecast records of each key.
type ForecastEngine struct {
	Forecasts model.ForecastData
	Tolerance time.Duration
}

// NewForecastEngine returns an engine over the given forecast records.
func NewForecastEngine(f model.ForecastData, tolerance time.Duration) ForecastEngine {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return ForecastEngine{Forecasts: f, Tolerance: tolerance}
}

// Predict aligns each evaluated observation with the nearest forecast point
// within the tolerance. Cumulative metrics are aligned by calendar day on the
// daily maximum of the forecasts.
func (e ForecastEngine) Predict(req Request) ([]float64, error) {
	preds := make([]float64, len(req.Eval))
	for i := range preds {
		preds[i] = Missing()
	}
	raw, ok := e.Forecasts[req.Key.String()]
	if !ok {
		return preds, nil
	}
	fc, _ := model.ParseSeries(raw)
	tolerance := e.Tolerance
	if req.Cumulative {
		fc = timeseries.DailyMax(fc)
		tolerance = 0
	} else {
		fc = fc.Sorted()
	}
	for i, p := range req.Eval {
		if v, ok := nearest(fc, p.Timestamp, tolerance); ok {
			preds[i] = v
		}
	}
	return preds, nil
}

// nearest finds the point of the sorted series closest to t. Ties go to the
// earlier point.
func nearest(s model.Series, t time.Time, tolerance time.Duration) (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	idx := sort.Search(len(s), func(i int) bool { return !s[i].Timestamp.Before(t) })
	best, bestDiff := -1, time.Duration(0)
	for _, j := range []int{idx - 1, idx} {
		if j < 0 || j >= len(s) {
			continue
		}
		diff := s[j].Timestamp.Sub(t)
		if diff < 0 {
			diff = -diff
		}
		if diff > tolerance {
			continue
		}
		if best < 0 || diff < bestDiff {
			best, bestDiff = j, diff
		}
	}
	if best < 0 {
		return 0, false
	}
	return s[best].Value, true
}
