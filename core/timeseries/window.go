package timeseries

import (
	"time"

	"github.com/kilianp07/facilitymetrics/core/model"
)

// LatestDelta is the latest observation of a series and its change over a window.
type LatestDelta struct {
	Latest     float64
	Delta      float64
	LatestTime time.Time
	// Reference is the value the delta was taken against.
	Reference float64
	// Cutoff is LatestTime minus the window. Zero for an empty series.
	Cutoff time.Time
}

// LatestAndDelta returns the latest value of s and latest minus the value of
// the last point at or before latest-window. When no point is old enough the
// reference is the latest value itself and the delta is 0. An empty series
// yields all zeros.
func LatestAndDelta(s model.Series, window time.Duration) LatestDelta {
	if len(s) == 0 {
		return LatestDelta{}
	}
	sorted := s.Sorted()
	last := sorted[len(sorted)-1]
	res := LatestDelta{
		Latest:     last.Value,
		LatestTime: last.Timestamp,
		Reference:  last.Value,
		Cutoff:     last.Timestamp.Add(-window),
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if !sorted[i].Timestamp.After(res.Cutoff) {
			res.Reference = sorted[i].Value
			break
		}
	}
	res.Delta = res.Latest - res.Reference
	return res
}
