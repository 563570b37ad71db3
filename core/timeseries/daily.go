package timeseries

import (
	"time"

	"github.com/kilianp07/facilitymetrics/core/model"
)

// Day aligns t to the start of its calendar day in the timestamp's own
// offset. Timestamps parsed without a zone are in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DailyMax reduces s to one point per calendar day holding the day's maximum,
// modelling the end-of-day total of a cumulative counter. Points are stamped
// with the start of their day and returned in chronological order.
func DailyMax(s model.Series) model.Series {
	if len(s) == 0 {
		return nil
	}
	var out model.Series
	for _, p := range s.Sorted() {
		d := Day(p.Timestamp)
		if n := len(out); n > 0 && out[n-1].Timestamp.Equal(d) {
			if p.Value > out[n-1].Value {
				out[n-1].Value = p.Value
			}
			continue
		}
		out = append(out, model.TimePoint{Timestamp: d, Value: p.Value})
	}
	return out
}
