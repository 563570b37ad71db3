package timeseries

import (
	"time"

	"github.com/kilianp07/facilitymetrics/core/model"
)

// Split partitions a series around a validation cutoff.
type Split struct {
	Train  model.Series
	Test   model.Series
	Cutoff time.Time
}

// SplitValidation holds out the trailing window of s: points after
// max(timestamp)-window go to Test, the rest to Train. Both partitions are
// sorted chronologically.
func SplitValidation(s model.Series, window time.Duration) Split {
	if len(s) == 0 {
		return Split{}
	}
	sorted := s.Sorted()
	cutoff := sorted[len(sorted)-1].Timestamp.Add(-window)
	sp := Split{Cutoff: cutoff}
	for _, p := range sorted {
		if p.Timestamp.After(cutoff) {
			sp.Test = append(sp.Test, p)
		} else {
			sp.Train = append(sp.Train, p)
		}
	}
	return sp
}
