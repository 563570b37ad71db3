package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrInvalidTimestamp is returned when a timestamp matches none of the accepted layouts.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// timestampLayouts lists the ISO-8601 variants found in chart and forecast logs.
// Layouts without a zone are parsed as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// RawPoint is the on-disk representation of an observation.
type RawPoint struct {
	T string  `json:"t"`
	V float64 `json:"v"`
}

// TimePoint is a single parsed observation.
type TimePoint struct {
	Timestamp time.Time
	Value     float64
}

// Series is a sequence of observations for one facility metric.
type Series []TimePoint

// ParseSeries converts raw points into a Series. Points with an unparsable
// timestamp are left out and reported in the returned error slice.
func ParseSeries(raw []RawPoint) (Series, []error) {
	s := make(Series, 0, len(raw))
	var errs []error
	for i, p := range raw {
		ts, err := ParseTimestamp(p.T)
		if err != nil {
			errs = append(errs, fmt.Errorf("point %d: %w", i, err))
			continue
		}
		s = append(s, TimePoint{Timestamp: ts, Value: p.V})
	}
	return s, errs
}

// Sorted returns a chronologically ordered copy. Points sharing a timestamp are
// ordered by value so that equal point sets always sort identically.
func (s Series) Sorted() Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Value < out[j].Value
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// Values returns the observation values in series order.
func (s Series) Values() []float64 {
	v := make([]float64, len(s))
	for i, p := range s {
		v[i] = p.Value
	}
	return v
}

// Latest returns the most recent timestamp of the series.
func (s Series) Latest() (time.Time, bool) {
	if len(s) == 0 {
		return time.Time{}, false
	}
	latest := s[0].Timestamp
	for _, p := range s[1:] {
		if p.Timestamp.After(latest) {
			latest = p.Timestamp
		}
	}
	return latest, true
}
