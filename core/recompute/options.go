package recompute

import "time"

// SeriesNames maps each facility measure to its chart series name.
type SeriesNames struct {
	Admissions string `json:"admissions"`
	Births     string `json:"births"`
	Discharges string `json:"discharges"`
	ICU        string `json:"icu"`
	Census     string `json:"census"`
}

// DefaultSeriesNames returns the series names used by the chart exports.
func DefaultSeriesNames() SeriesNames {
	return SeriesNames{
		Admissions: "Admissions",
		Births:     "Births",
		Discharges: "Discharges",
		ICU:        "ICU Occupancy",
		Census:     "Total Census",
	}
}

// DefaultDeltaWindow is the lookback of the *Delta24h fields.
const DefaultDeltaWindow = 24 * time.Hour

// MetricKind tells how a metric is evaluated.
type MetricKind int

const (
	// PointInTime metrics are scored per observation.
	PointInTime MetricKind = iota
	// Cumulative metrics are counters scored on their end-of-day totals.
	Cumulative
)

func (k MetricKind) String() string {
	if k == Cumulative {
		return "cumulative"
	}
	return "point"
}

// MetricKinds classifies metric names.
type MetricKinds map[string]MetricKind

// NewMetricKinds marks the given metric names as cumulative.
func NewMetricKinds(cumulative ...string) MetricKinds {
	k := MetricKinds{}
	for _, m := range cumulative {
		k[m] = Cumulative
	}
	return k
}

// DefaultMetricKinds marks admissions, births and discharges as cumulative.
func DefaultMetricKinds() MetricKinds {
	return NewMetricKinds("Admissions", "Births", "Discharges")
}

// Kind returns the kind of metric, PointInTime when unknown.
func (k MetricKinds) Kind(metric string) MetricKind {
	return k[metric]
}
