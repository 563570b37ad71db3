package model

import "sort"

// ChartData holds raw observations per facility and metric name.
type ChartData map[string]map[string][]RawPoint

// Series returns the raw points of one facility metric.
func (c ChartData) Series(facilityID, metric string) ([]RawPoint, bool) {
	metrics, ok := c[facilityID]
	if !ok {
		return nil, false
	}
	pts, ok := metrics[metric]
	return pts, ok
}

// FacilityIDs returns the sorted facility identifiers.
func (c ChartData) FacilityIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ForecastData holds stored forecast records keyed by "facilityId_metricName".
type ForecastData map[string][]RawPoint

// Keys returns the sorted forecast keys.
func (f ForecastData) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
