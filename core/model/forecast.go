package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidForecastKey is returned when a key cannot be split into facility and metric.
var ErrInvalidForecastKey = errors.New("invalid forecast key")

// ForecastKey joins forecast records against actual series. Its string form is
// "facilityId_metricName" where the facility id never contains an underscore.
type ForecastKey struct {
	FacilityID string
	Metric     string
}

// ParseForecastKey splits a key on its first underscore.
func ParseForecastKey(s string) (ForecastKey, error) {
	fac, metric, ok := strings.Cut(s, "_")
	if !ok || fac == "" || metric == "" {
		return ForecastKey{}, fmt.Errorf("%w: %q", ErrInvalidForecastKey, s)
	}
	return ForecastKey{FacilityID: fac, Metric: metric}, nil
}

func (k ForecastKey) String() string {
	return k.FacilityID + "_" + k.Metric
}

// ModelMetrics holds the validation accuracy of one forecast model.
type ModelMetrics struct {
	MAE       float64 `json:"mae"`
	MAPE      float64 `json:"mape"`
	TrainSize int     `json:"trainSize"`
	TestSize  int     `json:"testSize"`
}

// MetricsByKey maps forecast keys to their accuracy records.
type MetricsByKey map[string]ModelMetrics

// ModelMetric returns the record of key.
func (m MetricsByKey) ModelMetric(key string) (ModelMetrics, bool) {
	v, ok := m[key]
	return v, ok
}
