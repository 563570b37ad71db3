package recompute

import (
	"time"

	"github.com/kilianp07/facilitymetrics/core/model"
	"github.com/kilianp07/facilitymetrics/core/prediction"
	"github.com/kilianp07/facilitymetrics/core/stats"
	"github.com/kilianp07/facilitymetrics/core/timeseries"
)

// Scorer produces the accuracy record of one forecast key.
type Scorer interface {
	Score(obs Observations) (model.ModelMetrics, error)
}

// Default validation windows.
const (
	DefaultStoredWindow    = 24 * time.Hour
	DefaultPredictedWindow = 72 * time.Hour
)

// EngineScorer scores the predictions of an engine over the validation window.
type EngineScorer struct {
	Engine prediction.Engine
	Window time.Duration
	Kinds  MetricKinds
	// Decimals rounds MAE and MAPE; negative disables rounding.
	Decimals int
}

// NewEngineScorer returns a scorer over the default 72h window rounding to two decimals.
func NewEngineScorer(engine prediction.Engine) EngineScorer {
	return EngineScorer{Engine: engine, Window: DefaultPredictedWindow, Kinds: DefaultMetricKinds(), Decimals: 2}
}

func (s EngineScorer) Score(obs Observations) (model.ModelMetrics, error) {
	m, err := ValidationMetrics(obs, s.Window, s.Kinds.Kind(obs.Key.Metric), s.Engine)
	if err != nil {
		return m, err
	}
	if s.Decimals >= 0 {
		m.MAE = stats.Round(m.MAE, s.Decimals)
		m.MAPE = stats.Round(m.MAPE, s.Decimals)
	}
	return m, nil
}

// StoredScorer keeps the accuracy recorded when the models were trained and
// only refreshes the history counters. Keys without a stored record get a
// zero MAE and MAPE.
type StoredScorer struct {
	Prior  MetricsLookup
	Window time.Duration
}

// MetricsLookup returns the stored accuracy record of a forecast key.
// *model.FacilityRegistry and model.MetricsByKey implement it.
type MetricsLookup interface {
	ModelMetric(key string) (model.ModelMetrics, bool)
}

// NewStoredScorer returns a scorer reading accuracy from prior over a 24h window.
func NewStoredScorer(prior MetricsLookup) StoredScorer {
	return StoredScorer{Prior: prior, Window: DefaultStoredWindow}
}

func (s StoredScorer) Score(obs Observations) (model.ModelMetrics, error) {
	split := timeseries.SplitValidation(obs.Series, s.Window)
	m := model.ModelMetrics{TrainSize: obs.Total, TestSize: len(split.Test)}
	if s.Prior == nil {
		return m, nil
	}
	if prior, ok := s.Prior.ModelMetric(obs.Key.String()); ok {
		m.MAE = prior.MAE
		m.MAPE = prior.MAPE
	}
	return m, nil
}
