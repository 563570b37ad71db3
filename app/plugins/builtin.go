package plugins

import (
	"github.com/kilianp07/facilitymetrics/config"
	"github.com/kilianp07/facilitymetrics/core/prediction"
	"github.com/kilianp07/facilitymetrics/core/recompute"
)

func init() {
	RegisterScorer(config.ModeStored, func(cfg config.ModelsConfig, in Inputs) (recompute.Scorer, error) {
		s := recompute.NewStoredScorer(in.Prior)
		s.Window = cfg.StoredWindow
		return s, nil
	})
	RegisterScorer(config.ModeSynthetic, func(cfg config.ModelsConfig, _ Inputs) (recompute.Scorer, error) {
		return engineScorer(cfg, prediction.SyntheticEngine{
			PointNoise:      cfg.PointNoise,
			CumulativeNoise: cfg.CumulativeNoise,
		}), nil
	})
	RegisterScorer(config.ModeForecast, func(cfg config.ModelsConfig, in Inputs) (recompute.Scorer, error) {
		return engineScorer(cfg, prediction.NewForecastEngine(in.Forecasts, cfg.Tolerance)), nil
	})
}

func engineScorer(cfg config.ModelsConfig, e prediction.Engine) recompute.EngineScorer {
	s := recompute.NewEngineScorer(e)
	s.Window = cfg.PredictedWindow
	s.Kinds = cfg.Kinds()
	if cfg.Decimals != nil {
		s.Decimals = *cfg.Decimals
	}
	return s
}
