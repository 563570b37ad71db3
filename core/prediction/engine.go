package prediction

import (
	"math"

	"github.com/kilianp07/facilitymetrics/core/model"
)

// Request describes the observations to predict for one forecast key.
type Request struct {
	Key model.ForecastKey
	// History is the full actual series sorted chronologically.
	History model.Series
	// Eval holds the observations to predict: the validation partition, or
	// its end-of-day totals for cumulative metrics.
	Eval model.Series
	// Cumulative is set when Eval holds end-of-day totals.
	Cumulative bool
}

// Engine produces predictions for the evaluated observations.
type Engine interface {
	// Predict returns len(req.Eval) values. NaN marks an observation the
	// engine has no prediction for; it is left out of the error metrics.
	Predict(req Request) ([]float64, error)
}

// Missing is the placeholder for an observation without prediction.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v marks a missing prediction.
func IsMissing(v float64) bool { return math.IsNaN(v) }
