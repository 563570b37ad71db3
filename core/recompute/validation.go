package recompute

import (
	"fmt"
	"time"

	"github.com/kilianp07/facilitymetrics/core/model"
	"github.com/kilianp07/facilitymetrics/core/prediction"
	"github.com/kilianp07/facilitymetrics/core/stats"
	"github.com/kilianp07/facilitymetrics/core/timeseries"
)

// Observations is the actual history joined to a forecast key.
type Observations struct {
	Key    model.ForecastKey
	Series model.Series
	// Total is the number of stored records, including any whose timestamp
	// could not be parsed.
	Total int
}

// ValidationMetrics scores engine predictions over the trailing validation
// window of the observations. TrainSize is the whole history length, not the
// size of the training partition. Cumulative metrics are scored on their
// daily maxima. Observations without prediction are left out of MAE and MAPE.
func ValidationMetrics(obs Observations, window time.Duration, kind MetricKind, engine prediction.Engine) (model.ModelMetrics, error) {
	split := timeseries.SplitValidation(obs.Series, window)
	res := model.ModelMetrics{TrainSize: obs.Total, TestSize: len(split.Test)}

	eval := split.Test
	if kind == Cumulative {
		eval = timeseries.DailyMax(split.Test)
	}
	if len(eval) == 0 {
		return res, nil
	}
	preds, err := engine.Predict(prediction.Request{
		Key:        obs.Key,
		History:    obs.Series.Sorted(),
		Eval:       eval,
		Cumulative: kind == Cumulative,
	})
	if err != nil {
		return res, fmt.Errorf("predict %s: %w", obs.Key, err)
	}
	if len(preds) != len(eval) {
		return res, fmt.Errorf("predict %s: got %d predictions for %d observations", obs.Key, len(preds), len(eval))
	}

	actual := make([]float64, 0, len(eval))
	predicted := make([]float64, 0, len(eval))
	for i, p := range eval {
		if prediction.IsMissing(preds[i]) {
			continue
		}
		actual = append(actual, p.Value)
		predicted = append(predicted, preds[i])
	}
	if res.MAE, err = stats.MAE(actual, predicted); err != nil {
		return res, err
	}
	if res.MAPE, err = stats.MAPE(actual, predicted); err != nil {
		return res, err
	}
	return res, nil
}
