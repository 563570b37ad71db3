// Package plugins maps the configured accuracy mode to the scorer that
// produces model metrics.
package plugins

import (
	"fmt"
	"sort"

	"github.com/kilianp07/facilitymetrics/config"
	"github.com/kilianp07/facilitymetrics/core/model"
	"github.com/kilianp07/facilitymetrics/core/recompute"
)

// Inputs carries the run data a scorer may depend on.
type Inputs struct {
	Forecasts model.ForecastData
	// Prior reads the model metrics currently stored in the registry.
	Prior recompute.MetricsLookup
}

// ScorerFactory builds a scorer for one run.
type ScorerFactory func(cfg config.ModelsConfig, in Inputs) (recompute.Scorer, error)

var Scorers = map[string]ScorerFactory{}

func RegisterScorer(mode string, f ScorerFactory) { Scorers[mode] = f }

// NewScorer builds the scorer registered for cfg.Mode.
func NewScorer(cfg config.ModelsConfig, in Inputs) (recompute.Scorer, error) {
	f, ok := Scorers[cfg.Mode]
	if !ok {
		return nil, fmt.Errorf("unknown models mode %q (known: %v)", cfg.Mode, Modes())
	}
	return f(cfg, in)
}

// Modes lists the registered modes.
func Modes() []string {
	out := make([]string, 0, len(Scorers))
	for m := range Scorers {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
