package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/facilitymetrics/core/prediction"
	"github.com/kilianp07/facilitymetrics/core/recompute"
)

// Model accuracy modes.
const (
	ModeStored    = "stored"
	ModeSynthetic = "synthetic"
	ModeForecast  = "forecast"
)

// FacilitiesConfig tunes the facility recompute.
type FacilitiesConfig struct {
	// DeltaWindow is the look-back of the ICU and census deltas.
	DeltaWindow time.Duration         `json:"delta_window"`
	Series      recompute.SeriesNames `json:"series"`
}

// SetDefaults applies sane defaults.
func (c *FacilitiesConfig) SetDefaults() {
	if c.DeltaWindow <= 0 {
		c.DeltaWindow = recompute.DefaultDeltaWindow
	}
	def := recompute.DefaultSeriesNames()
	if c.Series.Admissions == "" {
		c.Series.Admissions = def.Admissions
	}
	if c.Series.Births == "" {
		c.Series.Births = def.Births
	}
	if c.Series.Discharges == "" {
		c.Series.Discharges = def.Discharges
	}
	if c.Series.ICU == "" {
		c.Series.ICU = def.ICU
	}
	if c.Series.Census == "" {
		c.Series.Census = def.Census
	}
}

// Validate checks mandatory fields.
func (c FacilitiesConfig) Validate() error {
	if c.DeltaWindow <= 0 {
		return fmt.Errorf("facilities delta_window must be positive")
	}
	return nil
}

// ModelsConfig tunes the model accuracy recompute.
type ModelsConfig struct {
	// Mode selects where MAE and MAPE come from: stored, synthetic or forecast.
	Mode string `json:"mode"`
	// StoredWindow is the test window of the stored mode.
	StoredWindow time.Duration `json:"stored_window"`
	// PredictedWindow is the test window of the synthetic and forecast modes.
	PredictedWindow time.Duration `json:"predicted_window"`
	// Cumulative lists the metrics validated on end-of-day totals.
	Cumulative []string `json:"cumulative_metrics"`
	// Tolerance bounds the distance between an actual point and the
	// forecast point it is compared with.
	Tolerance       time.Duration `json:"tolerance"`
	PointNoise      float64       `json:"point_noise"`
	CumulativeNoise float64       `json:"cumulative_noise"`
	// Decimals rounds MAE and MAPE of predicted modes.
	Decimals *int `json:"decimals"`
}

// SetDefaults applies sane defaults.
func (c *ModelsConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = ModeStored
	}
	if c.StoredWindow <= 0 {
		c.StoredWindow = recompute.DefaultStoredWindow
	}
	if c.PredictedWindow <= 0 {
		c.PredictedWindow = recompute.DefaultPredictedWindow
	}
	if c.Cumulative == nil {
		def := recompute.DefaultSeriesNames()
		c.Cumulative = []string{def.Admissions, def.Births, def.Discharges}
	}
	if c.Tolerance <= 0 {
		c.Tolerance = prediction.DefaultTolerance
	}
	if c.PointNoise <= 0 {
		c.PointNoise = prediction.DefaultPointNoise
	}
	if c.CumulativeNoise <= 0 {
		c.CumulativeNoise = prediction.DefaultCumulativeNoise
	}
	if c.Decimals == nil {
		d := 2
		c.Decimals = &d
	}
}

// Validate checks mandatory fields.
func (c ModelsConfig) Validate() error {
	switch c.Mode {
	case ModeStored, ModeSynthetic, ModeForecast:
	default:
		return fmt.Errorf("unknown models mode %s", c.Mode)
	}
	if c.StoredWindow <= 0 || c.PredictedWindow <= 0 {
		return fmt.Errorf("models windows must be positive")
	}
	return nil
}

// Kinds returns the metric kinds derived from the cumulative list.
func (c ModelsConfig) Kinds() recompute.MetricKinds {
	return recompute.NewMetricKinds(c.Cumulative...)
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	// Debounce coalesces bursts of file events into one run.
	Debounce time.Duration `json:"debounce"`
}

// DefaultDebounce is the watch debounce when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// SetDefaults applies sane defaults.
func (c *WatchConfig) SetDefaults() {
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
}

// Validate checks mandatory fields.
func (c WatchConfig) Validate() error {
	if c.Debounce <= 0 {
		return fmt.Errorf("watch debounce must be positive")
	}
	return nil
}
