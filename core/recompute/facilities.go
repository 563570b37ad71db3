package recompute

import (
	"time"

	"github.com/kilianp07/facilitymetrics/core/logger"
	"github.com/kilianp07/facilitymetrics/core/model"
	"github.com/kilianp07/facilitymetrics/core/stats"
	"github.com/kilianp07/facilitymetrics/core/timeseries"
)

// FacilitySnapshot lists the derived fields written for one facility.
type FacilitySnapshot struct {
	FacilityID string
	Values     map[string]float64
}

// FacilityReport summarises a facility recompute.
type FacilityReport struct {
	Updated   []FacilitySnapshot
	Skipped   []string
	BadPoints int
}

// Recomputer derives facility fields and model metrics from chart history.
type Recomputer struct {
	log         logger.Logger
	series      SeriesNames
	deltaWindow time.Duration
}

// Option customises a Recomputer.
type Option func(*Recomputer)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(r *Recomputer) { r.log = logger.OrNop(l) } }

// WithSeriesNames overrides the chart series names.
func WithSeriesNames(n SeriesNames) Option { return func(r *Recomputer) { r.series = n } }

// WithDeltaWindow overrides the lookback of the delta fields.
func WithDeltaWindow(d time.Duration) Option {
	return func(r *Recomputer) {
		if d > 0 {
			r.deltaWindow = d
		}
	}
}

// New returns a Recomputer with default series names and a 24h delta window.
func New(opts ...Option) *Recomputer {
	r := &Recomputer{log: logger.Nop{}, series: DefaultSeriesNames(), deltaWindow: DefaultDeltaWindow}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Facilities recomputes the latest values, occupancy percentages and deltas
// of every facility present in both the chart store and the registry.
func (r *Recomputer) Facilities(charts model.ChartData, reg *model.FacilityRegistry) (*model.FacilityRegistry, FacilityReport) {
	out := reg.Clone()
	var rep FacilityReport
	for _, id := range charts.FacilityIDs() {
		fac, ok := out.Facilities[id]
		if !ok {
			r.log.Debugf("facility %s not in registry, skipped", id)
			rep.Skipped = append(rep.Skipped, id)
			continue
		}
		snap, bad := r.updateFacility(id, charts, fac)
		rep.BadPoints += bad
		rep.Updated = append(rep.Updated, snap)
	}
	return out, rep
}

func (r *Recomputer) updateFacility(id string, charts model.ChartData, fac *model.Facility) (FacilitySnapshot, int) {
	snap := FacilitySnapshot{FacilityID: id, Values: map[string]float64{}}
	bad := 0
	window := func(name string) timeseries.LatestDelta {
		raw, _ := charts.Series(id, name)
		s, errs := model.ParseSeries(raw)
		for _, err := range errs {
			r.log.Warnf("facility %s series %q: %v", id, name, err)
		}
		bad += len(errs)
		return timeseries.LatestAndDelta(s, r.deltaWindow)
	}
	set := func(field string, v float64) {
		fac.SetNumber(field, v)
		snap.Values[field] = v
	}

	admissions := window(r.series.Admissions)
	births := window(r.series.Births)
	discharges := window(r.series.Discharges)
	icu := window(r.series.ICU)
	census := window(r.series.Census)

	set(model.FieldLatestAdmissions, admissions.Latest)
	set(model.FieldLatestBirths, births.Latest)
	set(model.FieldLatestDischarges, discharges.Latest)
	set(model.FieldLatestICU, icu.Latest)
	set(model.FieldLatestCensus, census.Latest)

	setPercentage(fac, snap, model.FieldICUPct, icu.Latest, model.FieldICUMax)
	setPercentage(fac, snap, model.FieldOccupancyPct, census.Latest, model.FieldBeds)

	set(model.FieldICUDelta24h, icu.Delta)
	set(model.FieldCensusDelta24h, census.Delta)
	return snap, bad
}

// setPercentage writes numerator over the capacity field as a percentage. An
// unknown or zero capacity removes the field rather than reporting 0%.
func setPercentage(fac *model.Facility, snap FacilitySnapshot, field string, numerator float64, capacityField string) {
	capacity, _ := fac.Number(capacityField)
	pct, ok := stats.Percentage(numerator, capacity)
	if !ok {
		fac.Unset(field)
		return
	}
	fac.SetNumber(field, pct)
	snap.Values[field] = pct
}
