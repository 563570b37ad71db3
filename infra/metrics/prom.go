package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/facilitymetrics/core/metrics"
)

// Registry collects the recompute metrics. It is kept apart from the default
// registry so the textfile export only carries facility metrics.
var Registry = prometheus.NewRegistry()

// PromSink exposes recompute runs and their results as Prometheus metrics.
type PromSink struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
	items       *prometheus.GaugeVec
	facility    *prometheus.GaugeVec
	mae         *prometheus.GaugeVec
	mape        *prometheus.GaugeVec
	points      *prometheus.GaugeVec
}

// NewPromSink registers the recompute metrics on Registry.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(Registry)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to Registry. Collectors already registered by a
// previous sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = Registry
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facilitymetrics_runs_total",
			Help: "Total number of recompute runs",
		}, []string{"kind", "status"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "facilitymetrics_run_duration_seconds",
			Help: "Wall time of the last recompute run",
		}, []string{"kind"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "facilitymetrics_last_success_timestamp_seconds",
			Help: "Unix time of the last successful recompute run",
		}, []string{"kind"}),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "facilitymetrics_run_items",
			Help: "Items processed or skipped by the last recompute run",
		}, []string{"kind", "item"}),
		facility: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "facilitymetrics_facility_value",
			Help: "Derived facility field written by the last run",
		}, []string{"facility", "field"}),
		mae: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "facilitymetrics_model_mae",
			Help: "Mean absolute error of a forecast model",
		}, []string{"key", "mode"}),
		mape: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "facilitymetrics_model_mape_percent",
			Help: "Mean absolute percentage error of a forecast model",
		}, []string{"key", "mode"}),
		points: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "facilitymetrics_model_points",
			Help: "History points behind a forecast model accuracy",
		}, []string{"key", "partition"}),
	}
	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	for _, g := range []**prometheus.GaugeVec{&s.duration, &s.lastSuccess, &s.items, &s.facility, &s.mae, &s.mape, &s.points} {
		if *g, err = register(reg, *g); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun counts the run and, on success, updates the last-run gauges.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	status := "success"
	if !ev.Succeeded() {
		status = "failure"
	}
	s.runs.WithLabelValues(ev.Kind, status).Inc()
	if !ev.Succeeded() {
		return nil
	}
	s.duration.WithLabelValues(ev.Kind).Set(ev.Duration().Seconds())
	s.lastSuccess.WithLabelValues(ev.Kind).Set(float64(ev.Finished.Unix()))
	s.items.WithLabelValues(ev.Kind, "facilities_updated").Set(float64(ev.FacilitiesUpdated))
	s.items.WithLabelValues(ev.Kind, "facilities_skipped").Set(float64(ev.FacilitiesSkipped))
	s.items.WithLabelValues(ev.Kind, "keys_scored").Set(float64(ev.KeysScored))
	s.items.WithLabelValues(ev.Kind, "keys_skipped").Set(float64(ev.KeysSkipped))
	s.items.WithLabelValues(ev.Kind, "bad_points").Set(float64(ev.BadPoints))
	return nil
}

// RecordFacilitySnapshot sets one gauge per derived field.
func (s *PromSink) RecordFacilitySnapshot(ev coremetrics.FacilitySnapshotEvent) error {
	for field, v := range ev.Values {
		s.facility.WithLabelValues(ev.FacilityID, field).Set(v)
	}
	return nil
}

// RecordModelAccuracy sets the accuracy gauges of each key.
func (s *PromSink) RecordModelAccuracy(evs []coremetrics.ModelAccuracyEvent) error {
	for _, ev := range evs {
		s.mae.WithLabelValues(ev.Key, ev.Mode).Set(ev.Metrics.MAE)
		s.mape.WithLabelValues(ev.Key, ev.Mode).Set(ev.Metrics.MAPE)
		s.points.WithLabelValues(ev.Key, "train").Set(float64(ev.Metrics.TrainSize))
		s.points.WithLabelValues(ev.Key, "test").Set(float64(ev.Metrics.TestSize))
	}
	return nil
}
