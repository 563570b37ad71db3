package metrics

import "errors"

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the run to every sink and joins their errors.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordRun(ev))
	}
	return errors.Join(errs...)
}

// RecordFacilitySnapshot forwards the snapshot to sinks supporting it.
func (m *MultiSink) RecordFacilitySnapshot(ev FacilitySnapshotEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(FacilitySnapshotRecorder); ok {
			errs = append(errs, rec.RecordFacilitySnapshot(ev))
		}
	}
	return errors.Join(errs...)
}

// RecordModelAccuracy forwards accuracy events to sinks supporting them.
func (m *MultiSink) RecordModelAccuracy(evs []ModelAccuracyEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(ModelAccuracyRecorder); ok {
			errs = append(errs, rec.RecordModelAccuracy(evs))
		}
	}
	return errors.Join(errs...)
}
