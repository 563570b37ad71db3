package metrics

import (
	"time"

	"github.com/kilianp07/facilitymetrics/core/model"
)

// Run kinds.
const (
	KindFacilities = "facilities"
	KindModels     = "models"
	KindAll        = "all"
)

// RunEvent summarises one recompute run.
type RunEvent struct {
	RunID             string
	Kind              string
	Mode              string
	DryRun            bool
	Started           time.Time
	Finished          time.Time
	FacilitiesUpdated int
	FacilitiesSkipped int
	KeysScored        int
	KeysSkipped       int
	BadPoints         int
	Err               string
}

// Duration returns the wall time of the run.
func (e RunEvent) Duration() time.Duration { return e.Finished.Sub(e.Started) }

// Succeeded reports whether the run completed without error.
func (e RunEvent) Succeeded() bool { return e.Err == "" }

// MetricsSink records recompute runs for observability purposes.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// FacilitySnapshotEvent carries the derived fields written for a facility.
type FacilitySnapshotEvent struct {
	RunID      string
	FacilityID string
	Values     map[string]float64
	Time       time.Time
}

// FacilitySnapshotRecorder records facility snapshots.
type FacilitySnapshotRecorder interface {
	RecordFacilitySnapshot(ev FacilitySnapshotEvent) error
}

// ModelAccuracyEvent carries the accuracy computed for a forecast key.
type ModelAccuracyEvent struct {
	RunID   string
	Key     string
	Mode    string
	Metrics model.ModelMetrics
	Time    time.Time
}

// ModelAccuracyRecorder records model accuracy.
type ModelAccuracyRecorder interface {
	RecordModelAccuracy(evs []ModelAccuracyEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error                           { return nil }
func (NopSink) RecordFacilitySnapshot(FacilitySnapshotEvent) error { return nil }
func (NopSink) RecordModelAccuracy([]ModelAccuracyEvent) error     { return nil }
