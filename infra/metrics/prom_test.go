package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/facilitymetrics/core/metrics"
	"github.com/kilianp07/facilitymetrics/core/model"
)

func TestPromSink_RecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{Kind: "all", Started: now.Add(-2 * time.Second), Finished: now, KeysScored: 7}))
	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{Kind: "all", Err: "boom"}))

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.runs.WithLabelValues("all", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.runs.WithLabelValues("all", "failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.duration.WithLabelValues("all")))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(sink.lastSuccess.WithLabelValues("all")))
	assert.Equal(t, 7.0, testutil.ToFloat64(sink.items.WithLabelValues("all", "keys_scored")))
}

func TestPromSink_ResultsGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordFacilitySnapshot(coremetrics.FacilitySnapshotEvent{FacilityID: "F1", Values: map[string]float64{model.FieldICUPct: 80}}))
	require.NoError(t, sink.RecordModelAccuracy([]coremetrics.ModelAccuracyEvent{{Key: "F1_Births", Mode: "stored", Metrics: model.ModelMetrics{MAE: 0.5, MAPE: 2, TrainSize: 30, TestSize: 4}}}))

	assert.Equal(t, 80.0, testutil.ToFloat64(sink.facility.WithLabelValues("F1", model.FieldICUPct)))
	assert.Equal(t, 0.5, testutil.ToFloat64(sink.mae.WithLabelValues("F1_Births", "stored")))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.mape.WithLabelValues("F1_Births", "stored")))
	assert.Equal(t, 4.0, testutil.ToFloat64(sink.points.WithLabelValues("F1_Births", "test")))
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	b, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, a.RecordRun(coremetrics.RunEvent{Kind: "models"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.runs.WithLabelValues("models", "success")))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{Kind: "facilities", Finished: time.Now()}))

	path := filepath.Join(t.TempDir(), "facilitymetrics.prom")
	require.NoError(t, WriteTextfile(path, reg))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `facilitymetrics_runs_total{kind="facilities",status="success"} 1`), string(data))
}
