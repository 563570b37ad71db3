package prediction

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/facilitymetrics/core/model"
)

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func series(vals ...float64) model.Series {
	s := make(model.Series, len(vals))
	for i, v := range vals {
		s[i] = model.TimePoint{Timestamp: t0.Add(time.Duration(i) * time.Hour), Value: v}
	}
	return s
}

func TestSyntheticEngine_Deterministic(t *testing.T) {
	eng := NewSyntheticEngine()
	req := Request{Key: model.ForecastKey{FacilityID: "F1", Metric: "Total Census"}, Eval: series(100, 110, 120, 0)}

	a, err := eng.Predict(req)
	require.NoError(t, err)
	b, err := eng.Predict(req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	require.Len(t, a, 4)
	for _, v := range a {
		assert.GreaterOrEqual(t, v, 0.0)
	}

	other, err := eng.Predict(Request{Key: model.ForecastKey{FacilityID: "F2", Metric: "Total Census"}, Eval: req.Eval})
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}

func TestSyntheticEngine_ZeroNoiseEchoesActuals(t *testing.T) {
	eng := SyntheticEngine{}
	got, err := eng.Predict(Request{Key: model.ForecastKey{FacilityID: "F1", Metric: "Births"}, Eval: series(3, 4), Cumulative: true})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, got)

	got, err = eng.Predict(Request{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSeed(t *testing.T) {
	assert.Equal(t, Seed("F1_Admissions"), Seed("F1_Admissions"))
	assert.NotEqual(t, Seed("F1_Admissions"), Seed("F1_Births"))
}

func TestForecastEngine_AlignsWithinTolerance(t *testing.T) {
	fc := model.ForecastData{"F1_Total Census": {
		{T: "2024-03-01T00:10", V: 50},
		{T: "2024-03-01T01:45", V: 60},
		{T: "2024-03-01T03:00", V: 70},
	}}
	eng := NewForecastEngine(fc, 20*time.Minute)
	got, err := eng.Predict(Request{Key: model.ForecastKey{FacilityID: "F1", Metric: "Total Census"}, Eval: series(1, 2, 3, 4)})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, 50.0, got[0])
	assert.True(t, IsMissing(got[1]), "01:00 has no forecast within 20m")
	assert.Equal(t, 60.0, got[2])
	assert.Equal(t, 70.0, got[3])
}

func TestForecastEngine_CumulativeAlignsByDay(t *testing.T) {
	fc := model.ForecastData{"F1_Admissions": {
		{T: "2024-03-01T08:00", V: 5},
		{T: "2024-03-01T20:00", V: 12},
		{T: "2024-03-03T20:00", V: 9},
	}}
	eng := NewForecastEngine(fc, 0)
	eval := model.Series{{Timestamp: t0, Value: 11}, {Timestamp: t0.Add(24 * time.Hour), Value: 8}}
	got, err := eng.Predict(Request{Key: model.ForecastKey{FacilityID: "F1", Metric: "Admissions"}, Eval: eval, Cumulative: true})
	require.NoError(t, err)
	assert.Equal(t, 12.0, got[0])
	assert.True(t, IsMissing(got[1]))
}

func TestForecastEngine_UnknownKey(t *testing.T) {
	eng := NewForecastEngine(nil, 0)
	assert.Equal(t, DefaultTolerance, eng.Tolerance)
	got, err := eng.Predict(Request{Key: model.ForecastKey{FacilityID: "F9", Metric: "Births"}, Eval: series(1)})
	require.NoError(t, err)
	assert.True(t, IsMissing(got[0]))
}

func TestMockEngine(t *testing.T) {
	eng := MockEngine{Predictions: map[string][]float64{"F1_Births": {1}}}
	got, err := eng.Predict(Request{Key: model.ForecastKey{FacilityID: "F1", Metric: "Births"}, Eval: series(1, 2)})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got[0])
	assert.True(t, IsMissing(got[1]))

	_, err = MockEngine{Err: errors.New("boom")}.Predict(Request{})
	assert.Error(t, err)
}
