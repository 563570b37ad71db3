package recompute

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/facilitymetrics/core/model"
	"github.com/kilianp07/facilitymetrics/core/prediction"
)

func registry(t *testing.T, doc string) *model.FacilityRegistry {
	t.Helper()
	var reg model.FacilityRegistry
	require.NoError(t, json.Unmarshal([]byte(doc), &reg))
	return &reg
}

func number(t *testing.T, f *model.Facility, field string) float64 {
	t.Helper()
	v, ok := f.Number(field)
	require.True(t, ok, "field %s missing", field)
	return v
}

var charts = model.ChartData{
	"F1": {
		"Admissions":    {{T: "2024-01-01T00:00", V: 4}, {T: "2024-01-02T00:00", V: 9}},
		"ICU Occupancy": {{T: "2024-01-02T00:00", V: 15}, {T: "2024-01-01T00:00", V: 10}},
		"Total Census":  {{T: "2024-01-01T00:00", V: 80}, {T: "2024-01-01T12:00", V: 85}, {T: "2024-01-02T00:00", V: 90}},
	},
	"F2": {
		"Total Census": {{T: "2024-01-02T00:00", V: 30}},
	},
	"F3": {
		"Total Census": {{T: "2024-01-02T00:00", V: 1}},
	},
}

func TestFacilities(t *testing.T) {
	reg := registry(t, `{"facilities":{
		"F1":{"name":"North","beds":120,"icuMax":20},
		"F2":{"beds":0,"icuMax":0,"occupancyPct":55.5}
	},"modelMetrics":{}}`)

	out, rep := New().Facilities(charts, reg)

	f1 := out.Facilities["F1"]
	assert.Equal(t, 9.0, number(t, f1, model.FieldLatestAdmissions))
	assert.Equal(t, 0.0, number(t, f1, model.FieldLatestBirths))
	assert.Equal(t, 0.0, number(t, f1, model.FieldLatestDischarges))
	assert.Equal(t, 15.0, number(t, f1, model.FieldLatestICU))
	assert.Equal(t, 90.0, number(t, f1, model.FieldLatestCensus))
	assert.Equal(t, 75.0, number(t, f1, model.FieldICUPct))
	assert.Equal(t, 75.0, number(t, f1, model.FieldOccupancyPct))
	assert.Equal(t, 5.0, number(t, f1, model.FieldICUDelta24h))
	assert.Equal(t, 10.0, number(t, f1, model.FieldCensusDelta24h))

	f2 := out.Facilities["F2"]
	assert.Equal(t, 30.0, number(t, f2, model.FieldLatestCensus))
	assert.False(t, f2.Has(model.FieldOccupancyPct), "zero beds must not yield a percentage")
	assert.False(t, f2.Has(model.FieldICUPct))
	assert.Equal(t, 0.0, number(t, f2, model.FieldCensusDelta24h))

	assert.Equal(t, []string{"F3"}, rep.Skipped)
	require.Len(t, rep.Updated, 2)
	assert.Equal(t, "F1", rep.Updated[0].FacilityID)

	// input untouched
	assert.False(t, reg.Facilities["F1"].Has(model.FieldLatestCensus))
	assert.Equal(t, 55.5, number(t, reg.Facilities["F2"], model.FieldOccupancyPct))
}

func TestFacilities_Idempotent(t *testing.T) {
	reg := registry(t, `{"facilities":{"F1":{"beds":120,"icuMax":20}}}`)
	r := New()
	once, _ := r.Facilities(charts, reg)
	twice, _ := r.Facilities(charts, once)
	a, err := json.Marshal(once)
	require.NoError(t, err)
	b, err := json.Marshal(twice)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestFacilities_CustomWindowAndNames(t *testing.T) {
	reg := registry(t, `{"facilities":{"F1":{"beds":100}}}`)
	names := DefaultSeriesNames()
	names.Census = "Census"
	c := model.ChartData{"F1": {"Census": {{T: "2024-01-01T00:00", V: 10}, {T: "2024-01-01T06:00", V: 12}, {T: "2024-01-01T12:00", V: 20}}}}

	out, _ := New(WithSeriesNames(names), WithDeltaWindow(6*time.Hour)).Facilities(c, reg)
	assert.Equal(t, 8.0, number(t, out.Facilities["F1"], model.FieldCensusDelta24h))
	assert.Equal(t, 20.0, number(t, out.Facilities["F1"], model.FieldOccupancyPct))
}

func hourly(start time.Time, vals ...float64) []model.RawPoint {
	pts := make([]model.RawPoint, len(vals))
	for i, v := range vals {
		pts[i] = model.RawPoint{T: start.Add(time.Duration(i) * time.Hour).Format(time.RFC3339), V: v}
	}
	return pts
}

var day0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func TestValidationMetrics_PointInTime(t *testing.T) {
	s, _ := model.ParseSeries(hourly(day0, 1, 2, 3, 10, 0, 20))
	key := model.ForecastKey{FacilityID: "F1", Metric: "Total Census"}
	eng := prediction.MockEngine{Predictions: map[string][]float64{key.String(): {12, 5, 18}}}

	m, err := ValidationMetrics(Observations{Key: key, Series: s, Total: 7}, 3*time.Hour, PointInTime, eng)
	require.NoError(t, err)
	assert.Equal(t, 7, m.TrainSize, "train size is the full history")
	assert.Equal(t, 3, m.TestSize)
	assert.InDelta(t, (2.0+5+2)/3, m.MAE, 1e-9)
	assert.InDelta(t, (0.2+0.1)/2*100, m.MAPE, 1e-9)
}

func TestValidationMetrics_CumulativeUsesDailyMax(t *testing.T) {
	raw := append(hourly(day0, 1, 2, 3), hourly(day0.Add(24*time.Hour), 4, 6, 5)...)
	s, _ := model.ParseSeries(raw)
	key := model.ForecastKey{FacilityID: "F1", Metric: "Admissions"}
	eng := prediction.MockEngine{Predictions: map[string][]float64{key.String(): {2, 3}}}

	m, err := ValidationMetrics(Observations{Key: key, Series: s, Total: len(raw)}, 48*time.Hour, Cumulative, eng)
	require.NoError(t, err)
	assert.Equal(t, 6, m.TestSize)
	// daily maxima 3 and 6 against predictions 2 and 3
	assert.InDelta(t, 2.0, m.MAE, 1e-9)
	assert.InDelta(t, (1.0/3+0.5)/2*100, m.MAPE, 1e-9)
}

func TestValidationMetrics_TrainSizeIgnoresWindow(t *testing.T) {
	s, _ := model.ParseSeries(hourly(day0, 1, 2, 3, 4, 5))
	obs := Observations{Key: model.ForecastKey{FacilityID: "F", Metric: "M"}, Series: s, Total: 5}
	for _, w := range []time.Duration{0, time.Hour, 24 * time.Hour, 1000 * time.Hour} {
		m, err := ValidationMetrics(obs, w, PointInTime, prediction.SyntheticEngine{})
		require.NoError(t, err)
		assert.Equal(t, 5, m.TrainSize)
	}
}

func TestValidationMetrics_EngineErrors(t *testing.T) {
	s, _ := model.ParseSeries(hourly(day0, 1, 2))
	obs := Observations{Key: model.ForecastKey{FacilityID: "F", Metric: "M"}, Series: s, Total: 2}
	_, err := ValidationMetrics(obs, time.Hour, PointInTime, prediction.MockEngine{Err: errors.New("down")})
	assert.Error(t, err)

	m, err := ValidationMetrics(Observations{}, time.Hour, PointInTime, prediction.MockEngine{Err: errors.New("down")})
	require.NoError(t, err, "empty history never reaches the engine")
	assert.Equal(t, model.ModelMetrics{}, m)
}

func TestModelMetrics_Stored(t *testing.T) {
	reg := registry(t, `{"facilities":{},"modelMetrics":{
		"F1_Total Census":{"mae":1.23,"mape":4.5,"trainSize":1,"testSize":1},
		"F9_Births":{"mae":9,"mape":9,"trainSize":9,"testSize":9}
	}}`)
	forecasts := model.ForecastData{
		"F1_Total Census":  nil,
		"F1_ICU Occupancy": nil,
		"F1_Admissions":    nil,
		"broken":           nil,
	}
	c := model.ChartData{"F1": {
		"Total Census":  hourly(day0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26),
		"ICU Occupancy": hourly(day0, 1, 2),
	}}

	out, rep, err := New().ModelMetrics(c, forecasts, reg, NewStoredScorer(reg))
	require.NoError(t, err)

	assert.Equal(t, model.ModelMetrics{MAE: 1.23, MAPE: 4.5, TrainSize: 26, TestSize: 24}, out.ModelMetrics()["F1_Total Census"])
	assert.Equal(t, model.ModelMetrics{TrainSize: 2, TestSize: 2}, out.ModelMetrics()["F1_ICU Occupancy"])
	_, ok := out.ModelMetrics()["F1_Admissions"]
	assert.False(t, ok, "key without chart series is skipped")
	_, ok = out.ModelMetrics()["broken"]
	assert.False(t, ok)
	assert.Equal(t, 9.0, out.ModelMetrics()["F9_Births"].MAE, "unscored entries are kept")
	assert.ElementsMatch(t, []string{"F1_Admissions", "broken"}, rep.Skipped)
	assert.Len(t, rep.Scored, 2)

	// input untouched
	assert.Equal(t, 1, reg.ModelMetrics()["F1_Total Census"].TrainSize)
}

func TestFacilities_KeepsModelMetricsVerbatim(t *testing.T) {
	reg := registry(t, `{"facilities":{"F1":{"beds":100}},"modelMetrics":{
		"F1_Total Census":{"mae":1.5,"mape":2,"trainSize":10,"testSize":3,"model":"prophet"},
		"F1_Births":{"mae":"n/a"}}}`)
	c := model.ChartData{"F1": {"Total Census": hourly(day0, 80, 90)}}

	out, _ := New().Facilities(c, reg)
	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"model":"prophet"`)
	assert.Contains(t, string(b), `"F1_Births":{"mae":"n/a"}`)
}

func TestModelMetrics_ReplacesOnlyScoredEntries(t *testing.T) {
	reg := registry(t, `{"facilities":{},"modelMetrics":{
		"F1_Total Census":{"mae":"n/a","model":"prophet"},
		"F9_Births":{"mae":9,"model":"arima"}}}`)
	forecasts := model.ForecastData{"F1_Total Census": nil}
	c := model.ChartData{"F1": {"Total Census": hourly(day0, 1, 2, 3)}}

	out, _, err := New().ModelMetrics(c, forecasts, reg, NewStoredScorer(reg))
	require.NoError(t, err)

	assert.Equal(t, model.ModelMetrics{TrainSize: 3, TestSize: 3}, out.ModelMetrics()["F1_Total Census"], "non-numeric stored accuracy reads as zero")
	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"F9_Births":{"mae":9,"model":"arima"}`)
	assert.NotContains(t, string(b), "prophet")
}

func TestModelMetrics_SyntheticIsRepeatable(t *testing.T) {
	reg := registry(t, `{"facilities":{}}`)
	forecasts := model.ForecastData{"F1_Total Census": nil, "F1_Admissions": nil}
	c := model.ChartData{"F1": {
		"Total Census": hourly(day0, 50, 52, 51, 55, 60, 58, 57, 61, 63, 62),
		"Admissions":   hourly(day0, 1, 3, 5, 8, 9, 12, 14, 15, 18, 20),
	}}
	scorer := NewEngineScorer(prediction.NewSyntheticEngine())
	scorer.Window = 6 * time.Hour

	a, _, err := New().ModelMetrics(c, forecasts, reg, scorer)
	require.NoError(t, err)
	b, _, err := New().ModelMetrics(c, forecasts, a, scorer)
	require.NoError(t, err)
	assert.Equal(t, a.ModelMetrics(), b.ModelMetrics())

	m := a.ModelMetrics()["F1_Total Census"]
	assert.Equal(t, 10, m.TrainSize)
	assert.Equal(t, 6, m.TestSize)
	assert.Equal(t, m.MAE, float64(int(m.MAE*100+0.5))/100)
}

func TestModelMetrics_ScorerErrorAborts(t *testing.T) {
	reg := registry(t, `{}`)
	c := model.ChartData{"F1": {"Births": hourly(day0, 1, 2, 3)}}
	scorer := EngineScorer{Engine: prediction.MockEngine{Err: errors.New("x")}, Window: time.Hour, Kinds: DefaultMetricKinds()}
	out, _, err := New().ModelMetrics(c, model.ForecastData{"F1_Births": nil}, reg, scorer)
	assert.Error(t, err)
	assert.Nil(t, out)
}

func TestMetricKinds(t *testing.T) {
	k := DefaultMetricKinds()
	assert.Equal(t, Cumulative, k.Kind("Births"))
	assert.Equal(t, PointInTime, k.Kind("Total Census"))
	assert.Equal(t, "cumulative", Cumulative.String())
	assert.Equal(t, "point", PointInTime.String())
}
