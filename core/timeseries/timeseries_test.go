package timeseries

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/facilitymetrics/core/model"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(h int, v float64) model.TimePoint {
	return model.TimePoint{Timestamp: t0.Add(time.Duration(h) * time.Hour), Value: v}
}

func TestLatestAndDelta_Example(t *testing.T) {
	raw := []model.RawPoint{{T: "2024-01-01T00:00", V: 10}, {T: "2024-01-02T00:00", V: 15}}
	s, errs := model.ParseSeries(raw)
	require.Empty(t, errs)

	res := LatestAndDelta(s, 24*time.Hour)
	assert.Equal(t, 15.0, res.Latest)
	assert.Equal(t, t0, res.Cutoff)
	assert.Equal(t, 10.0, res.Reference)
	assert.Equal(t, 5.0, res.Delta)
}

func TestLatestAndDelta_Empty(t *testing.T) {
	assert.Equal(t, LatestDelta{}, LatestAndDelta(nil, 24*time.Hour))
}

func TestLatestAndDelta_NoPointOldEnough(t *testing.T) {
	res := LatestAndDelta(model.Series{at(0, 3), at(5, 8)}, 24*time.Hour)
	assert.Equal(t, 8.0, res.Latest)
	assert.Equal(t, 0.0, res.Delta)
}

func TestLatestAndDelta_PicksLastPointBeforeCutoff(t *testing.T) {
	s := model.Series{at(0, 1), at(10, 4), at(20, 6), at(30, 9)}
	res := LatestAndDelta(s, 24*time.Hour)
	// cutoff is hour 6, last point at or before it is hour 0
	assert.Equal(t, 8.0, res.Delta)

	res = LatestAndDelta(s, 10*time.Hour)
	assert.Equal(t, 3.0, res.Delta)
}

func TestLatestAndDelta_OrderIndependent(t *testing.T) {
	s := model.Series{at(0, 1), at(3, 7), at(12, 2), at(24, 9), at(30, 4), at(47, 11), at(48, 5)}
	want := LatestAndDelta(s, 24*time.Hour)
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append(model.Series(nil), s...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, LatestAndDelta(shuffled, 24*time.Hour))
	}
}

func TestSplitValidation(t *testing.T) {
	s := model.Series{at(72, 4), at(0, 1), at(24, 2), at(48, 3), at(49, 5)}
	sp := SplitValidation(s, 24*time.Hour)
	assert.Equal(t, t0.Add(48*time.Hour), sp.Cutoff)
	assert.Equal(t, []float64{1, 2, 3}, sp.Train.Values())
	assert.Equal(t, []float64{5, 4}, sp.Test.Values())

	assert.Equal(t, Split{}, SplitValidation(nil, time.Hour))
}

func TestDailyMax(t *testing.T) {
	s := model.Series{at(1, 3), at(23, 2), at(5, 7), at(25, 1), at(47, 4)}
	got := DailyMax(s)
	require.Len(t, got, 2)
	assert.Equal(t, model.TimePoint{Timestamp: t0, Value: 7}, got[0])
	assert.Equal(t, model.TimePoint{Timestamp: t0.Add(24 * time.Hour), Value: 4}, got[1])
	assert.Nil(t, DailyMax(nil))
}

func TestDay(t *testing.T) {
	assert.Equal(t, t0, Day(t0.Add(5*time.Hour)))

	loc := time.FixedZone("x", 2*3600)
	got := Day(time.Date(2024, 1, 2, 1, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, loc), got, "grouped in the timestamp's offset, not UTC")
}

func TestDailyMaxKeepsOffsetDays(t *testing.T) {
	tz, err := model.ParseTimestamp("2024-01-01T23:30+02:00")
	require.NoError(t, err)
	next, err := model.ParseTimestamp("2024-01-02T01:00+02:00")
	require.NoError(t, err)

	got := DailyMax(model.Series{{Timestamp: tz, Value: 5}, {Timestamp: next, Value: 1}})
	require.Len(t, got, 2)
	assert.Equal(t, 5.0, got[0].Value)
	assert.Equal(t, 1.0, got[1].Value)
}
