package prediction

import (
	"hash/fnv"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/facilitymetrics/core/stats"
)

// Default relative noise of the synthetic engine.
const (
	DefaultPointNoise      = 0.02
	DefaultCumulativeNoise = 0.04
)

// SyntheticEngine fabricates predictions by adding Gaussian noise to the
// actual values. The noise is seeded from the forecast key so a run is
// reproducible. It is a stand-in estimate, not a forecast.
type SyntheticEngine struct {
	// PointNoise is the noise standard deviation relative to the mean actual
	// value for point-in-time metrics.
	PointNoise float64
	// CumulativeNoise is the same ratio applied to end-of-day totals.
	CumulativeNoise float64
}

// NewSyntheticEngine returns an engine using the default noise ratios.
func NewSyntheticEngine() SyntheticEngine {
	return SyntheticEngine{PointNoise: DefaultPointNoise, CumulativeNoise: DefaultCumulativeNoise}
}

// Seed derives the noise seed for a forecast key.
func Seed(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return h.Sum64()
}

// Predict returns the actual values perturbed by seeded noise, clipped at 0.
func (e SyntheticEngine) Predict(req Request) ([]float64, error) {
	actual := req.Eval.Values()
	if len(actual) == 0 {
		return nil, nil
	}
	ratio := e.PointNoise
	if req.Cumulative {
		ratio = e.CumulativeNoise
	}
	seed := Seed(req.Key.String())
	noise := distuv.Normal{
		Mu:    0,
		Sigma: math.Abs(stats.Mean(actual) * ratio),
		Src:   rand.NewPCG(seed, seed),
	}
	preds := make([]float64, len(actual))
	for i, a := range actual {
		preds[i] = math.Max(0, a+noise.Rand())
	}
	return preds, nil
}
