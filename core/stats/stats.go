// Package stats holds the small numeric helpers shared by the recompute paths.
package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrLengthMismatch is returned when actual and predicted slices differ in length.
var ErrLengthMismatch = errors.New("actual and predicted lengths differ")

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Percentage returns numerator/denominator as a percentage rounded to one
// decimal. It reports false when the denominator is not positive so callers
// can leave the value unset instead of showing a false 0%.
func Percentage(numerator, denominator float64) (float64, bool) {
	if denominator <= 0 {
		return 0, false
	}
	return Round(numerator/denominator*100, 1), true
}

// Mean returns the arithmetic mean of x, or 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// StdDev returns the sample standard deviation of x, or 0 with fewer than two values.
func StdDev(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.StdDev(x, nil)
}

// MAE returns the mean absolute error. Empty input yields 0.
func MAE(actual, predicted []float64) (float64, error) {
	if len(actual) != len(predicted) {
		return 0, ErrLengthMismatch
	}
	if len(actual) == 0 {
		return 0, nil
	}
	diff := make([]float64, len(actual))
	floats.SubTo(diff, actual, predicted)
	for i, d := range diff {
		diff[i] = math.Abs(d)
	}
	return stat.Mean(diff, nil), nil
}

// MAPE returns the mean absolute percentage error over the points whose
// actual value is nonzero. Without any nonzero actual it returns 0.
func MAPE(actual, predicted []float64) (float64, error) {
	if len(actual) != len(predicted) {
		return 0, ErrLengthMismatch
	}
	var ratios []float64
	for i, a := range actual {
		if a == 0 {
			continue
		}
		ratios = append(ratios, math.Abs((a-predicted[i])/a))
	}
	if len(ratios) == 0 {
		return 0, nil
	}
	return stat.Mean(ratios, nil) * 100, nil
}
