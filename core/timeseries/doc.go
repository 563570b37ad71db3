// Package timeseries aligns observation series on time windows: the latest
// value and its change over a lookback window, the train/test split used for
// validation and the end-of-day grouping applied to cumulative counters.
//
// Every function sorts its input first, so results only depend on the set of
// points and never on the order they were logged in.
package timeseries
