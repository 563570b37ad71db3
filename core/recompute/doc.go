// Package recompute derives the facility summary fields and the forecast
// accuracy metrics from the chart history.
//
// Both paths take the loaded stores as values and return a new
// FacilityRegistry; the input registry is never modified. Join failures
// (a facility missing from the registry, a forecast key that does not split
// into facility and metric, or a key without chart series) are skipped, not
// reported as errors.
package recompute
