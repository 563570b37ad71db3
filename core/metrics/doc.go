// Package metrics defines the sinks that observe recompute runs. A run emits
// one RunEvent, one FacilitySnapshotEvent per updated facility and one
// ModelAccuracyEvent per scored forecast key. Sinks like PromSink and
// InfluxSink implement the recorder interfaces they support and can be
// combined with NewMultiSink. NewMetricsSink builds the configured sinks
// through the factory registry populated by infra/metrics.
package metrics
