package metrics

import "github.com/kilianp07/facilitymetrics/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	// TextfilePath, when set, receives the Prometheus text exposition after
	// each run for the node exporter textfile collector.
	TextfilePath string `json:"textfile_path" yaml:"textfile_path"`
	// ListenAddr exposes /metrics while the watch command runs.
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
}
