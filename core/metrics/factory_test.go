package metrics_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/facilitymetrics/core/factory"
	metrics "github.com/kilianp07/facilitymetrics/core/metrics"
	inframetrics "github.com/kilianp07/facilitymetrics/infra/metrics"
)

func TestNewMetricsSink_Builtins(t *testing.T) {
	s, err := metrics.NewMetricsSink(nil)
	require.NoError(t, err)
	assert.IsType(t, metrics.NopSink{}, s)

	s, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "prometheus"}})
	require.NoError(t, err)
	assert.IsType(t, &inframetrics.PromSink{}, s)

	_, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "statsd"}})
	assert.ErrorContains(t, err, "statsd")
}

func TestMetricsConfigDecodeYAML(t *testing.T) {
	data := `sinks:
  - type: nop
  - type: influx
    conf:
      url: "http://127.0.0.1:1"
      org: "hospital"
      bucket: "metrics"
      timeout: "50ms"
textfile_path: /var/lib/node_exporter/facilitymetrics.prom
`
	var cfg metrics.Config
	require.NoError(t, yaml.Unmarshal([]byte(data), &cfg))
	assert.Equal(t, "/var/lib/node_exporter/facilitymetrics.prom", cfg.TextfilePath)

	s, err := metrics.NewMetricsSink(cfg.Sinks)
	require.NoError(t, err)
	m, ok := s.(*metrics.MultiSink)
	require.True(t, ok)
	require.Len(t, m.Sinks, 2)
	// unreachable influx falls back to a no-op sink
	assert.IsType(t, metrics.NopSink{}, m.Sinks[1])
}

func TestMetricsConfigDecodeJSON_Invalid(t *testing.T) {
	var cfg metrics.Config
	require.NoError(t, json.Unmarshal([]byte(`{"sinks":[{"type":"missing"}]}`), &cfg))
	_, err := metrics.NewMetricsSink(cfg.Sinks)
	assert.Error(t, err)
}
