package app

import (
	"fmt"

	"github.com/kilianp07/facilitymetrics/config"
	coremetrics "github.com/kilianp07/facilitymetrics/core/metrics"
	"github.com/kilianp07/facilitymetrics/infra/audit"
	"github.com/kilianp07/facilitymetrics/infra/logger"
	inframetrics "github.com/kilianp07/facilitymetrics/infra/metrics"
	"github.com/kilianp07/facilitymetrics/infra/mqtt"
)

// Build assembles a Runner with the metrics sinks, audit store and notifier
// configured in cfg. The returned close function releases them.
func Build(cfg *config.Config, opts ...Option) (*Runner, func(), error) {
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics sinks: %w", err)
	}
	store, err := audit.New(cfg.Audit)
	if err != nil {
		closeSink(sink)
		return nil, nil, fmt.Errorf("audit store: %w", err)
	}
	notifier, err := mqtt.NewNotifier(cfg.MQTT)
	if err != nil {
		closeSink(sink)
		_ = store.Close()
		return nil, nil, fmt.Errorf("mqtt notifier: %w", err)
	}
	base := []Option{
		WithSink(sink),
		WithAudit(store),
		WithNotifier(notifier),
		WithGatherer(inframetrics.Registry),
	}
	r := NewRunner(cfg, append(base, opts...)...)
	closeFn := func() {
		notifier.Close()
		if err := store.Close(); err != nil {
			logger.New("runner").Warnf("close audit store: %v", err)
		}
		closeSink(sink)
	}
	return r, closeFn, nil
}

func closeSink(s coremetrics.MetricsSink) {
	switch c := s.(type) {
	case interface{ Close() }:
		c.Close()
	case *coremetrics.MultiSink:
		for _, inner := range c.Sinks {
			closeSink(inner)
		}
	}
}
