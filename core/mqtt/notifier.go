package mqtt

import (
	"context"

	"github.com/kilianp07/facilitymetrics/core/metrics"
)

// Notifier announces finished recompute runs to downstream consumers.
type Notifier interface {
	// Notify publishes a summary of the run.
	Notify(ctx context.Context, ev metrics.RunEvent) error
	// Close releases the connection.
	Close()
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, metrics.RunEvent) error { return nil }
func (NopNotifier) Close()                                         {}
