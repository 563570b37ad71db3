package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes the gathered metrics in the text exposition format,
// replacing path atomically. A nil gatherer defaults to Registry.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = Registry
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
