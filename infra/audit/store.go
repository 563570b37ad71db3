// Package audit keeps a history of recompute runs: which facilities were
// updated and which accuracy was written for each forecast key.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/facilitymetrics/core/model"
)

// Record captures one recompute run.
type Record struct {
	RunID        string                        `json:"run_id"`
	Timestamp    time.Time                     `json:"timestamp"`
	Kind         string                        `json:"kind"`
	Mode         string                        `json:"mode,omitempty"`
	DryRun       bool                          `json:"dry_run"`
	Success      bool                          `json:"success"`
	Error        string                        `json:"error,omitempty"`
	Facilities   []string                      `json:"facilities,omitempty"`
	Skipped      []string                      `json:"skipped,omitempty"`
	ModelMetrics map[string]model.ModelMetrics `json:"model_metrics,omitempty"`
}

// Query defines filters for retrieving records. Zero values match everything.
type Query struct {
	Start time.Time
	End   time.Time
	Kind  string
	// Key keeps runs that scored this forecast key.
	Key string
	// Limit keeps the most recent records; 0 means no limit.
	Limit int
}

func (q Query) match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.Key != "" {
		if _, ok := r.ModelMetrics[q.Key]; !ok {
			return false
		}
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Config selects and configures the audit backend.
type Config struct {
	// Backend is "jsonl", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "recompute-history.db"
		default:
			c.Path = "recompute-history.jsonl"
		}
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "jsonl", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("audit path is required")
		}
	case "none":
	default:
		return fmt.Errorf("unknown audit backend %s", c.Backend)
	}
	return nil
}

// New opens the configured store.
func New(c Config) (Store, error) {
	switch c.Backend {
	case "jsonl":
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(c.Path)
	case "none", "":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown audit backend %s", c.Backend)
	}
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }

func limit(recs []Record, n int) []Record {
	if n > 0 && len(recs) > n {
		return recs[len(recs)-n:]
	}
	return recs
}
