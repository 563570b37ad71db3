// Package store loads the chart, forecast and facility JSON documents and
// writes the facility document back atomically.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kilianp07/facilitymetrics/core/model"
)

// ErrMissingSection is returned when a document lacks its top-level section.
var ErrMissingSection = errors.New("missing section")

// Top-level sections of the documents.
const (
	SectionCharts     = "chartData"
	SectionForecasts  = "forecasts"
	SectionFacilities = "facilities"
)

// Paths locates the three documents.
type Paths struct {
	Charts     string `json:"charts"`
	Forecasts  string `json:"forecasts"`
	Facilities string `json:"facilities"`
}

// DefaultPaths returns the file names used next to the dashboard data.
func DefaultPaths() Paths {
	return Paths{
		Charts:     "data-charts.json",
		Forecasts:  "data-forecasts.json",
		Facilities: "data-facilities.json",
	}
}

// JSONStore reads and writes the documents on the local filesystem.
type JSONStore struct {
	paths Paths
}

// NewJSONStore returns a store over the given paths.
func NewJSONStore(p Paths) *JSONStore {
	return &JSONStore{paths: p}
}

// Paths returns the document locations.
func (s *JSONStore) Paths() Paths { return s.paths }

// LoadCharts reads the chartData section of the chart document.
func (s *JSONStore) LoadCharts() (model.ChartData, error) {
	var c model.ChartData
	if err := readSection(s.paths.Charts, SectionCharts, &c); err != nil {
		return nil, err
	}
	if c == nil {
		c = model.ChartData{}
	}
	return c, nil
}

// LoadForecasts reads the forecasts section of the forecast document.
func (s *JSONStore) LoadForecasts() (model.ForecastData, error) {
	var f model.ForecastData
	if err := readSection(s.paths.Forecasts, SectionForecasts, &f); err != nil {
		return nil, err
	}
	if f == nil {
		f = model.ForecastData{}
	}
	return f, nil
}

// LoadFacilities reads the whole facility document.
func (s *JSONStore) LoadFacilities() (*model.FacilityRegistry, error) {
	data, err := os.ReadFile(s.paths.Facilities)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.paths.Facilities, err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.paths.Facilities, err)
	}
	if _, ok := top[SectionFacilities]; !ok {
		return nil, fmt.Errorf("%s: %w %q", s.paths.Facilities, ErrMissingSection, SectionFacilities)
	}
	reg := model.NewFacilityRegistry()
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.paths.Facilities, err)
	}
	return reg, nil
}

// SaveFacilities writes the facility document atomically.
func (s *JSONStore) SaveFacilities(reg *model.FacilityRegistry) error {
	return WriteJSONAtomic(s.paths.Facilities, reg)
}

func readSection(path, section string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	raw, ok := top[section]
	if !ok {
		return fmt.Errorf("%s: %w %q", path, ErrMissingSection, section)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", path, section, err)
	}
	return nil
}

// WriteJSONAtomic encodes v with four-space indentation into a temporary file
// next to path, syncs it and renames it over path. The target is left
// untouched when any step fails.
func WriteJSONAtomic(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "    "); err != nil {
		return fmt.Errorf("indent %s: %w", path, err)
	}
	buf.WriteByte('\n')

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}
