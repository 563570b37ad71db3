package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Facility record field names.
const (
	FieldBeds             = "beds"
	FieldICUMax           = "icuMax"
	FieldLatestAdmissions = "latestAdmissions"
	FieldLatestBirths     = "latestBirths"
	FieldLatestDischarges = "latestDischarges"
	FieldLatestICU        = "latestICU"
	FieldLatestCensus     = "latestCensus"
	FieldICUPct           = "icuPct"
	FieldOccupancyPct     = "occupancyPct"
	FieldICUDelta24h      = "icuDelta24h"
	FieldCensusDelta24h   = "censusDelta24h"
)

// Facility is a facility summary record. Fields are kept in their raw JSON
// form so that attributes unknown to the recompute survive a rewrite.
type Facility struct {
	fields map[string]json.RawMessage
}

// NewFacility returns a facility with the given numeric fields set.
func NewFacility(numbers map[string]float64) *Facility {
	f := &Facility{fields: make(map[string]json.RawMessage, len(numbers))}
	for k, v := range numbers {
		f.SetNumber(k, v)
	}
	return f
}

// Number returns the numeric value of a field. Missing, null and non-numeric
// fields report false.
func (f *Facility) Number(name string) (float64, bool) {
	raw, ok := f.fields[name]
	if !ok {
		return 0, false
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return 0, false
	}
	return *v, true
}

// SetNumber stores a numeric field.
func (f *Facility) SetNumber(name string, v float64) {
	if f.fields == nil {
		f.fields = map[string]json.RawMessage{}
	}
	f.fields[name] = json.RawMessage(strconv.FormatFloat(v, 'f', -1, 64))
}

// Unset removes a field.
func (f *Facility) Unset(name string) {
	delete(f.fields, name)
}

// Has reports whether the field is present.
func (f *Facility) Has(name string) bool {
	_, ok := f.fields[name]
	return ok
}

// Fields returns the sorted field names.
func (f *Facility) Fields() []string {
	names := make([]string, 0, len(f.fields))
	for k := range f.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy.
func (f *Facility) Clone() *Facility {
	cp := &Facility{fields: make(map[string]json.RawMessage, len(f.fields))}
	for k, v := range f.fields {
		cp.fields[k] = append(json.RawMessage(nil), v...)
	}
	return cp
}

func (f *Facility) MarshalJSON() ([]byte, error) {
	if f.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f.fields)
}

func (f *Facility) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("facility: %w", err)
	}
	if m == nil {
		m = map[string]json.RawMessage{}
	}
	f.fields = m
	return nil
}

// FacilityRegistry is the facility summary store. Model metrics entries are
// kept raw so that fields written by the training pipeline survive a rewrite;
// only the entries of scored keys are replaced.
type FacilityRegistry struct {
	Facilities   map[string]*Facility
	modelMetrics map[string]json.RawMessage
	// extra holds top-level keys other than facilities and modelMetrics.
	extra map[string]json.RawMessage
}

const (
	keyFacilities   = "facilities"
	keyModelMetrics = "modelMetrics"
)

// NewFacilityRegistry returns an empty registry.
func NewFacilityRegistry() *FacilityRegistry {
	return &FacilityRegistry{
		Facilities:   map[string]*Facility{},
		modelMetrics: map[string]json.RawMessage{},
		extra:        map[string]json.RawMessage{},
	}
}

// Clone returns a deep copy so a recompute never mutates its input.
func (r *FacilityRegistry) Clone() *FacilityRegistry {
	cp := NewFacilityRegistry()
	for id, f := range r.Facilities {
		cp.Facilities[id] = f.Clone()
	}
	for k, v := range r.modelMetrics {
		cp.modelMetrics[k] = append(json.RawMessage(nil), v...)
	}
	for k, v := range r.extra {
		cp.extra[k] = append(json.RawMessage(nil), v...)
	}
	return cp
}

// FacilityIDs returns the sorted facility identifiers.
func (r *FacilityRegistry) FacilityIDs() []string {
	ids := make([]string, 0, len(r.Facilities))
	for id := range r.Facilities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ModelMetric decodes the stored entry of key. Fields that are missing or not
// numeric read as zero; an entry that is not an object reports false.
func (r *FacilityRegistry) ModelMetric(key string) (ModelMetrics, bool) {
	raw, ok := r.modelMetrics[key]
	if !ok {
		return ModelMetrics{}, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return ModelMetrics{}, false
	}
	e := &Facility{fields: fields}
	mae, _ := e.Number("mae")
	mape, _ := e.Number("mape")
	train, _ := e.Number("trainSize")
	test, _ := e.Number("testSize")
	return ModelMetrics{MAE: mae, MAPE: mape, TrainSize: int(train), TestSize: int(test)}, true
}

// SetModelMetric replaces the entry of key.
func (r *FacilityRegistry) SetModelMetric(key string, m ModelMetrics) {
	if r.modelMetrics == nil {
		r.modelMetrics = map[string]json.RawMessage{}
	}
	b, _ := json.Marshal(m)
	r.modelMetrics[key] = b
}

// ModelMetricKeys returns the sorted keys of the modelMetrics section.
func (r *FacilityRegistry) ModelMetricKeys() []string {
	keys := make([]string, 0, len(r.modelMetrics))
	for k := range r.modelMetrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ModelMetrics decodes every entry of the modelMetrics section that is an object.
func (r *FacilityRegistry) ModelMetrics() MetricsByKey {
	out := make(MetricsByKey, len(r.modelMetrics))
	for k := range r.modelMetrics {
		if m, ok := r.ModelMetric(k); ok {
			out[k] = m
		}
	}
	return out
}

func (r *FacilityRegistry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.extra)+2)
	for k, v := range r.extra {
		out[k] = v
	}
	facilities := r.Facilities
	if facilities == nil {
		facilities = map[string]*Facility{}
	}
	metrics := r.modelMetrics
	if metrics == nil {
		metrics = map[string]json.RawMessage{}
	}
	out[keyFacilities] = facilities
	out[keyModelMetrics] = metrics
	return json.Marshal(out)
}

func (r *FacilityRegistry) UnmarshalJSON(data []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return fmt.Errorf("facility registry: %w", err)
	}
	reg := NewFacilityRegistry()
	for k, v := range top {
		switch k {
		case keyFacilities:
			if err := json.Unmarshal(v, &reg.Facilities); err != nil {
				return fmt.Errorf("facility registry %s: %w", k, err)
			}
		case keyModelMetrics:
			if err := json.Unmarshal(v, &reg.modelMetrics); err != nil {
				return fmt.Errorf("facility registry %s: %w", k, err)
			}
		default:
			reg.extra[k] = v
		}
	}
	if reg.Facilities == nil {
		reg.Facilities = map[string]*Facility{}
	}
	for id, f := range reg.Facilities {
		if f == nil {
			reg.Facilities[id] = &Facility{fields: map[string]json.RawMessage{}}
		}
	}
	if reg.modelMetrics == nil {
		reg.modelMetrics = map[string]json.RawMessage{}
	}
	*r = *reg
	return nil
}
