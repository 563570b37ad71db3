package metrics

import (
	"context"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/facilitymetrics/core/metrics"
	"github.com/kilianp07/facilitymetrics/core/model"
	"github.com/kilianp07/facilitymetrics/infra/logger"
)

// InfluxConfig locates the InfluxDB bucket receiving recompute results.
type InfluxConfig struct {
	URL     string        `json:"url"`
	Token   string        `json:"token"`
	Org     string        `json:"org"`
	Bucket  string        `json:"bucket"`
	Timeout time.Duration `json:"timeout"`
}

// InfluxSink writes recompute results to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	timeout  time.Duration
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		timeout:  cfg.Timeout,
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), sink.timeout)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes a recompute_run point.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	p := write.NewPointWithMeasurement("recompute_run").
		AddTag("kind", ev.Kind).
		AddTag("run_id", ev.RunID).
		AddTag("dry_run", strconv.FormatBool(ev.DryRun)).
		AddTag("success", strconv.FormatBool(ev.Succeeded())).
		AddField("duration_ms", round3(ev.Duration().Seconds()*1000)).
		AddField("facilities_updated", ev.FacilitiesUpdated).
		AddField("facilities_skipped", ev.FacilitiesSkipped).
		AddField("keys_scored", ev.KeysScored).
		AddField("keys_skipped", ev.KeysSkipped).
		AddField("bad_points", ev.BadPoints).
		SetTime(ev.Finished)
	if ev.Mode != "" {
		p.AddTag("mode", ev.Mode)
	}
	if ev.Err != "" {
		p.AddField("error", ev.Err)
	}
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordFacilitySnapshot writes the derived fields of a facility as one point.
func (s *InfluxSink) RecordFacilitySnapshot(ev coremetrics.FacilitySnapshotEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	p := write.NewPointWithMeasurement("facility_snapshot").
		AddTag("facility_id", ev.FacilityID).
		AddTag("run_id", ev.RunID).
		SetTime(ev.Time)
	fields := make([]string, 0, len(ev.Values))
	for f := range ev.Values {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		p.AddField(f, round3(ev.Values[f]))
	}
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordModelAccuracy writes one model_accuracy point per forecast key.
func (s *InfluxSink) RecordModelAccuracy(evs []coremetrics.ModelAccuracyEvent) error {
	if len(evs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	points := make([]*write.Point, 0, len(evs))
	for _, ev := range evs {
		p := write.NewPointWithMeasurement("model_accuracy").
			AddTag("key", ev.Key).
			AddTag("mode", ev.Mode).
			AddTag("run_id", ev.RunID)
		if k, err := model.ParseForecastKey(ev.Key); err == nil {
			p.AddTag("facility_id", k.FacilityID).AddTag("metric", k.Metric)
		}
		p.AddField("mae", round3(ev.Metrics.MAE)).
			AddField("mape", round3(ev.Metrics.MAPE)).
			AddField("train_size", ev.Metrics.TrainSize).
			AddField("test_size", ev.Metrics.TestSize).
			SetTime(ev.Time)
		points = append(points, p)
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
