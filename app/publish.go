package app

import (
	"context"

	coremetrics "github.com/kilianp07/facilitymetrics/core/metrics"
	"github.com/kilianp07/facilitymetrics/core/model"
	"github.com/kilianp07/facilitymetrics/infra/audit"
	"github.com/kilianp07/facilitymetrics/infra/logger"
	inframetrics "github.com/kilianp07/facilitymetrics/infra/metrics"
)

// publish forwards a finished run to sinks, audit, notifier and textfile.
// Failures are logged and never change the outcome of the run.
func (r *Runner) publish(ctx context.Context, log logger.Logger, res Result, ev coremetrics.RunEvent) {
	if err := r.sink.RecordRun(ev); err != nil {
		log.Warnf("record run: %v", err)
	}
	if ev.Succeeded() {
		r.recordDetails(log, res, ev)
	}
	if err := r.audit.Append(ctx, auditRecord(res, ev)); err != nil {
		log.Warnf("audit append: %v", err)
	}
	if err := r.notifier.Notify(ctx, ev); err != nil {
		log.Warnf("notify: %v", err)
	}
	if path := r.cfg.Metrics.TextfilePath; path != "" && r.gatherer != nil {
		if err := inframetrics.WriteTextfile(path, r.gatherer); err != nil {
			log.Warnf("write textfile %s: %v", path, err)
		}
	}
}

func (r *Runner) recordDetails(log logger.Logger, res Result, ev coremetrics.RunEvent) {
	if rec, ok := r.sink.(coremetrics.FacilitySnapshotRecorder); ok {
		for _, snap := range res.Facilities.Updated {
			if err := rec.RecordFacilitySnapshot(coremetrics.FacilitySnapshotEvent{
				RunID:      res.RunID,
				FacilityID: snap.FacilityID,
				Values:     snap.Values,
				Time:       ev.Finished,
			}); err != nil {
				log.Warnf("record facility %s: %v", snap.FacilityID, err)
			}
		}
	}
	if rec, ok := r.sink.(coremetrics.ModelAccuracyRecorder); ok && len(res.Models.Scored) > 0 {
		evs := make([]coremetrics.ModelAccuracyEvent, 0, len(res.Models.Scored))
		for _, km := range res.Models.Scored {
			evs = append(evs, coremetrics.ModelAccuracyEvent{
				RunID:   res.RunID,
				Key:     km.Key,
				Mode:    res.Mode,
				Metrics: km.Metrics,
				Time:    ev.Finished,
			})
		}
		if err := rec.RecordModelAccuracy(evs); err != nil {
			log.Warnf("record model accuracy: %v", err)
		}
	}
}

func auditRecord(res Result, ev coremetrics.RunEvent) audit.Record {
	rec := audit.Record{
		RunID:     res.RunID,
		Timestamp: ev.Finished,
		Kind:      res.Kind,
		Mode:      res.Mode,
		DryRun:    ev.DryRun,
		Success:   ev.Succeeded(),
		Error:     ev.Err,
		Skipped:   res.Facilities.Skipped,
	}
	for _, snap := range res.Facilities.Updated {
		rec.Facilities = append(rec.Facilities, snap.FacilityID)
	}
	if len(res.Models.Scored) > 0 {
		rec.ModelMetrics = make(map[string]model.ModelMetrics, len(res.Models.Scored))
		for _, km := range res.Models.Scored {
			rec.ModelMetrics[km.Key] = km.Metrics
		}
	}
	return rec
}
