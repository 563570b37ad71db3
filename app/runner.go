// Package app wires the stores, the recompute core and the observability
// sinks into the runs exposed by the command line.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/facilitymetrics/app/plugins"
	"github.com/kilianp07/facilitymetrics/config"
	coremetrics "github.com/kilianp07/facilitymetrics/core/metrics"
	"github.com/kilianp07/facilitymetrics/core/model"
	coremon "github.com/kilianp07/facilitymetrics/core/monitoring"
	coremqtt "github.com/kilianp07/facilitymetrics/core/mqtt"
	"github.com/kilianp07/facilitymetrics/core/recompute"
	"github.com/kilianp07/facilitymetrics/infra/audit"
	"github.com/kilianp07/facilitymetrics/infra/logger"
	"github.com/kilianp07/facilitymetrics/infra/store"
	"github.com/kilianp07/facilitymetrics/internal/eventbus"
)

// Store reads the source documents and writes the facility document.
type Store interface {
	LoadCharts() (model.ChartData, error)
	LoadForecasts() (model.ForecastData, error)
	LoadFacilities() (*model.FacilityRegistry, error)
	SaveFacilities(reg *model.FacilityRegistry) error
}

// Result describes a finished run.
type Result struct {
	RunID      string
	Kind       string
	Mode       string
	Written    bool
	Registry   *model.FacilityRegistry
	Facilities recompute.FacilityReport
	Models     recompute.ModelReport
}

// Runner executes recompute runs one at a time.
type Runner struct {
	cfg        *config.Config
	store      Store
	recomputer *recompute.Recomputer
	sink       coremetrics.MetricsSink
	audit      audit.Store
	notifier   coremqtt.Notifier
	gatherer   prometheus.Gatherer
	events     *eventbus.Bus[coremetrics.RunEvent]
	log        logger.Logger
	dryRun     bool
	now        func() time.Time
	newID      func() string
}

// Option configures a Runner.
type Option func(*Runner)

func WithStore(s Store) Option                       { return func(r *Runner) { r.store = s } }
func WithSink(s coremetrics.MetricsSink) Option      { return func(r *Runner) { r.sink = s } }
func WithAudit(s audit.Store) Option                 { return func(r *Runner) { r.audit = s } }
func WithNotifier(n coremqtt.Notifier) Option        { return func(r *Runner) { r.notifier = n } }
func WithGatherer(g prometheus.Gatherer) Option      { return func(r *Runner) { r.gatherer = g } }
func WithLogger(l logger.Logger) Option              { return func(r *Runner) { r.log = l } }
func WithDryRun(dry bool) Option                     { return func(r *Runner) { r.dryRun = dry } }
func WithClock(now func() time.Time) Option          { return func(r *Runner) { r.now = now } }
func WithIDGenerator(newID func() string) Option     { return func(r *Runner) { r.newID = newID } }
func WithRecomputer(rc *recompute.Recomputer) Option { return func(r *Runner) { r.recomputer = rc } }

// NewRunner returns a Runner over the documents named in cfg. Sinks, audit
// and notifier default to no-ops.
func NewRunner(cfg *config.Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	r := &Runner{
		cfg:      cfg,
		store:    store.NewJSONStore(cfg.Stores),
		sink:     coremetrics.NopSink{},
		audit:    audit.NopStore{},
		notifier: coremqtt.NopNotifier{},
		events:   eventbus.New[coremetrics.RunEvent](),
		log:      logger.New("runner"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(r)
	}
	if r.recomputer == nil {
		r.recomputer = recompute.New(
			recompute.WithLogger(logger.New("recompute")),
			recompute.WithSeriesNames(cfg.Facilities.Series),
			recompute.WithDeltaWindow(cfg.Facilities.DeltaWindow),
		)
	}
	return r
}

// Subscribe returns a channel receiving the event of every finished run.
// Slow subscribers miss events rather than delay runs.
func (r *Runner) Subscribe() <-chan coremetrics.RunEvent { return r.events.Subscribe(0) }

// Unsubscribe closes a channel returned by Subscribe.
func (r *Runner) Unsubscribe(ch <-chan coremetrics.RunEvent) { r.events.Unsubscribe(ch) }

// DryRun reports whether runs skip the write.
func (r *Runner) DryRun() bool { return r.dryRun }

// Config returns the configuration of the runner.
func (r *Runner) Config() *config.Config { return r.cfg }

// UpdateFacilities recomputes the derived facility fields.
func (r *Runner) UpdateFacilities(ctx context.Context) (Result, error) {
	return r.run(ctx, coremetrics.KindFacilities, true, false)
}

// UpdateModelMetrics recomputes the model accuracy records.
func (r *Runner) UpdateModelMetrics(ctx context.Context) (Result, error) {
	return r.run(ctx, coremetrics.KindModels, false, true)
}

// RunAll recomputes facilities then models and writes the registry once.
func (r *Runner) RunAll(ctx context.Context) (Result, error) {
	return r.run(ctx, coremetrics.KindAll, true, true)
}

func (r *Runner) run(ctx context.Context, kind string, facilities, models bool) (Result, error) {
	res := Result{RunID: r.newID(), Kind: kind}
	if models {
		res.Mode = r.cfg.Models.Mode
	}
	log := withField(r.log, "run_id", res.RunID)
	started := r.now()
	log.Infof("starting %s run (dry_run=%t)", kind, r.dryRun)

	err := r.compute(ctx, log, &res, facilities, models)
	if err == nil && !r.dryRun {
		if err = r.store.SaveFacilities(res.Registry); err != nil {
			err = fmt.Errorf("save facilities: %w", err)
		} else {
			res.Written = true
		}
	}

	ev := r.event(res, started)
	if err != nil {
		ev.Err = err.Error()
		log.Errorf("%s run failed: %v", kind, err)
		coremon.CaptureException(err, map[string]string{"module": "app", "run_id": res.RunID, "kind": kind})
	} else {
		log.Infof("%s run done: %d facilities updated, %d keys scored, written=%t",
			kind, ev.FacilitiesUpdated, ev.KeysScored, res.Written)
	}
	r.publish(ctx, log, res, ev)
	r.events.Publish(ev)
	return res, err
}

func (r *Runner) compute(ctx context.Context, log logger.Logger, res *Result, facilities, models bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	reg, err := r.store.LoadFacilities()
	if err != nil {
		return fmt.Errorf("load facilities: %w", err)
	}
	charts, err := r.store.LoadCharts()
	if err != nil {
		return fmt.Errorf("load charts: %w", err)
	}
	if facilities {
		var rep recompute.FacilityReport
		reg, rep = r.recomputer.Facilities(charts, reg)
		res.Facilities = rep
		for _, id := range rep.Skipped {
			log.Debugf("facility %s skipped: no matching chart data", id)
		}
	}
	if models {
		if err := ctx.Err(); err != nil {
			return err
		}
		forecasts, err := r.store.LoadForecasts()
		if err != nil {
			return fmt.Errorf("load forecasts: %w", err)
		}
		scorer, err := plugins.NewScorer(r.cfg.Models, plugins.Inputs{Forecasts: forecasts, Prior: reg})
		if err != nil {
			return err
		}
		var rep recompute.ModelReport
		reg, rep, err = r.recomputer.ModelMetrics(charts, forecasts, reg, scorer)
		if err != nil {
			return fmt.Errorf("model metrics: %w", err)
		}
		res.Models = rep
	}
	res.Registry = reg
	return nil
}

func (r *Runner) event(res Result, started time.Time) coremetrics.RunEvent {
	return coremetrics.RunEvent{
		RunID:             res.RunID,
		Kind:              res.Kind,
		Mode:              res.Mode,
		DryRun:            r.dryRun,
		Started:           started,
		Finished:          r.now(),
		FacilitiesUpdated: len(res.Facilities.Updated),
		FacilitiesSkipped: len(res.Facilities.Skipped),
		KeysScored:        len(res.Models.Scored),
		KeysSkipped:       len(res.Models.Skipped),
		BadPoints:         res.Facilities.BadPoints + res.Models.BadPoints,
	}
}

func withField(l logger.Logger, key, value string) logger.Logger {
	if wl, ok := l.(interface {
		With(key, value string) logger.Logger
	}); ok {
		return wl.With(key, value)
	}
	return l
}
