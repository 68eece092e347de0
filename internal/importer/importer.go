// Package importer runs the seed pipeline: validate the source set, clear the
// owned collections, transform and write every collection in dependency
// order, and report what was written.
//
// A run stops at the first failing phase. Validation failures abort before
// the store is touched; a source or write failure marks the run failed and
// leaves already-committed batches in place.
package importer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JonMunkholm/visitseed/internal/logging"
	"github.com/JonMunkholm/visitseed/internal/source"
	"github.com/JonMunkholm/visitseed/internal/store"
	"github.com/JonMunkholm/visitseed/internal/transform"
	"github.com/JonMunkholm/visitseed/internal/traveltime"
	"github.com/JonMunkholm/visitseed/internal/validate"
)

// Phase indicates the current stage of a run.
type Phase string

const (
	PhaseValidate Phase = "validate"
	PhaseClear    Phase = "clear"
	PhaseImport   Phase = "import"
	PhaseReport   Phase = "report"
	PhaseDone     Phase = "done"
	PhaseAborted  Phase = "aborted" // validation errors, nothing written
	PhaseFailed   Phase = "failed"  // source or store error
)

// Count is the number of documents handled for one collection.
type Count struct {
	Collection string
	Documents  int
}

// Result is the outcome of a run.
type Result struct {
	RunID string
	Phase Phase // PhaseDone, PhaseAborted or PhaseFailed

	// FailedIn is the phase that was running when the run stopped early.
	FailedIn Phase

	ValidationErrors []validate.ValidationError
	Cleared          []Count
	Imported         []Count // in import order
	Assigned         int     // orders given a sample assignment
	Err              error
	Duration         time.Duration
}

// OK reports whether the run completed.
func (r Result) OK() bool { return r.Phase == PhaseDone }

// Total returns the number of documents imported.
func (r Result) Total() int {
	n := 0
	for _, c := range r.Imported {
		n += c.Documents
	}
	return n
}

// Options configures an Importer.
type Options struct {
	DataDir string

	// WeekStart is the Monday orders are generated for; zero means the
	// current week in JST.
	WeekStart time.Time

	AssignRatio float64
	Office      traveltime.Location
	Validate    validate.Options
	BatchSize   int

	// Clock overrides time.Now.
	Clock func() time.Time
}

// Importer runs seed imports against one store.
type Importer struct {
	store     store.Store
	writer    *store.Writer
	estimator traveltime.Estimator
	opts      Options
	logger    *zap.Logger
}

// New creates an Importer. A nil estimator uses the Haversine estimate.
func New(s store.Store, est traveltime.Estimator, opts Options, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if est == nil {
		est = traveltime.HaversineEstimator{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Office.ID != "" {
		opts.Validate.OfficeID = opts.Office.ID
	}
	return &Importer{
		store:     s,
		writer:    store.NewWriter(s, opts.BatchSize, logger),
		estimator: est,
		opts:      opts,
		logger:    logger,
	}
}

// run tracks the state of one pipeline execution.
type run struct {
	im     *Importer
	res    Result
	logger *zap.Logger
	start  time.Time
}

func (im *Importer) newRun(mode string) *run {
	id := uuid.New().String()
	logger := logging.WithRun(im.logger, id)
	logger.Info("Seed run started",
		zap.String("mode", mode),
		zap.String("data_dir", im.opts.DataDir),
	)
	return &run{
		im:     im,
		res:    Result{RunID: id, Phase: PhaseValidate},
		logger: logger,
		start:  time.Now(),
	}
}

func (r *run) enter(p Phase) {
	r.res.Phase = p
	r.logger.Debug("Entering phase", zap.String("phase", string(p)))
}

func (r *run) fail(err error) Result {
	r.res.FailedIn = r.res.Phase
	r.res.Phase = PhaseFailed
	r.res.Err = err
	r.logger.Error("Seed run failed",
		zap.String("phase", string(r.res.FailedIn)),
		zap.Error(err),
	)
	return r.finish()
}

func (r *run) finish() Result {
	r.res.Duration = time.Since(r.start)
	return r.res
}

// validate loads and checks the source set. It returns nil when the run
// must stop.
func (r *run) validate() *source.Set {
	r.enter(PhaseValidate)

	set, err := source.LoadSet(r.im.opts.DataDir)
	if err != nil {
		r.fail(err)
		return nil
	}

	errs := validate.ValidateAll(set, r.im.opts.Validate)
	if len(errs) > 0 {
		r.res.ValidationErrors = errs
		r.res.FailedIn = PhaseValidate
		r.res.Phase = PhaseAborted
		r.logger.Warn("Validation failed, nothing written",
			zap.Int("errors", len(errs)),
			zap.Any("by_file", validate.CountByFile(errs)),
		)
		return nil
	}
	r.logger.Info("Validation passed")
	return set
}

func (r *run) clear(ctx context.Context, collections ...string) bool {
	r.enter(PhaseClear)
	for _, c := range collections {
		n, err := r.im.writer.Clear(ctx, c)
		if err != nil {
			r.fail(err)
			return false
		}
		r.res.Cleared = append(r.res.Cleared, Count{Collection: c, Documents: n})
		if n > 0 {
			r.logger.Info("Cleared collection", zap.String("collection", c), zap.Int("documents", n))
		}
	}
	return true
}

func (r *run) write(ctx context.Context, collection string, docs []store.Document) bool {
	n, err := r.im.writer.Write(ctx, collection, docs)
	if err != nil {
		r.fail(err)
		return false
	}
	r.res.Imported = append(r.res.Imported, Count{Collection: collection, Documents: n})
	r.logger.Info("Imported collection", zap.String("collection", collection), zap.Int("documents", n))
	return true
}

func (r *run) report() Result {
	r.enter(PhaseReport)
	r.logger.Info("Seed run complete",
		zap.Int("total", r.res.Total()),
		zap.Int("assigned", r.res.Assigned),
		zap.Duration("duration", time.Since(r.start)),
	)
	r.enter(PhaseDone)
	return r.finish()
}

func (im *Importer) orders(set *source.Set, now time.Time) []store.Document {
	helperIDs := make([]string, 0, set.Helpers.Len())
	for _, rec := range set.Helpers.Records {
		helperIDs = append(helperIDs, rec.Get("id"))
	}
	return transform.Orders(set.Customers, set.Services, transform.OrderOptions{
		WeekStart:   im.opts.WeekStart,
		AssignRatio: im.opts.AssignRatio,
		HelperIDs:   helperIDs,
		Now:         now,
	})
}

// Run executes the full pipeline: validate, clear every owned collection,
// then import customers, helpers and service types, orders, travel times
// and staff unavailability, in that order.
func (im *Importer) Run(ctx context.Context) Result {
	r := im.newRun("full")

	set := r.validate()
	if set == nil {
		return r.finish()
	}
	if !r.clear(ctx, store.Collections...) {
		return r.res
	}

	r.enter(PhaseImport)
	now := im.opts.Clock()

	if !r.write(ctx, store.Customers, transform.Customers(set.Customers, set.Services, set.Constraints, now)) {
		return r.res
	}
	if !r.write(ctx, store.Helpers, transform.Helpers(set.Helpers, set.Availability, set.TrainingStatus, now)) {
		return r.res
	}
	if !r.write(ctx, store.ServiceTypes, transform.ServiceTypes(set.ServiceTypes, now)) {
		return r.res
	}

	orders := im.orders(set, now)
	if !r.write(ctx, store.Orders, orders) {
		return r.res
	}
	r.res.Assigned = transform.Assigned(orders)

	locs := traveltime.Locations(im.opts.Office, set.Customers, set.Helpers)
	travel, err := traveltime.Generate(ctx, im.estimator, locs, now)
	if err != nil {
		return r.fail(err)
	}
	if !r.write(ctx, store.TravelTimes, travel) {
		return r.res
	}

	if !r.write(ctx, store.StaffUnavailability, transform.Unavailability(set.Unavailability, now)) {
		return r.res
	}

	return r.report()
}

// RunOrdersOnly validates the source set, then clears and regenerates the
// orders collection only.
func (im *Importer) RunOrdersOnly(ctx context.Context) Result {
	r := im.newRun("orders")

	set := r.validate()
	if set == nil {
		return r.finish()
	}
	if !r.clear(ctx, store.Orders) {
		return r.res
	}

	r.enter(PhaseImport)
	orders := im.orders(set, im.opts.Clock())
	if !r.write(ctx, store.Orders, orders) {
		return r.res
	}
	r.res.Assigned = transform.Assigned(orders)

	return r.report()
}

// Validate runs the validation phase only. The store is never touched.
func (im *Importer) Validate(ctx context.Context) Result {
	r := im.newRun("validate")
	if err := ctx.Err(); err != nil {
		return r.fail(err)
	}
	if set := r.validate(); set == nil {
		return r.finish()
	}
	r.enter(PhaseDone)
	return r.finish()
}
