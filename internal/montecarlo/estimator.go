package montecarlo

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/logging"
	"github.com/agbru/picalc/internal/parallel"
	"github.com/agbru/picalc/internal/progress"
)

// Result is the outcome of one estimation.
type Result struct {
	// Estimate is the scaled estimate derived from Combined.
	Estimate Estimate
	// Combined is the sum of every worker's counters.
	Combined Accumulator
	// Workers holds each worker's counters, indexed by worker.
	Workers []Accumulator
	// Seeds holds the seed each worker's stream was initialized with.
	Seeds []Seed
	// Partition is the split used for the run.
	Partition Partition
	// Duration is the wall-clock time from launch to join.
	Duration time.Duration
}

// Estimator fans a sample budget out to worker goroutines and joins their
// counters into one Estimate. An Estimator holds no per-run state and may be
// used concurrently.
type Estimator struct {
	seeds    SeedSource
	region   Region
	scale    float64
	logger   logging.Logger
	progress progress.WorkerCallback
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithSeedSource sets the source of per-worker seeds. By default every
// Estimate call draws a fresh base from the OS entropy pool.
func WithSeedSource(s SeedSource) Option {
	return func(e *Estimator) { e.seeds = s }
}

// WithRegion sets the classification predicate (default UnitCircle).
func WithRegion(r Region) Option {
	return func(e *Estimator) { e.region = r }
}

// WithScale sets the constant the matched fraction is multiplied by
// (default DefaultScale). A non-positive scale selects DefaultScale.
func WithScale(scale float64) Option {
	return func(e *Estimator) { e.scale = normalizeScale(scale) }
}

// WithLogger sets the logger used for worker lifecycle events.
func WithLogger(l logging.Logger) Option {
	return func(e *Estimator) { e.logger = l }
}

// WithProgress sets a callback receiving per-worker progress. It is called
// from worker goroutines and must be safe for concurrent use.
func WithProgress(cb progress.WorkerCallback) Option {
	return func(e *Estimator) { e.progress = cb }
}

// NewEstimator creates an Estimator with the given options.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		region: UnitCircle{},
		scale:  DefaultScale,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// With returns a copy of e with additional options applied.
func (e *Estimator) With(opts ...Option) *Estimator {
	c := *e
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// Estimate splits totalSamples across exactly workerCount goroutines, waits
// for all of them, and combines their counters.
//
// Invalid arguments are rejected with a ValidationError before any work
// starts. If any worker fails, the remaining workers are canceled and the
// first failure is returned as a WorkerError; partial counters are never
// combined. A zero sample budget yields a Result whose Estimate is undefined.
func (e *Estimator) Estimate(ctx context.Context, totalSamples int64, workerCount int) (Result, error) {
	part, err := NewPartition(totalSamples, workerCount)
	if err != nil {
		return Result{}, err
	}

	ctx, span := tracer.Start(ctx, "montecarlo.Estimate", trace.WithAttributes(
		attribute.Int64("samples.total", totalSamples),
		attribute.Int("workers", workerCount),
	))
	defer span.End()

	seeds, err := e.drawSeeds(workerCount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	start := time.Now()
	partials, err := e.fanOut(ctx, part, seeds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.Error("estimation aborted", err, logging.Int("workers", workerCount))
		return Result{}, err
	}

	combined := Combine(partials...)
	res := Result{
		Estimate:  NewEstimate(combined, e.scale),
		Combined:  combined,
		Workers:   partials,
		Seeds:     seeds,
		Partition: part,
		Duration:  time.Since(start),
	}

	span.SetAttributes(
		attribute.Int64("samples.matched", combined.Matched),
		attribute.Bool("estimate.defined", res.Estimate.Defined),
		attribute.Float64("estimate.value", res.Estimate.Value),
	)
	span.SetStatus(codes.Ok, "")
	e.logger.Debug("estimation complete",
		logging.Int64("total", combined.Total),
		logging.Int64("matched", combined.Matched),
		logging.Duration("duration", res.Duration))
	return res, nil
}

// drawSeeds draws one seed per worker, in worker order, before anything is
// launched. A failure is attributed to the worker whose seed could not be drawn.
func (e *Estimator) drawSeeds(workerCount int) ([]Seed, error) {
	source := e.seeds
	if source == nil {
		s, err := NewEntropySeedSource()
		if err != nil {
			return nil, apperrors.WorkerError{Worker: 0, Cause: err}
		}
		source = s
	}
	seeds := make([]Seed, workerCount)
	for i := range seeds {
		s, err := source.Next()
		if err != nil {
			return nil, apperrors.WorkerError{Worker: i, Cause: err}
		}
		seeds[i] = s
	}
	return seeds, nil
}

// fanOut launches one goroutine per share and joins them all. Each goroutine
// writes only its own slot of the returned slice.
func (e *Estimator) fanOut(ctx context.Context, part Partition, seeds []Seed) ([]Accumulator, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	partials := make([]Accumulator, part.WorkerCount)
	var (
		wg   sync.WaitGroup
		errs parallel.ErrorCollector
	)
	for i := range part.WorkerCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wctx, span := tracer.Start(ctx, "montecarlo.Worker", trace.WithAttributes(
				attribute.Int("worker", i),
				attribute.Int64("samples", part.Share(i)),
			))
			defer span.End()

			acc, err := RunWorker(wctx, WorkerSpec{
				Index:    i,
				Samples:  part.Share(i),
				Seed:     seeds[i],
				Region:   e.region,
				Progress: e.progress,
			})
			if err != nil {
				span.RecordError(err)
				if errs.SetError(apperrors.WorkerError{Worker: i, Cause: err}) {
					cancel()
				}
				return
			}
			partials[i] = acc
			e.logger.Debug("worker done",
				logging.Int("worker", i),
				logging.Int64("total", acc.Total),
				logging.Int64("matched", acc.Matched))
		}()
	}
	wg.Wait()

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return partials, nil
}
