package montecarlo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/agbru/picalc/internal/progress"
)

// Method names registered by NewDefaultFactory.
const (
	MethodParallel   = "parallel"
	MethodSequential = "sequential"
)

// Method is one way of producing an estimate, so that different strategies
// can be run side by side and compared.
type Method interface {
	// Name returns the display name of the method.
	Name() string
	// Run performs one estimation. workerCount is ignored by methods that do
	// not fan out. onProgress may be nil.
	Run(ctx context.Context, onProgress progress.ProgressCallback, totalSamples int64, workerCount int) (Result, error)
}

// ParallelMethod runs the fan-out Estimator.
type ParallelMethod struct {
	Estimator *Estimator
}

// Name implements Method.
func (ParallelMethod) Name() string { return "Parallel (fan-out/fan-in)" }

// Run implements Method.
func (m ParallelMethod) Run(ctx context.Context, onProgress progress.ProgressCallback, totalSamples int64, workerCount int) (Result, error) {
	est := m.Estimator
	if est == nil {
		est = NewEstimator()
	}
	if onProgress != nil {
		if part, err := NewPartition(totalSamples, workerCount); err == nil {
			tracker := progress.NewWorkerTracker(part.Shares(), onProgress)
			cb := tracker.Update
			if perWorker := est.progress; perWorker != nil {
				cb = func(worker int, fraction float64) {
					tracker.Update(worker, fraction)
					perWorker(worker, fraction)
				}
			}
			est = est.With(WithProgress(cb))
		}
	}
	return est.Estimate(ctx, totalSamples, workerCount)
}

// SequentialMethod runs EstimateSequential on the calling goroutine.
type SequentialMethod struct {
	Seeds  SeedSource
	Region Region
	Scale  float64
}

// Name implements Method.
func (SequentialMethod) Name() string { return "Sequential (reference)" }

// Run implements Method.
func (m SequentialMethod) Run(ctx context.Context, onProgress progress.ProgressCallback, totalSamples int64, _ int) (Result, error) {
	if _, err := NewPartition(totalSamples, 1); err != nil {
		return Result{}, err
	}
	source := m.Seeds
	if source == nil {
		s, err := NewEntropySeedSource()
		if err != nil {
			return Result{}, err
		}
		source = s
	}
	seed, err := source.Next()
	if err != nil {
		return Result{}, err
	}
	return EstimateSequential(ctx, totalSamples, seed, m.Region, m.Scale, onProgress)
}

// MethodFactory is a registry of named methods.
type MethodFactory struct {
	mu      sync.RWMutex
	methods map[string]Method
}

// NewMethodFactory creates an empty factory.
func NewMethodFactory() *MethodFactory {
	return &MethodFactory{methods: make(map[string]Method)}
}

// Seed families of the methods registered by NewDefaultFactory.
const (
	parallelFamily uint64 = iota
	sequentialFamily
)

// NewDefaultFactory registers the parallel and sequential methods. When
// seeds is a *CounterSeedSource each method draws from its own fork, so
// running both at once stays reproducible. Any other non-nil source is
// shared by the two methods.
func NewDefaultFactory(seeds SeedSource, opts ...Option) *MethodFactory {
	f := NewMethodFactory()
	parSeeds, seqSeeds := seeds, seeds
	if cs, ok := seeds.(*CounterSeedSource); ok && cs != nil {
		parSeeds, seqSeeds = cs.Fork(parallelFamily), cs.Fork(sequentialFamily)
	}
	if parSeeds != nil {
		opts = append([]Option{WithSeedSource(parSeeds)}, opts...)
	}
	est := NewEstimator(opts...)
	f.Register(MethodParallel, ParallelMethod{Estimator: est})
	f.Register(MethodSequential, SequentialMethod{Seeds: seqSeeds, Region: est.region, Scale: est.scale})
	return f
}

// Register adds or replaces a method.
func (f *MethodFactory) Register(name string, m Method) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.methods[name] = m
}

// Get returns the method registered under name.
func (f *MethodFactory) Get(name string) (Method, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	m, ok := f.methods[name]
	if !ok {
		return nil, fmt.Errorf("unknown method %q", name)
	}
	return m, nil
}

// List returns the registered names in sorted order.
func (f *MethodFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.methods))
	for name := range f.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
