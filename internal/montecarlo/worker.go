package montecarlo

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/progress"
)

const (
	// CheckInterval is the number of samples drawn between two context checks.
	CheckInterval = 4096
	// ProgressInterval is the number of samples drawn between two progress
	// reports. It is a multiple of CheckInterval.
	ProgressInterval = 16 * CheckInterval
)

// ErrWorkerPanic wraps a panic raised while a worker was sampling, for
// example inside a caller-supplied Region or progress callback.
var ErrWorkerPanic = errors.New("worker panicked")

// WorkerSpec describes one worker's run.
type WorkerSpec struct {
	// Index identifies the worker in progress reports and errors.
	Index int
	// Samples is the exact number of samples to draw. Must be >= 0.
	Samples int64
	// Seed initializes the worker's private stream.
	Seed Seed
	// Region is the classification predicate; nil selects UnitCircle.
	Region Region
	// Progress, if non-nil, receives the worker's completed fraction.
	Progress progress.WorkerCallback
}

// RunWorker draws exactly spec.Samples samples from a stream seeded with
// spec.Seed and returns the finished counters. Only counters are kept, so
// memory use is constant in the sample count.
//
// A negative sample count is rejected with a ValidationError before any
// sampling. Cancellation of ctx is observed every CheckInterval samples and
// returned as ctx.Err(); no partial counters are returned in that case. A
// panic during sampling is recovered and returned wrapping ErrWorkerPanic.
func RunWorker(ctx context.Context, spec WorkerSpec) (acc Accumulator, err error) {
	defer func() {
		if r := recover(); r != nil {
			acc, err = Accumulator{}, fmt.Errorf("%w: %v", ErrWorkerPanic, r)
		}
	}()
	if spec.Samples < 0 {
		return Accumulator{}, apperrors.NewValidationError("sampleCount", "must be non-negative, got %d", spec.Samples)
	}

	sampler := NewSampler(spec.Seed, spec.Region)
	for remaining := spec.Samples; remaining > 0; {
		if err := ctx.Err(); err != nil {
			return Accumulator{}, err
		}
		chunk := min(remaining, CheckInterval)
		for range chunk {
			acc = acc.Record(sampler.Classify(sampler.NextSample()))
		}
		remaining -= chunk

		if spec.Progress != nil && (acc.Total%ProgressInterval == 0 || remaining == 0) {
			spec.Progress(spec.Index, float64(acc.Total)/float64(spec.Samples))
		}
	}
	if spec.Samples == 0 && spec.Progress != nil {
		spec.Progress(spec.Index, 1)
	}
	return acc, nil
}
