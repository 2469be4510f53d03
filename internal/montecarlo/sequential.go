package montecarlo

import (
	"context"
	"time"

	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/progress"
)

// EstimateSequential is the single-goroutine reference: it samples
// totalSamples points from one stream on the calling goroutine. Given the
// same seed it produces exactly the counters of a one-worker Estimate. A
// non-positive scale selects DefaultScale.
func EstimateSequential(ctx context.Context, totalSamples int64, seed Seed, region Region, scale float64, onProgress progress.ProgressCallback) (Result, error) {
	part, err := NewPartition(totalSamples, 1)
	if err != nil {
		return Result{}, err
	}
	var cb progress.WorkerCallback
	if onProgress != nil {
		cb = func(_ int, fraction float64) { onProgress(fraction) }
	}

	start := time.Now()
	acc, err := RunWorker(ctx, WorkerSpec{Samples: totalSamples, Seed: seed, Region: region, Progress: cb})
	if err != nil {
		return Result{}, apperrors.WorkerError{Worker: 0, Cause: err}
	}
	return Result{
		Estimate:  NewEstimate(acc, scale),
		Combined:  acc,
		Workers:   []Accumulator{acc},
		Seeds:     []Seed{seed},
		Partition: part,
		Duration:  time.Since(start),
	}, nil
}
