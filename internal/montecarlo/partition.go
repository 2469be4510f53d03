package montecarlo

import apperrors "github.com/agbru/picalc/internal/errors"

// Partition is the split of a total sample count into per-worker shares.
//
// Every worker receives SamplesPerWorker samples; the Remainder is handed
// out one sample at a time to the first Remainder workers, so shares differ
// by at most one and always sum to the requested total.
type Partition struct {
	WorkerCount      int
	SamplesPerWorker int64
	Remainder        int64
}

// NewPartition splits totalSamples across workerCount workers.
// It returns a ValidationError when totalSamples < 0 or workerCount < 1.
func NewPartition(totalSamples int64, workerCount int) (Partition, error) {
	if totalSamples < 0 {
		return Partition{}, apperrors.NewValidationError("totalSamples", "must be non-negative, got %d", totalSamples)
	}
	if workerCount < 1 {
		return Partition{}, apperrors.NewValidationError("workerCount", "must be at least 1, got %d", workerCount)
	}
	n := int64(workerCount)
	return Partition{
		WorkerCount:      workerCount,
		SamplesPerWorker: totalSamples / n,
		Remainder:        totalSamples % n,
	}, nil
}

// Share returns the number of samples assigned to worker i.
func (p Partition) Share(i int) int64 {
	if i < 0 || i >= p.WorkerCount {
		return 0
	}
	if int64(i) < p.Remainder {
		return p.SamplesPerWorker + 1
	}
	return p.SamplesPerWorker
}

// Shares returns every worker's share in worker order.
func (p Partition) Shares() []int64 {
	out := make([]int64, p.WorkerCount)
	for i := range out {
		out[i] = p.Share(i)
	}
	return out
}

// Total returns the number of samples covered by the partition.
func (p Partition) Total() int64 {
	return p.SamplesPerWorker*int64(p.WorkerCount) + p.Remainder
}
