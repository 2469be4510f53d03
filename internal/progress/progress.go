// Package progress defines the progress types shared between the sampling
// engine, the orchestration layer and the presentation layers.
package progress

import "sync"

// ProgressUpdate is a progress notification for one running estimation method.
type ProgressUpdate struct {
	// Index identifies the method run that emitted the update.
	Index int
	// Value is the completed fraction, from 0.0 to 1.0.
	Value float64
}

// ProgressCallback receives the overall completed fraction of one run.
type ProgressCallback func(fraction float64)

// WorkerCallback receives the completed fraction of a single sampling worker.
// It is invoked from the worker's goroutine.
type WorkerCallback func(worker int, fraction float64)

// WorkerTracker folds per-worker fractions into a single fraction weighted
// by each worker's share of the samples. It is safe for concurrent use.
type WorkerTracker struct {
	mu      sync.Mutex
	weights []float64
	done    []float64
	onTotal ProgressCallback
}

// NewWorkerTracker creates a tracker for workers with the given sample
// shares. onTotal, if non-nil, is called with the new overall fraction after
// each update.
func NewWorkerTracker(shares []int64, onTotal ProgressCallback) *WorkerTracker {
	var sum int64
	for _, s := range shares {
		sum += s
	}
	weights := make([]float64, len(shares))
	for i, s := range shares {
		if sum > 0 {
			weights[i] = float64(s) / float64(sum)
		} else if len(shares) > 0 {
			weights[i] = 1 / float64(len(shares))
		}
	}
	return &WorkerTracker{
		weights: weights,
		done:    make([]float64, len(shares)),
		onTotal: onTotal,
	}
}

// Update records the fraction for one worker. Out-of-range indices are ignored.
func (t *WorkerTracker) Update(worker int, fraction float64) {
	t.mu.Lock()
	if worker < 0 || worker >= len(t.done) {
		t.mu.Unlock()
		return
	}
	t.done[worker] = clamp(fraction)
	total := t.totalLocked()
	t.mu.Unlock()

	if t.onTotal != nil {
		t.onTotal(total)
	}
}

// Total returns the current overall fraction.
func (t *WorkerTracker) Total() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalLocked()
}

// Snapshot returns a copy of the per-worker fractions.
func (t *WorkerTracker) Snapshot() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]float64, len(t.done))
	copy(out, t.done)
	return out
}

func (t *WorkerTracker) totalLocked() float64 {
	var total float64
	for i, d := range t.done {
		total += d * t.weights[i]
	}
	return clamp(total)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
