package config

import "runtime"

// Worker count resolution chain (highest priority first):
//   1. CLI flags (-w, --workers)
//   2. Environment variable PICALC_WORKERS
//   3. Cached calibration profile (~/.picalc_calibration.json)
//   4. Adaptive hardware estimation (this file)

// ApplyAdaptiveWorkers fills in the worker count from the hardware when it
// was left at zero. A user-supplied count is never modified.
func ApplyAdaptiveWorkers(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateOptimalWorkers(cfg.Samples)
	}
	return cfg
}

// minSamplesPerWorker keeps tiny runs from paying goroutine start-up for a
// handful of samples each.
const minSamplesPerWorker = 1 << 14

// EstimateOptimalWorkers returns one worker per logical CPU, reduced for
// small sample counts. The result is always at least 1.
func EstimateOptimalWorkers(samples int64) int {
	workers := runtime.NumCPU()
	if limit := samples / minSamplesPerWorker; limit < int64(workers) {
		workers = int(limit)
	}
	return max(workers, 1)
}
