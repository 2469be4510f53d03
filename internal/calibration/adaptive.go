// This file generates the worker counts benchmarked by calibration.

package calibration

import (
	"runtime"
	"slices"
)

// ─────────────────────────────────────────────────────────────────────────────
// Adaptive Worker Candidates
// ─────────────────────────────────────────────────────────────────────────────

// GenerateWorkerCandidates returns the worker counts to benchmark on this
// machine, in ascending order.
//
// The list always starts at 1 (a single stream). Powers of two are added up
// to the logical CPU count, then the CPU count itself and, on machines with
// more than one core, 2×NumCPU to measure oversubscription.
func GenerateWorkerCandidates() []int {
	return workerCandidates(runtime.NumCPU(), false)
}

// GenerateQuickWorkerCandidates returns a reduced set for auto-calibration
// at startup.
func GenerateQuickWorkerCandidates() []int {
	return workerCandidates(runtime.NumCPU(), true)
}

func workerCandidates(numCPU int, quick bool) []int {
	if numCPU <= 1 {
		return []int{1}
	}

	candidates := []int{1}
	if quick {
		candidates = append(candidates, max(numCPU/2, 1), numCPU)
	} else {
		for w := 2; w < numCPU; w *= 2 {
			candidates = append(candidates, w)
		}
		candidates = append(candidates, numCPU, 2*numCPU)
	}

	slices.Sort(candidates)
	return slices.Compact(candidates)
}
