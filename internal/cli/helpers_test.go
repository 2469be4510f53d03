package cli

import (
	"time"

	"github.com/agbru/picalc/internal/montecarlo"
	"github.com/agbru/picalc/internal/orchestration"
)

// sampleResult returns a two-worker result with the given counts.
func sampleResult(matched, total int64) montecarlo.Result {
	w0 := montecarlo.Accumulator{Matched: matched / 2, Total: total / 2}
	w1 := montecarlo.Accumulator{Matched: matched - w0.Matched, Total: total - w0.Total}
	combined := montecarlo.Combine(w0, w1)
	part, _ := montecarlo.NewPartition(total, 2)
	return montecarlo.Result{
		Estimate:  montecarlo.NewEstimate(combined, montecarlo.DefaultScale),
		Combined:  combined,
		Workers:   []montecarlo.Accumulator{w0, w1},
		Seeds:     []montecarlo.Seed{{Hi: 1, Lo: 2}, {Hi: 1, Lo: 3}},
		Partition: part,
		Duration:  time.Millisecond,
	}
}

func sampleEstimation(name string, matched, total int64) orchestration.EstimationResult {
	return orchestration.EstimationResult{Name: name, Result: sampleResult(matched, total), Duration: 5 * time.Millisecond}
}
