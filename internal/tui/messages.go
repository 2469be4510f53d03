package tui

import (
	"time"

	"github.com/agbru/picalc/internal/metrics"
	"github.com/agbru/picalc/internal/orchestration"
)

// ProgressMsg carries an aggregated progress update for one method.
type ProgressMsg struct {
	Index           int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// ProgressDoneMsg signals that the progress channel was closed.
type ProgressDoneMsg struct{}

// WorkerProgressMsg carries the completed fraction of one parallel worker.
type WorkerProgressMsg struct {
	Worker     int
	Fraction   float64
	Generation uint64
}

// ComparisonResultsMsg carries the sorted results of every method.
type ComparisonResultsMsg struct {
	Results []orchestration.EstimationResult
}

// FinalResultMsg carries the retained result.
type FinalResultMsg struct {
	Result  orchestration.EstimationResult
	Options orchestration.PresentationOptions
}

// ErrorMsg reports a failure of every method.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// TickMsg drives periodic sampling of runtime and system stats.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory snapshot.
type MemStatsMsg struct {
	Snapshot metrics.MemorySnapshot
}

// SysStatsMsg carries system-wide CPU and memory usage.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
	BusyCores  int
}

// CalculationCompleteMsg is sent when a run finishes.
type CalculationCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg is sent when the run context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
