package orchestration

import (
	"time"

	"github.com/agbru/picalc/internal/format"
	"github.com/agbru/picalc/internal/progress"
)

// ProgressAggregator folds progress updates from several methods into an
// average and an ETA. Both the CLI and the TUI consume it.
type ProgressAggregator struct {
	state      *format.ProgressWithETA
	numMethods int
}

// NewProgressAggregator returns nil if numMethods <= 0.
func NewProgressAggregator(numMethods int) *ProgressAggregator {
	if numMethods <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:      format.NewProgressWithETA(numMethods),
		numMethods: numMethods,
	}
}

// AggregatedProgress is the state after one update.
type AggregatedProgress struct {
	// Index is the method that sent the update.
	Index int
	// Value is the raw progress value from the update.
	Value float64
	// AverageProgress is the mean across all methods.
	AverageProgress float64
	// ETA is the estimated remaining time.
	ETA time.Duration
}

// Update processes a single progress update.
func (a *ProgressAggregator) Update(update progress.ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.Index, update.Value)
	return AggregatedProgress{
		Index:           update.Index,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average progress without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumMethods returns the number of methods being tracked.
func (a *ProgressAggregator) NumMethods() int {
	return a.numMethods
}

// IsMultiMethod reports whether more than one method is tracked.
func (a *ProgressAggregator) IsMultiMethod() bool {
	return a.numMethods > 1
}

// DrainChannel reads all updates until the channel is closed.
func DrainChannel(progressChan <-chan progress.ProgressUpdate) {
	for range progressChan {
	}
}
