package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/picalc/internal/montecarlo"
	"github.com/agbru/picalc/internal/progress"
)

// EstimationResult is the outcome of one method run. It is the shared domain
// type between orchestration and presentation layers.
type EstimationResult struct {
	// Name is the display name of the method (e.g. "Parallel (fan-out/fan-in)").
	Name string
	// Index is the method's position in the list passed to ExecuteEstimations.
	Index int
	// Result holds the estimate and counters. It is the zero value if Err is set.
	Result montecarlo.Result
	// Duration is the wall-clock time of the run, including seed drawing.
	Duration time.Duration
	// Err contains any error that occurred during the run.
	Err error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Samples   int64
	Workers   int
	Verbose   bool
	Details   bool
	Tolerance float64
}

// ProgressReporter displays progress updates while methods run.
type ProgressReporter interface {
	// DisplayProgress consumes progressChan until it is closed and then calls
	// wg.Done. It runs on its own goroutine.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMethods int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMethods int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMethods int, out io.Writer) {
	f(wg, progressChan, numMethods, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. It is used in quiet mode and by the HTTP server.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders results.
type ResultPresenter interface {
	// PresentComparisonTable displays the per-method summary table.
	PresentComparisonTable(results []EstimationResult, out io.Writer)
	// PresentResult displays the retained result in full.
	PresentResult(result EstimationResult, opts PresentationOptions, out io.Writer)
}

// ErrorHandler turns a run error into an exit code.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
