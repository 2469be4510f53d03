package orchestration

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/montecarlo"
	"github.com/agbru/picalc/internal/progress"
)

// ProgressBufferMultiplier sizes the progress channel per method. Updates
// that do not fit are dropped rather than stalling a sampling worker.
const ProgressBufferMultiplier = 16

// MismatchSigmas is the number of combined standard errors two independent
// estimates may differ by before the comparison fails, on top of the
// configured tolerance.
const MismatchSigmas = 4.0

// ExecuteEstimations runs every method concurrently on the same sample budget
// and returns one result per method, in the order of methods.
//
// A method failure is recorded in its EstimationResult and does not stop the
// others. Cancelling ctx stops every run.
func ExecuteEstimations(ctx context.Context, methods []montecarlo.Method, samples int64, workers int, progressReporter ProgressReporter, out io.Writer) []EstimationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]EstimationResult, len(methods))
	progressChan := make(chan progress.ProgressUpdate, max(len(methods), 1)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(methods), out)

	for i, m := range methods {
		g.Go(func() error {
			report := func(fraction float64) {
				select {
				case progressChan <- progress.ProgressUpdate{Index: i, Value: fraction}:
				default:
				}
			}
			start := time.Now()
			res, err := m.Run(ctx, report, samples, workers)
			results[i] = EstimationResult{Name: m.Name(), Index: i, Result: res, Duration: time.Since(start), Err: err}
			if err == nil {
				progressChan <- progress.ProgressUpdate{Index: i, Value: 1}
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults sorts the results (successes first, then by
// duration), presents the comparison table, checks that every defined
// estimate agrees with the retained one, and presents that result. The
// retained result is the successful one with the lowest Index, so that the
// reported estimate does not depend on which method finished first.
//
// Two estimates agree when they differ by at most max(Tolerance,
// MismatchSigmas * combined standard error). The returned exit code is
// ExitSuccess, ExitErrorMismatch, ExitErrorUndefined, or the code chosen by
// handler for the first error when every run failed.
func AnalyzeComparisonResults(results []EstimationResult, opts PresentationOptions, presenter ResultPresenter, handler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstError error
	for i := range results {
		if results[i].Err != nil {
			firstError = results[i].Err
			break
		}
	}
	firstValid := FindRetainedResult(results)

	presenter.PresentComparisonTable(results, out)

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No method could complete the estimate.\n")
		return handler.HandleError(firstError, 0, out)
	}

	ref := firstValid.Result.Estimate
	if !ref.Defined {
		fmt.Fprintf(out, "\nGlobal Status: Undefined. No samples were taken, so there is no estimate.\n")
		return apperrors.ExitErrorUndefined
	}

	for _, res := range results {
		if res.Err != nil || !res.Result.Estimate.Defined {
			continue
		}
		if !EstimatesAgree(ref, res.Result.Estimate, opts.Tolerance) {
			fmt.Fprintf(out, "\nGlobal Status: MISMATCH! %s estimated %.6f, %s estimated %.6f (tolerance %g).\n",
				firstValid.Name, ref.Value, res.Name, res.Result.Estimate.Value, opts.Tolerance)
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All estimates are consistent.\n")
	presenter.PresentResult(*firstValid, opts, out)
	return apperrors.ExitSuccess
}

// EstimatesAgree reports whether two defined estimates are statistically
// compatible. See AnalyzeComparisonResults.
func EstimatesAgree(a, b montecarlo.Estimate, tolerance float64) bool {
	limit := tolerance
	if se := math.Hypot(a.StdError(), b.StdError()); !math.IsInf(se, 0) {
		limit = max(limit, MismatchSigmas*se)
	}
	return math.Abs(a.Value-b.Value) <= limit
}

// FindRetainedResult returns the successful result with the lowest Index,
// or nil. Ties keep the earlier element.
func FindRetainedResult(results []EstimationResult) *EstimationResult {
	var retained *EstimationResult
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		if retained == nil || results[i].Index < retained.Index {
			retained = &results[i]
		}
	}
	return retained
}
