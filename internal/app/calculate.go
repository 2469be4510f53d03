package app

import (
	"context"
	"fmt"
	"io"
	"math"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/picalc/internal/cli"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/logging"
	"github.com/agbru/picalc/internal/metrics"
	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/ui"
)

// runCalculate orchestrates the execution of the CLI estimation command.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	methods := orchestration.GetMethodsToRun(a.Config.Method, a.Factory)
	if len(methods) == 0 {
		fmt.Fprintf(a.ErrWriter, "No method matches %q.\n", a.Config.Method)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(methods, out)
	}

	var progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		progressReporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	results := orchestration.ExecuteEstimations(ctx, methods, a.Config.Samples, a.Config.Workers, progressReporter, progressOut)
	memDelta := collector.Snapshot().Sub(before)

	a.logResults(results)

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
	}
	exitCode := a.analyzeResultsWithOutput(results, outputCfg, out)
	if a.Config.Details && !a.Config.Quiet {
		cli.DisplayMemoryStats(memDelta, out)
	}
	return exitCode
}

func (a *Application) logResults(results []orchestration.EstimationResult) {
	for _, r := range results {
		if r.Err != nil {
			a.Logger.Debug("method failed", logging.String("method", r.Name), logging.Err(r.Err))
			continue
		}
		a.Logger.Debug("method finished",
			logging.String("method", r.Name),
			logging.Int64("matched", r.Result.Combined.Matched),
			logging.Int64("total", r.Result.Combined.Total),
			logging.Float64("abs_error", r.Result.Estimate.AbsError(math.Pi)),
			logging.Duration("duration", r.Duration))
	}
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.EstimationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	presOpts := orchestration.PresentationOptions{
		Samples:   a.Config.Samples,
		Workers:   a.Config.Workers,
		Verbose:   a.Config.Verbose,
		Details:   a.Config.Details,
		Tolerance: a.Config.Tolerance,
	}

	if outputCfg.Quiet {
		qp := quietPresenter{out: out, errOut: a.ErrWriter}
		exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, qp, qp, io.Discard)
		if exitCode == apperrors.ExitErrorUndefined {
			fmt.Fprintln(out, "undefined")
		}
		if exitCode == apperrors.ExitSuccess {
			if err := a.saveResultIfNeeded(orchestration.FindRetainedResult(results), outputCfg); err != nil {
				return apperrors.ExitErrorGeneric
			}
		}
		return exitCode
	}

	exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)
	if exitCode != apperrors.ExitSuccess {
		return exitCode
	}
	best := orchestration.FindRetainedResult(results)
	if err := a.saveResultIfNeeded(best, outputCfg); err != nil {
		return apperrors.ExitErrorGeneric
	}
	if best != nil && outputCfg.OutputFile != "" {
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), outputCfg.OutputFile, ui.ColorReset())
	}
	return exitCode
}

func (a *Application) saveResultIfNeeded(res *orchestration.EstimationResult, cfg cli.OutputConfig) error {
	if res == nil || cfg.OutputFile == "" {
		return nil
	}
	if err := cli.WriteResultToFile(res.Result, res.Duration, res.Name, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return err
	}
	return nil
}

// quietPresenter prints only the retained estimate. Errors go to errOut so
// that out stays parseable.
type quietPresenter struct {
	out    io.Writer
	errOut io.Writer
}

func (quietPresenter) PresentComparisonTable([]orchestration.EstimationResult, io.Writer) {}

func (q quietPresenter) PresentResult(result orchestration.EstimationResult, _ orchestration.PresentationOptions, _ io.Writer) {
	cli.DisplayQuietResult(q.out, result.Result.Estimate)
}

func (q quietPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, q.errOut, nil)
}
