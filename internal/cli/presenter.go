package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/format"
	"github.com/agbru/picalc/internal/metrics"
	"github.com/agbru/picalc/internal/montecarlo"
	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/progress"
	"github.com/agbru/picalc/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numMethods int, out io.Writer) {
	DisplayProgress(wg, progressChan, numMethods, out)
}

// CLIResultPresenter renders results as colorized terminal text.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentComparisonTable prints one row per method. Columns are padded by
// hand because the cells carry ANSI codes.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.EstimationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	headers := []string{"Method", "Duration", "Estimate", "|Error|"}
	widths := make([]int, len(headers))
	rows := make([][]string, len(results))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for r, res := range results {
		rows[r] = []string{res.Name, durationCell(res.Duration), "-", "-"}
		if res.Err == nil && res.Result.Estimate.Defined {
			rows[r][2] = fmt.Sprintf("%.6f", res.Result.Estimate.Value)
			rows[r][3] = fmt.Sprintf("%.6f", res.Result.Estimate.AbsError(math.Pi))
		}
		for i, cell := range rows[r] {
			widths[i] = max(widths[i], len([]rune(cell)))
		}
	}

	for i, h := range headers {
		fmt.Fprintf(out, "%s%s%s%s   ", ui.ColorUnderline(), h, ui.ColorReset(), pad(widths[i]-len(h)))
	}
	fmt.Fprintf(out, "%sStatus%s\n", ui.ColorUnderline(), ui.ColorReset())

	colors := []func() string{ui.ColorBlue, ui.ColorYellow, ui.ColorCyan, ui.ColorGray}
	for r, res := range results {
		for i, cell := range rows[r] {
			fmt.Fprintf(out, "%s%s%s%s   ", colors[i](), cell, ui.ColorReset(), pad(widths[i]-len([]rune(cell))))
		}
		switch {
		case res.Err != nil:
			fmt.Fprintf(out, "%s❌ Failure (%v)%s\n", ui.ColorRed(), res.Err, ui.ColorReset())
		case !res.Result.Estimate.Defined:
			fmt.Fprintf(out, "%s⚠ Undefined%s\n", ui.ColorYellow(), ui.ColorReset())
		default:
			fmt.Fprintf(out, "%s✅ Success%s\n", ui.ColorGreen(), ui.ColorReset())
		}
	}
}

func durationCell(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// PresentResult displays the retained result.
func (CLIResultPresenter) PresentResult(result orchestration.EstimationResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result.Result, result.Duration, opts.Verbose, opts.Details, out)
}

// HandleError maps an estimation error to an exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}

// DisplayResult prints an estimate, its error against math.Pi, the counts
// and the throughput. details adds a per-worker breakdown; verbose prints
// the estimate with full float64 precision.
func DisplayResult(res montecarlo.Result, duration time.Duration, verbose, details bool, out io.Writer) {
	est := res.Estimate
	fmt.Fprintf(out, "\n--- Estimation Result ---\n")
	if !est.Defined {
		fmt.Fprintf(out, "%sEstimate undefined: no samples were taken.%s\n", ui.ColorYellow(), ui.ColorReset())
		return
	}

	valueFmt := "%.6f"
	if verbose {
		valueFmt = "%.15f"
	}
	fmt.Fprintf(out, "Estimate:        %s%s%s\n", ui.ColorGreen(), fmt.Sprintf(valueFmt, est.Value), ui.ColorReset())
	fmt.Fprintf(out, "Absolute error:  %s%.6f%s (vs π = %.15f)\n", ui.ColorCyan(), est.AbsError(math.Pi), ui.ColorReset(), math.Pi)
	fmt.Fprintf(out, "Standard error:  ±%.6f\n", est.StdError())
	fmt.Fprintf(out, "Inside region:   %s / %s (%.4f%%)\n",
		format.FormatInt(est.Matched), format.FormatInt(est.Total), 100*float64(est.Matched)/float64(est.Total))
	fmt.Fprintf(out, "Duration:        %s (%s)\n",
		format.FormatExecutionDuration(duration), format.FormatRate(format.SamplesPerSecond(est.Total, duration)))

	if details && len(res.Workers) > 0 {
		displayWorkerTable(res, out)
	}
}

func displayWorkerTable(res montecarlo.Result, out io.Writer) {
	fmt.Fprintf(out, "\n--- Per-worker breakdown (%d workers) ---\n", len(res.Workers))
	fmt.Fprintf(out, "%-8s %14s %14s %10s  %s\n", "Worker", "Samples", "Matched", "Estimate", "Seed")
	for i, w := range res.Workers {
		e := montecarlo.NewEstimate(w, res.Estimate.Scale)
		value := "-"
		if e.Defined {
			value = fmt.Sprintf("%.5f", e.Value)
		}
		seed := ""
		if i < len(res.Seeds) {
			seed = res.Seeds[i].String()
		}
		fmt.Fprintf(out, "%-8d %14s %14s %10s  %s%s%s\n",
			i, format.FormatInt(w.Total), format.FormatInt(w.Matched), value, ui.ColorGray(), seed, ui.ColorReset())
	}
}

// DisplayMemoryStats shows the memory used by a run.
func DisplayMemoryStats(delta metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(delta.HeapAlloc))
	fmt.Fprintf(out, "  Allocated:       %s\n", format.FormatBytes(delta.TotalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", delta.NumGC)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(delta.PauseTotalNs)/1e6)
}
