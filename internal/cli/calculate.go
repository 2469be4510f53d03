package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/picalc/internal/config"
	"github.com/agbru/picalc/internal/format"
	"github.com/agbru/picalc/internal/montecarlo"
	"github.com/agbru/picalc/internal/ui"
)

// PrintExecutionConfig displays the sample budget, the worker count and the
// environment.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Estimating %sπ%s from %s%s%s samples with a timeout of %s%s%s.\n",
		ui.ColorBold(), ui.ColorReset(),
		ui.ColorCyan(), format.FormatInt(cfg.Samples), ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	seed := "entropy"
	if cfg.Seed != 0 {
		seed = fmt.Sprintf("fixed (%d)", cfg.Seed)
	}
	fmt.Fprintf(out, "Workers: %s%d%s, seed: %s%s%s.\n",
		ui.ColorCyan(), cfg.Workers, ui.ColorReset(), ui.ColorCyan(), seed, ui.ColorReset())
}

// PrintExecutionMode displays whether one method runs or several are compared.
func PrintExecutionMode(methods []montecarlo.Method, out io.Writer) {
	var modeDesc string
	switch len(methods) {
	case 0:
		modeDesc = "no method selected"
	case 1:
		modeDesc = fmt.Sprintf("Single run with the %s%s%s method", ui.ColorGreen(), methods[0].Name(), ui.ColorReset())
	default:
		modeDesc = fmt.Sprintf("Concurrent comparison of %d methods", len(methods))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
