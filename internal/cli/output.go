// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteResultToFile].

package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/agbru/picalc/internal/montecarlo"
	"github.com/agbru/picalc/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet mode prints only the estimate.
	Quiet bool
	// Verbose prints the estimate with full precision.
	Verbose bool
	// Details adds the per-worker breakdown.
	Details bool
}

// WriteResultToFile writes a result with a commented header to
// cfg.OutputFile, creating parent directories as needed. It does nothing
// when cfg.OutputFile is empty.
func WriteResultToFile(res montecarlo.Result, duration time.Duration, method string, cfg OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}

	if dir := filepath.Dir(cfg.OutputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# Monte Carlo Estimate\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Method: %s\n", method)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# Samples: %d\n", res.Combined.Total)
	fmt.Fprintf(file, "# Workers: %d\n", res.Partition.WorkerCount)
	fmt.Fprintf(file, "\n")
	fmt.Fprintf(file, "matched = %d\n", res.Combined.Matched)
	fmt.Fprintf(file, "total = %d\n", res.Combined.Total)
	if res.Estimate.Defined {
		fmt.Fprintf(file, "estimate = %s\n", FormatQuietResult(res.Estimate))
		fmt.Fprintf(file, "abs_error = %g\n", res.Estimate.AbsError(math.Pi))
	} else {
		fmt.Fprintf(file, "estimate = undefined\n")
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// FormatQuietResult renders an estimate as a single token suitable for
// scripting: the shortest decimal that round-trips, or "undefined".
func FormatQuietResult(est montecarlo.Estimate) string {
	if !est.Defined {
		return "undefined"
	}
	return strconv.FormatFloat(est.Value, 'f', -1, 64)
}

// DisplayQuietResult outputs an estimate in quiet mode.
func DisplayQuietResult(out io.Writer, est montecarlo.Estimate) {
	fmt.Fprintln(out, FormatQuietResult(est))
}

// DisplayResultWithConfig displays a result according to cfg and saves it
// when cfg.OutputFile is set.
func DisplayResultWithConfig(out io.Writer, res montecarlo.Result, duration time.Duration, method string, cfg OutputConfig) error {
	if cfg.Quiet {
		DisplayQuietResult(out, res.Estimate)
	} else {
		DisplayResult(res, duration, cfg.Verbose, cfg.Details, out)
	}

	if cfg.OutputFile == "" {
		return nil
	}
	if err := WriteResultToFile(res, duration, method, cfg); err != nil {
		return err
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
	}
	return nil
}
