// Package config defines the command-line configuration of picalc and the
// logic that parses, overrides and validates it.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/picalc/internal/errors"
)

// EnvPrefix is the prefix of every environment variable read by picalc.
const EnvPrefix = "PICALC_"

// Default values used when neither a flag nor an environment variable is set.
const (
	DefaultSamples   int64 = 10_000_000
	DefaultTimeout         = 5 * time.Minute
	DefaultTolerance       = 0.01
	DefaultMethod          = "all"
	DefaultLogLevel        = "warn"

	// MaxSamples caps a single estimate so that a typo cannot pin every core
	// for hours.
	MaxSamples int64 = 1 << 40
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Samples is the total number of random points to draw.
	Samples int64
	// Workers is the number of concurrent workers. Zero selects a value from
	// the hardware (see ApplyAdaptiveWorkers).
	Workers int
	// ExplicitWorkers records that Workers came from -w or PICALC_WORKERS.
	// Calibration never overrides such a count.
	ExplicitWorkers bool
	// Seed fixes the base of the seed source. Zero means entropy.
	Seed uint64
	// Method selects the estimation method: "parallel", "sequential" or "all".
	Method string
	// Timeout bounds the whole run.
	Timeout time.Duration
	// Tolerance is the largest accepted difference between two methods'
	// estimates before the comparison is reported as a mismatch.
	Tolerance float64

	Verbose bool
	Details bool
	Quiet   bool
	NoColor bool
	TUI     bool

	// Interactive starts the line-oriented shell.
	Interactive bool

	OutputFile string

	// ServeAddr starts the HTTP server on this address when non-empty.
	ServeAddr string

	Calibrate          bool
	AutoCalibrate      bool
	CalibrationProfile string

	// Completion prints a completion script for the named shell.
	Completion string

	LogLevel string
}

// ParseConfig parses args with a dedicated FlagSet named programName, applies
// PICALC_* environment overrides for flags that were not given explicitly, and
// validates the result. Help output and parse errors are written to errWriter.
func ParseConfig(programName string, args []string, errWriter io.Writer, availableMethods []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	cfg := AppConfig{}
	methodHelp := fmt.Sprintf("Estimation method: %s or 'all'.", strings.Join(availableMethods, ", "))

	fs.Int64Var(&cfg.Samples, "n", DefaultSamples, "Total number of random samples to draw.")
	fs.Int64Var(&cfg.Samples, "samples", DefaultSamples, "Total number of random samples (alias for -n).")
	fs.IntVar(&cfg.Workers, "w", 0, "Number of concurrent workers (0 = adaptive).")
	fs.IntVar(&cfg.Workers, "workers", 0, "Number of concurrent workers (alias for -w).")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Base seed for reproducible runs (0 = entropy).")
	fs.StringVar(&cfg.Method, "method", DefaultMethod, methodHelp)
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum run time (e.g. 30s, 5m).")
	fs.Float64Var(&cfg.Tolerance, "tolerance", DefaultTolerance, "Maximum accepted difference between methods.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose output.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (alias for -v).")
	fs.BoolVar(&cfg.Details, "d", false, "Show per-worker details.")
	fs.BoolVar(&cfg.Details, "details", false, "Show per-worker details (alias for -d).")
	fs.BoolVar(&cfg.Quiet, "q", false, "Quiet mode: print only the estimate.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Quiet mode (alias for -q).")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Launch the interactive dashboard.")
	fs.BoolVar(&cfg.Interactive, "i", false, "Start the interactive shell.")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "Start the interactive shell (alias for -i).")
	fs.StringVar(&cfg.OutputFile, "o", "", "Write the result to this file.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write the result to this file (alias for -o).")
	fs.StringVar(&cfg.ServeAddr, "serve", "", "Serve estimates over HTTP on this address (e.g. :8080).")
	fs.BoolVar(&cfg.Calibrate, "calibrate", false, "Benchmark worker counts and save the best one.")
	fs.BoolVar(&cfg.AutoCalibrate, "auto-calibrate", false, "Run a quick calibration before estimating.")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", "", "Path of the calibration profile.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script (bash, zsh, fish, powershell).")
	fs.StringVar(&cfg.LogLevel, "log-level", DefaultLogLevel, "Log level (trace, debug, info, warn, error).")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&cfg, fs)
	cfg.ExplicitWorkers = cfg.Workers != 0
	cfg.Method = strings.ToLower(strings.TrimSpace(cfg.Method))

	if cfg.Completion != "" {
		return cfg, nil
	}
	if err := cfg.Validate(availableMethods); err != nil {
		fmt.Fprintln(errWriter, "Configuration error:", err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate(availableMethods []string) error {
	switch {
	case c.Samples < 0:
		return apperrors.NewConfigError("sample count must be non-negative, got %d", c.Samples)
	case c.Samples > MaxSamples:
		return apperrors.NewConfigError("sample count %d exceeds the maximum of %d", c.Samples, MaxSamples)
	case c.Workers < 0:
		return apperrors.NewConfigError("worker count must be non-negative, got %d", c.Workers)
	case c.Timeout <= 0:
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	case c.Tolerance < 0:
		return apperrors.NewConfigError("tolerance must be non-negative, got %g", c.Tolerance)
	case c.Quiet && c.TUI:
		return apperrors.NewConfigError("--quiet and --tui cannot be combined")
	}
	if c.Method != "all" && !slices.Contains(availableMethods, c.Method) {
		return apperrors.NewConfigError("unknown method %q (available: %s, all)",
			c.Method, strings.Join(availableMethods, ", "))
	}
	return nil
}
