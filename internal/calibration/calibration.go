// Package calibration benchmarks worker counts on the current machine and
// caches the fastest one in a hardware-keyed JSON profile.
package calibration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/agbru/picalc/internal/config"
	"github.com/agbru/picalc/internal/montecarlo"
)

const (
	// CalibrationSamples is the sample budget of a full calibration run.
	CalibrationSamples int64 = 20_000_000
	// QuickCalibrationSamples is the budget of the startup auto-calibration.
	QuickCalibrationSamples int64 = 2_000_000
)

// ErrNoCandidate is returned when every benchmarked worker count failed.
var ErrNoCandidate = errors.New("calibration: no worker count completed")

type calibrationResult struct {
	Workers  int
	Duration time.Duration
	Err      error
}

// benchmark runs method once per candidate and returns the timings in
// candidate order together with the fastest successful worker count.
func benchmark(ctx context.Context, method montecarlo.Method, samples int64, candidates []int) ([]calibrationResult, int, error) {
	results := make([]calibrationResult, 0, len(candidates))
	best, bestDuration := 0, time.Duration(0)
	for _, w := range candidates {
		if err := ctx.Err(); err != nil {
			return results, 0, err
		}
		start := time.Now()
		_, err := method.Run(ctx, nil, samples, w)
		res := calibrationResult{Workers: w, Duration: time.Since(start), Err: err}
		results = append(results, res)
		if err == nil && (best == 0 || res.Duration < bestDuration) {
			best, bestDuration = w, res.Duration
		}
	}
	if best == 0 {
		return results, 0, ErrNoCandidate
	}
	return results, best, nil
}

// RunCalibration benchmarks every worker candidate with the parallel method
// of factory, prints a summary to out and saves the best count to
// profilePath (the default path when empty). It returns the chosen count.
func RunCalibration(ctx context.Context, out io.Writer, factory *montecarlo.MethodFactory, profilePath string) (int, error) {
	method, err := factory.Get(montecarlo.MethodParallel)
	if err != nil {
		return 0, err
	}
	candidates := GenerateWorkerCandidates()
	fmt.Fprintf(out, "--- Calibration Mode: worker count ---\n")
	fmt.Fprintf(out, "Benchmarking %d candidates on %d samples each...\n", len(candidates), CalibrationSamples)

	start := time.Now()
	results, best, err := benchmark(ctx, method, CalibrationSamples, candidates)
	printCalibrationResults(out, results, best)
	if err != nil {
		return 0, err
	}

	profile := NewProfile()
	profile.OptimalWorkers = best
	profile.CalibrationSamples = CalibrationSamples
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
	if profilePath == "" {
		profilePath = GetDefaultProfilePath()
	}
	if err := profile.SaveProfile(profilePath); err != nil {
		return best, err
	}
	fmt.Fprintf(out, "\nProfile saved to %s\n", profilePath)
	return best, nil
}

// AutoCalibrate runs a quick benchmark and returns cfg with Workers set to
// the fastest candidate. ok is false when calibration could not complete or
// was skipped because the user chose the worker count; cfg is then returned
// unchanged. The profile is saved on success.
func AutoCalibrate(ctx context.Context, cfg config.AppConfig, out io.Writer, factory *montecarlo.MethodFactory) (config.AppConfig, bool) {
	if cfg.ExplicitWorkers {
		return cfg, false
	}
	method, err := factory.Get(montecarlo.MethodParallel)
	if err != nil {
		return cfg, false
	}
	start := time.Now()
	_, best, err := benchmark(ctx, method, QuickCalibrationSamples, GenerateQuickWorkerCandidates())
	if err != nil {
		return cfg, false
	}
	cfg.Workers = best

	profile := NewProfile()
	profile.OptimalWorkers = best
	profile.CalibrationSamples = QuickCalibrationSamples
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
	path := cfg.CalibrationProfile
	if path == "" {
		path = GetDefaultProfilePath()
	}
	// A profile that cannot be written only costs a recalibration next run.
	_ = profile.SaveProfile(path)

	printCalibrationOutput(cfg, out)
	return cfg, true
}

// LoadCachedCalibration fills cfg.Workers from a valid, fresh profile when
// the user did not choose a worker count.
func LoadCachedCalibration(cfg config.AppConfig, profilePath string) (config.AppConfig, bool) {
	if cfg.Workers != 0 {
		return cfg, false
	}
	if profilePath == "" {
		profilePath = GetDefaultProfilePath()
	}
	profile, loaded := LoadOrCreateProfile(profilePath)
	if !loaded || !profile.IsValid() || profile.IsStale(DefaultProfileMaxAge) {
		return cfg, false
	}
	cfg.Workers = profile.OptimalWorkers
	return cfg, true
}
