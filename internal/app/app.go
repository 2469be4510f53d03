// Package app wires the configuration, the estimation methods and the
// presentation layers into the picalc command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/picalc/internal/calibration"
	"github.com/agbru/picalc/internal/cli"
	"github.com/agbru/picalc/internal/config"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/logging"
	"github.com/agbru/picalc/internal/montecarlo"
	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/server"
	"github.com/agbru/picalc/internal/tui"
	"github.com/agbru/picalc/internal/ui"
)

// Application represents the picalc application instance.
type Application struct {
	Config    config.AppConfig
	Factory   *montecarlo.MethodFactory
	Logger    logging.Logger
	ErrWriter io.Writer
	In        io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets the method factory. By default one is built from the
// --seed flag.
func WithFactory(f *montecarlo.MethodFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithInput sets the reader used by the interactive shell (default stdin).
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.In = in }
}

// New creates a new Application by parsing command-line arguments. args[0]
// is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}

	programName := "picalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	available := []string{montecarlo.MethodParallel, montecarlo.MethodSequential}
	if app.Factory != nil {
		available = app.Factory.List()
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, available)
	if err != nil {
		return nil, err
	}

	app.Logger = logging.NewConsoleLogger(errWriter, "picalc", cfg.NoColor)
	if app.Factory == nil {
		app.Factory = newFactory(cfg.Seed, app.Logger)
	}

	if cached, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cached
	} else {
		cfg = config.ApplyAdaptiveWorkers(cfg)
	}

	app.Config = cfg
	return app, nil
}

// newFactory registers the default methods, drawing seeds from a fixed
// base when seed is non-zero and from OS entropy otherwise.
func newFactory(seed uint64, logger logging.Logger) *montecarlo.MethodFactory {
	var seeds montecarlo.SeedSource
	if seed != 0 {
		seeds = montecarlo.NewFixedSeedSource(seed)
	}
	return montecarlo.NewDefaultFactory(seeds, montecarlo.WithLogger(logger))
}

// Run executes the application based on the configured mode and returns
// the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	logging.SetGlobalLevel(a.Config.LogLevel)
	ui.InitTheme(a.Config.NoColor)

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}

	a.Config = a.runAutoCalibrationIfEnabled(ctx, out)

	switch {
	case a.Config.ServeAddr != "":
		return a.runServer(ctx)
	case a.Config.TUI:
		return a.runTUI(ctx)
	case a.Config.Interactive:
		return a.runInteractive(out)
	}
	return a.runCalculate(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runCalibration runs the full calibration mode.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if _, err := calibration.RunCalibration(ctx, out, a.calibrationFactory(), a.Config.CalibrationProfile); err != nil {
		a.Logger.Error("calibration failed", err)
		return apperrors.HandleCalculationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	return apperrors.ExitSuccess
}

// runAutoCalibrationIfEnabled runs a quick calibration when requested.
func (a *Application) runAutoCalibrationIfEnabled(ctx context.Context, out io.Writer) config.AppConfig {
	if !a.Config.AutoCalibrate || a.Config.ExplicitWorkers {
		return a.Config
	}
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
	}
	if updated, ok := calibration.AutoCalibrate(ctx, a.Config, progressOut, a.calibrationFactory()); ok {
		return updated
	}
	a.Logger.Info("auto-calibration did not complete, keeping worker count",
		logging.Int("workers", a.Config.Workers))
	return a.Config
}

// calibrationFactory returns the factory benchmarks run on. A seeded run
// gets a separate entropy-seeded factory so that calibration draws no seed
// from the sequence the estimate will use.
func (a *Application) calibrationFactory() *montecarlo.MethodFactory {
	if a.Config.Seed == 0 {
		return a.Factory
	}
	return newFactory(0, a.Logger)
}

// runServer serves estimates over HTTP until interrupted.
func (a *Application) runServer(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	srv := server.NewServer(a.Config.ServeAddr, a.Factory,
		server.WithLogger(a.Logger),
		server.WithRequestTimeout(a.Config.Timeout))
	if err := srv.Start(ctx); err != nil {
		a.Logger.Error("server stopped", err, logging.String("addr", a.Config.ServeAddr))
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive dashboard.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	methods := orchestration.GetMethodsToRun(a.Config.Method, a.Factory)
	return tui.Run(ctx, methods, a.Config, Version)
}

// runInteractive starts the line-oriented shell.
func (a *Application) runInteractive(out io.Writer) int {
	repl := cli.NewREPL(a.Factory, cli.REPLConfig{
		DefaultMethod: a.Config.Method,
		Timeout:       a.Config.Timeout,
		Samples:       a.Config.Samples,
		Workers:       a.Config.Workers,
		Tolerance:     a.Config.Tolerance,
	})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
