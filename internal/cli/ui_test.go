package cli

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/metrics"
	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/progress"
	"github.com/agbru/picalc/internal/ui"
)

// MockSpinner for testing
type MockSpinner struct {
	mu      sync.Mutex
	started bool
	stopped bool
	suffix  string
}

func (m *MockSpinner) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
}

func (m *MockSpinner) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *MockSpinner) UpdateSuffix(suffix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suffix = suffix
}

func noColor(t *testing.T) {
	t.Helper()
	saved := ui.CurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(saved) })
}

func TestDisplayResult(t *testing.T) {
	noColor(t)

	tests := []struct {
		name     string
		verbose  bool
		details  bool
		contains []string
		excludes []string
	}{
		{
			name:     "Summary",
			contains: []string{"Estimate:", "3.1415", "Absolute error:", "Standard error:", "7,853,981 / 10,000,000"},
			excludes: []string{"Per-worker"},
		},
		{
			name:     "Verbose precision",
			verbose:  true,
			contains: []string{"3.141592400000000"},
		},
		{
			name:     "Details",
			details:  true,
			contains: []string{"Per-worker breakdown (2 workers)", "Seed", "5,000,000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			DisplayResult(sampleResult(7_853_981, 10_000_000), time.Second, tt.verbose, tt.details, &buf)
			output := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(output, s) {
					t.Errorf("Expected output to contain %q, but got:\n%s", s, output)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(output, s) {
					t.Errorf("Output should not contain %q:\n%s", s, output)
				}
			}
		})
	}
}

func TestDisplayResult_Undefined(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	DisplayResult(sampleResult(0, 0), 0, false, true, &buf)
	if !strings.Contains(buf.String(), "undefined") {
		t.Errorf("undefined estimate not reported:\n%s", buf.String())
	}
}

func TestPresentComparisonTable(t *testing.T) {
	noColor(t)
	results := []orchestration.EstimationResult{
		sampleEstimation("Parallel (fan-out/fan-in)", 785, 1000),
		{Name: "Sequential (reference)", Err: errors.New("boom")},
		sampleEstimation("Empty", 0, 0),
	}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable(results, &buf)
	out := buf.String()
	for _, s := range []string{"Method", "Estimate", "3.140000", "Failure (boom)", "Undefined", "Success"} {
		if !strings.Contains(out, s) {
			t.Errorf("table missing %q:\n%s", s, out)
		}
	}
}

func TestCLIResultPresenter_HandleError(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	code := CLIResultPresenter{}.HandleError(apperrors.NewValidationError("totalSamples", "must be non-negative"), 0, &buf)
	if code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestDisplayMemoryStats(t *testing.T) {
	var buf bytes.Buffer
	DisplayMemoryStats(metrics.MemorySnapshot{HeapAlloc: 2048, TotalAlloc: 1 << 20, NumGC: 3, PauseTotalNs: 1_500_000}, &buf)
	for _, s := range []string{"2.0 KiB", "1.0 MiB", "GC cycles:       3", "1.50ms"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("memory stats missing %q:\n%s", s, buf.String())
		}
	}
}

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(io.Discard))
	rs := &realSpinner{s}

	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
}

func TestCLIColorProvider(t *testing.T) {
	saved := ui.CurrentTheme()
	t.Cleanup(func() { ui.SetCurrentTheme(saved) })

	ui.SetCurrentTheme(ui.DarkTheme)
	var p apperrors.ColorProvider = CLIColorProvider{}
	if p.Red() != ui.DarkTheme.Error || p.Yellow() != ui.DarkTheme.Warning || p.Reset() != ui.DarkTheme.Reset {
		t.Error("CLIColorProvider should follow the active theme")
	}
}

func TestDisplayProgress(t *testing.T) {
	originalNewSpinner := newSpinner
	defer func() { newSpinner = originalNewSpinner }()

	mockS := &MockSpinner{}
	newSpinner = func(...spinner.Option) Spinner { return mockS }

	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan progress.ProgressUpdate)
	var buf bytes.Buffer

	go func() {
		progressChan <- progress.ProgressUpdate{Index: 0, Value: 0.5}
		progressChan <- progress.ProgressUpdate{Index: 0, Value: 1}
		close(progressChan)
	}()

	DisplayProgress(&wg, progressChan, 1, &buf)
	wg.Wait()

	if !mockS.started || !mockS.stopped {
		t.Error("spinner should have started and stopped")
	}
	if !strings.Contains(buf.String(), "100.0%") {
		t.Errorf("final bar should show completion, got %q", buf.String())
	}
}

func TestDisplayProgress_ZeroMethods(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan progress.ProgressUpdate, 1)
	progressChan <- progress.ProgressUpdate{}
	close(progressChan)

	DisplayProgress(&wg, progressChan, 0, io.Discard)
	wg.Wait()
}
