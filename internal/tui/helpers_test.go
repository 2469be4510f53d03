package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/picalc/internal/config"
	"github.com/agbru/picalc/internal/montecarlo"
	"github.com/agbru/picalc/internal/orchestration"
)

func testResult(matched, total int64) montecarlo.Result {
	acc := montecarlo.Accumulator{Matched: matched, Total: total}
	part, _ := montecarlo.NewPartition(total, 1)
	return montecarlo.Result{
		Estimate:  montecarlo.NewEstimate(acc, montecarlo.DefaultScale),
		Combined:  acc,
		Workers:   []montecarlo.Accumulator{acc},
		Partition: part,
		Duration:  time.Millisecond,
	}
}

func testEstimation(name string, matched, total int64) orchestration.EstimationResult {
	return orchestration.EstimationResult{Name: name, Result: testResult(matched, total), Duration: 2 * time.Millisecond}
}

func testConfig() config.AppConfig {
	return config.AppConfig{
		Samples:   10_000,
		Workers:   4,
		Seed:      7,
		Timeout:   time.Minute,
		Tolerance: 0.05,
	}
}

// newTestModel builds a sized dashboard whose run context is released on
// cleanup. Init is never called, so nothing runs in the background.
func newTestModel(t *testing.T) Model {
	t.Helper()
	methods := []montecarlo.Method{
		montecarlo.ParallelMethod{Estimator: montecarlo.NewEstimator(montecarlo.WithSeedSource(montecarlo.NewFixedSeedSource(1)))},
		montecarlo.SequentialMethod{Seeds: montecarlo.NewFixedSeedSource(1)},
	}
	m := NewModel(context.Background(), methods, testConfig(), "v1.2.3")
	t.Cleanup(func() { m.cancel() })
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}
