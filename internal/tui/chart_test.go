package tui

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestChartModel_AddDataPoint(t *testing.T) {
	t.Parallel()
	c := NewChartModel()
	c.SetSize(50, 10)
	c.AddDataPoint(0.25, 0.25, 30*time.Second)
	c.AddDataPoint(0.75, 0.5, 10*time.Second)

	if c.averageProgress != 0.5 {
		t.Errorf("averageProgress = %v, want 0.5", c.averageProgress)
	}
	if c.eta != 10*time.Second {
		t.Errorf("eta = %v, want 10s", c.eta)
	}
}

func TestChartModel_SetSizeResizesHistory(t *testing.T) {
	t.Parallel()
	c := NewChartModel()
	c.SetSize(60, 12)
	if got, want := c.cpuHistory.Cap(), 60-sparklineWidth; got != want {
		t.Errorf("cpu history cap = %d, want %d", got, want)
	}
	if c.memHistory.Cap() != c.cpuHistory.Cap() {
		t.Error("cpu and memory history should share a width")
	}
}

func TestChartModel_AddRunError(t *testing.T) {
	t.Parallel()
	c := NewChartModel()
	c.AddRunError(0.01)
	c.AddRunError(math.Inf(1))
	c.AddRunError(math.NaN())
	c.AddRunError(0.001)

	if c.runErrors.Len() != 2 {
		t.Fatalf("runErrors.Len() = %d, want 2", c.runErrors.Len())
	}

	c.Reset()
	if c.runErrors.Len() != 2 {
		t.Error("run errors should survive Reset")
	}
}

func TestChartModel_ErrorChartValues(t *testing.T) {
	t.Parallel()
	c := NewChartModel()
	if c.errorChartValues() != nil {
		t.Error("expected nil values without runs")
	}

	c.AddRunError(0.1)
	if got := c.errorChartValues(); len(got) != 1 || got[0] != 50 {
		t.Errorf("single run = %v, want [50]", got)
	}

	c.AddRunError(0.001)
	c.AddRunError(0.01)
	got := c.errorChartValues()
	want := []float64{100, 0, 50}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("values = %v, want %v", got, want)
			break
		}
	}
}

func TestChartModel_Reset(t *testing.T) {
	t.Parallel()
	c := NewChartModel()
	c.AddDataPoint(0.5, 0.5, time.Second)
	c.UpdateSysStats(20, 40)
	c.SetDone(time.Second)

	c.Reset()

	if c.averageProgress != 0 || c.done || c.eta != 0 {
		t.Errorf("progress state not reset: %+v", c)
	}
	if c.cpuHistory.Len() != 0 || c.memHistory.Len() != 0 {
		t.Error("system history not cleared")
	}
}

func TestChartModel_RenderProgressBar(t *testing.T) {
	t.Parallel()
	c := NewChartModel()
	c.SetSize(10, 10)
	if c.renderProgressBar() != "" {
		t.Error("expected no bar on a narrow panel")
	}

	c.SetSize(50, 10)
	c.AddDataPoint(0.5, 0.5, time.Second)
	if bar := c.renderProgressBar(); !strings.Contains(bar, "50.0%") {
		t.Errorf("bar = %q, want 50.0%%", bar)
	}
}

func TestChartModel_View(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		height  int
		setup   func(c *ChartModel)
		want    []string
		notWant []string
	}{
		{
			name:    "running small",
			height:  6,
			setup:   func(c *ChartModel) { c.AddDataPoint(0.3, 0.3, 5*time.Second) },
			want:    []string{"Progress Chart", "ETA:"},
			notWant: []string{"CPU", "|error|"},
		},
		{
			name:   "sparklines",
			height: minSparklineHeight,
			setup:  func(c *ChartModel) { c.UpdateSysStats(40, 60) },
			want:   []string{"CPU", "MEM", "40.0%", "60.0%"},
		},
		{
			name:   "done with error history",
			height: minErrorChartHeight + 2,
			setup: func(c *ChartModel) {
				c.AddRunError(0.002)
				c.AddRunError(0.0005)
				c.SetDone(1500 * time.Millisecond)
			},
			want:    []string{"Done in", "|error| over 2 runs"},
			notWant: []string{"ETA:"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := NewChartModel()
			c.SetSize(60, tt.height)
			tt.setup(&c)
			view := c.View()
			for _, s := range tt.want {
				if !strings.Contains(view, s) {
					t.Errorf("view missing %q:\n%s", s, view)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(view, s) {
					t.Errorf("view should not contain %q:\n%s", s, view)
				}
			}
		})
	}
}
