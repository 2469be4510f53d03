package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/agbru/picalc/internal/format"
)

const (
	// sparklineWidth is the room taken by a sparkline's label, value and
	// borders.
	sparklineWidth = 17
	// minSparklineHeight is the panel height from which sparklines appear.
	minSparklineHeight = 10
	// minErrorChartHeight is the panel height from which the error history
	// chart appears.
	minErrorChartHeight = 14
	errorChartRows      = 3
	maxRunHistory       = 64
)

// ChartModel shows the overall progress, system usage sparklines and the
// absolute error of successive runs.
type ChartModel struct {
	averageProgress float64
	eta             time.Duration
	cpuHistory      *RingBuffer
	memHistory      *RingBuffer
	runErrors       *RingBuffer
	done            bool
	totalDuration   time.Duration
	width           int
	height          int
}

// NewChartModel creates an empty chart.
func NewChartModel() ChartModel {
	return ChartModel{
		cpuHistory: NewRingBuffer(32),
		memHistory: NewRingBuffer(32),
		runErrors:  NewRingBuffer(maxRunHistory),
	}
}

// SetSize updates dimensions and resizes the sparkline buffers to the
// available width.
func (c *ChartModel) SetSize(w, h int) {
	c.width, c.height = w, h
	if n := w - sparklineWidth; n > 0 {
		c.cpuHistory.Resize(n)
		c.memHistory.Resize(n)
	}
}

// AddDataPoint records the latest aggregated progress.
func (c *ChartModel) AddDataPoint(_ float64, average float64, eta time.Duration) {
	c.averageProgress = average
	c.eta = eta
}

// UpdateSysStats appends a CPU and memory sample (percentages).
func (c *ChartModel) UpdateSysStats(cpu, mem float64) {
	c.cpuHistory.Push(cpu)
	c.memHistory.Push(mem)
}

// AddRunError appends the absolute error of a finished run. Runs survive
// Reset so that reruns can be compared.
func (c *ChartModel) AddRunError(absErr float64) {
	if math.IsInf(absErr, 0) || math.IsNaN(absErr) {
		return
	}
	c.runErrors.Push(absErr)
}

// SetDone freezes the chart with the total duration.
func (c *ChartModel) SetDone(total time.Duration) {
	c.done = true
	c.totalDuration = total
	c.averageProgress = 1
}

// Reset clears the progress and system history for a rerun.
func (c *ChartModel) Reset() {
	c.averageProgress = 0
	c.eta = 0
	c.done = false
	c.totalDuration = 0
	c.cpuHistory.Reset()
	c.memHistory.Reset()
}

// renderProgressBar returns "[███░░░] 50.0%" sized to the panel, or "" when
// the panel is too narrow.
func (c ChartModel) renderProgressBar() string {
	barWidth := c.width - 14
	if barWidth < 5 {
		return ""
	}
	p := min(max(c.averageProgress, 0), 1)
	filled := int(p * float64(barWidth))
	bar := chartBarStyle.Render(strings.Repeat("█", filled)) +
		chartEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf(" %s %5.1f%%", bar, p*100)
}

// errorChartValues maps the run errors onto 0..100 on a log scale, larger
// errors higher.
func (c ChartModel) errorChartValues() []float64 {
	errs := c.runErrors.Slice()
	if len(errs) == 0 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	logs := make([]float64, len(errs))
	for i, e := range errs {
		logs[i] = math.Log10(max(e, 1e-12))
		lo, hi = min(lo, logs[i]), max(hi, logs[i])
	}
	out := make([]float64, len(logs))
	for i, v := range logs {
		if hi > lo {
			out[i] = (v - lo) / (hi - lo) * 100
		} else {
			out[i] = 50
		}
	}
	return out
}

// View renders the chart panel.
func (c ChartModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Progress Chart"))
	if bar := c.renderProgressBar(); bar != "" {
		b.WriteString("\n" + bar)
	}
	if c.done {
		b.WriteString("\n " + metricLabelStyle.Render("Done in ") + metricValueStyle.Render(format.FormatExecutionDuration(c.totalDuration)))
	} else {
		b.WriteString("\n " + metricLabelStyle.Render("ETA: ") + metricValueStyle.Render(format.FormatETA(c.eta)))
	}

	if c.height >= minSparklineHeight {
		b.WriteString("\n\n " + metricLabelStyle.Render("CPU ") +
			cpuSparklineStyle.Render(RenderSparkline(c.cpuHistory.Slice())) +
			fmt.Sprintf(" %5.1f%%", c.cpuHistory.Last()))
		b.WriteString("\n " + metricLabelStyle.Render("MEM ") +
			memSparklineStyle.Render(RenderSparkline(c.memHistory.Slice())) +
			fmt.Sprintf(" %5.1f%%", c.memHistory.Last()))
	}

	if c.height >= minErrorChartHeight && c.runErrors.Len() > 0 {
		b.WriteString("\n\n " + metricLabelStyle.Render(fmt.Sprintf("|error| over %d runs (last %.2e)", c.runErrors.Len(), c.runErrors.Last())))
		for _, line := range RenderBrailleChart(c.errorChartValues(), max(c.width-6, 1), errorChartRows) {
			b.WriteString("\n " + errorChartStyle.Render(line))
		}
	}

	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(max(c.height-2, 0)).
		Render(b.String())
}
