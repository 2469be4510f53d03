package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/picalc/internal/format"
	"github.com/agbru/picalc/internal/metrics"
	"github.com/agbru/picalc/internal/montecarlo"
)

// MetricsModel displays runtime memory, throughput and the current estimate.
type MetricsModel struct {
	mem          metrics.MemorySnapshot
	busyCores    int
	samples      int64   // total sample budget of the run
	speed        float64 // samples per second, smoothed
	lastProgress float64
	lastUpdate   time.Time
	result       *montecarlo.Result
	width        int
	height       int
}

// NewMetricsModel creates a metrics panel for a run of samples draws.
func NewMetricsModel(samples int64) MetricsModel {
	return MetricsModel{
		samples:    samples,
		lastUpdate: time.Now(),
	}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.mem = msg.Snapshot
}

// UpdateBusyCores records how many cores are busy.
func (m *MetricsModel) UpdateBusyCores(n int) {
	m.busyCores = n
}

// UpdateProgress updates the sampling speed from the average progress.
func (m *MetricsModel) UpdateProgress(progress float64) {
	now := time.Now()
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt > 0.05 {
		dp := progress - m.lastProgress
		if dp > 0 {
			instantSpeed := dp * float64(m.samples) / dt
			if m.speed > 0 {
				m.speed = 0.7*m.speed + 0.3*instantSpeed
			} else {
				m.speed = instantSpeed
			}
		}
		m.lastProgress = progress
		m.lastUpdate = now
	}
}

// UpdateResult stores the retained result.
func (m *MetricsModel) UpdateResult(res montecarlo.Result) {
	m.result = &res
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows strings.Builder

	heapStr := metricValueStyle.Render(format.FormatBytes(m.mem.HeapAlloc) + " / " + format.FormatBytes(m.mem.Sys))
	gcStr := metricValueStyle.Render(fmt.Sprintf("%d (%.1fms)", m.mem.NumGC, float64(m.mem.PauseTotalNs)/1e6))
	pipe := metricLabelStyle.Render(" | ")
	rows.WriteString(fmt.Sprintf("  %s %s%s%s %s",
		metricLabelStyle.Render("Heap:"), heapStr, pipe, metricLabelStyle.Render("GC:"), gcStr))

	colWidth := (m.width - 6) / 2
	leftCol := []string{
		formatMetricCol("Speed:", format.FormatRate(m.speed), colWidth),
	}
	rightCol := []string{
		formatMetricCol("Goroutines:", fmt.Sprintf("%d (%d busy cores)", m.mem.Goroutines, m.busyCores), colWidth),
	}

	if m.result != nil && m.result.Estimate.Defined {
		est := m.result.Estimate
		leftCol = append(leftCol,
			formatMetricCol("Estimate:", estimateStyle.Render(fmt.Sprintf("%.8f", est.Value)), colWidth),
			formatMetricCol("Inside:", format.FormatInt(est.Matched)+" / "+format.FormatInt(est.Total), colWidth),
		)
		rightCol = append(rightCol,
			formatMetricCol("|Error|:", fmt.Sprintf("%.2e", est.AbsError(math.Pi)), colWidth),
			formatMetricCol("Std error:", fmt.Sprintf("±%.2e", est.StdError()), colWidth),
		)
	}

	for i := range leftCol {
		rows.WriteString("\n")
		rows.WriteString(leftCol[i])
		rows.WriteString(rightCol[i])
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-12s", label)),
		metricValueStyle.Render(value))
	// Pad to fixed column width using lipgloss-aware width
	visible := lipgloss.Width(cell)
	if visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}
