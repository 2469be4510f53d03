package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/picalc/internal/config"
	"github.com/agbru/picalc/internal/format"
	"github.com/agbru/picalc/internal/orchestration"
)

// progressMilestone is the step, as a fraction, between two logged progress
// entries of a method.
const progressMilestone = 0.25

// LogsModel is the scrolling event log of the dashboard.
type LogsModel struct {
	methods   []string
	entries   []string
	logged    []float64 // last milestone logged per method
	viewport  viewport.Model
	width     int
	height    int
	following bool
}

// NewLogsModel creates a log for the given method names.
func NewLogsModel(methods []string) LogsModel {
	return LogsModel{
		methods:   methods,
		logged:    make([]float64, len(methods)),
		viewport:  viewport.New(0, 0),
		following: true,
	}
}

// SetSize updates the panel dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width, l.height = w, h
	l.viewport.Width = max(w-4, 0)
	l.viewport.Height = max(h-3, 0)
	l.refresh()
}

// Reset clears the log while keeping the method names.
func (l *LogsModel) Reset() {
	l.entries = nil
	l.logged = make([]float64, len(l.methods))
	l.following = true
	l.refresh()
}

// Len returns the number of entries.
func (l LogsModel) Len() int { return len(l.entries) }

func (l *LogsModel) add(line string) {
	ts := logTimeStyle.Render(time.Now().Format("15:04:05"))
	l.entries = append(l.entries, ts+" "+line)
	l.refresh()
}

func (l *LogsModel) refresh() {
	l.viewport.SetContent(strings.Join(l.entries, "\n"))
	if l.following {
		l.viewport.GotoBottom()
	}
}

func (l LogsModel) methodName(i int) string {
	if i >= 0 && i < len(l.methods) {
		return l.methods[i]
	}
	return fmt.Sprintf("method %d", i)
}

// AddExecutionConfig logs the run parameters.
func (l *LogsModel) AddExecutionConfig(cfg config.AppConfig) {
	seed := "entropy"
	if cfg.Seed != 0 {
		seed = fmt.Sprintf("%d", cfg.Seed)
	}
	l.add(fmt.Sprintf("Estimating π from %s samples on %d workers (seed %s, timeout %s)",
		format.FormatInt(cfg.Samples), cfg.Workers, seed, cfg.Timeout))
	for _, name := range l.methods {
		l.add("Started " + logMethodStyle.Render(name))
	}
}

// AddProgressEntry logs a method's progress each time it crosses a
// milestone.
func (l *LogsModel) AddProgressEntry(msg ProgressMsg) {
	if msg.Index < 0 || msg.Index >= len(l.logged) {
		return
	}
	milestone := math.Floor(msg.Value/progressMilestone) * progressMilestone
	if milestone <= l.logged[msg.Index] || milestone >= 1 {
		return
	}
	l.logged[msg.Index] = milestone
	l.add(fmt.Sprintf("%s %s (ETA %s)",
		logMethodStyle.Render(l.methodName(msg.Index)),
		logProgressStyle.Render(fmt.Sprintf("%3.0f%%", milestone*100)),
		format.FormatETA(msg.ETA)))
}

// AddResults logs the outcome of every method.
func (l *LogsModel) AddResults(results []orchestration.EstimationResult) {
	for _, r := range results {
		name := logMethodStyle.Render(r.Name)
		switch {
		case r.Err != nil:
			l.add(fmt.Sprintf("%s %s: %v", logErrorStyle.Render("✗"), name, r.Err))
		case !r.Result.Estimate.Defined:
			l.add(fmt.Sprintf("%s %s: undefined (no samples)", logErrorStyle.Render("!"), name))
		default:
			est := r.Result.Estimate
			l.add(fmt.Sprintf("%s %s: %.6f (|error| %.2e) in %s",
				logSuccessStyle.Render("✓"), name, est.Value, est.AbsError(math.Pi),
				format.FormatExecutionDuration(r.Duration)))
		}
	}
}

// AddFinalResult logs the retained estimate.
func (l *LogsModel) AddFinalResult(msg FinalResultMsg) {
	est := msg.Result.Result.Estimate
	if !est.Defined {
		l.add(logErrorStyle.Render("Estimate undefined: no samples were taken"))
		return
	}
	l.add(fmt.Sprintf("Result: %s from %s (±%.6f)",
		logSuccessStyle.Render(fmt.Sprintf("π ≈ %.8f", est.Value)), msg.Result.Name, est.StdError()))
}

// AddError logs a failure.
func (l *LogsModel) AddError(msg ErrorMsg) {
	l.add(logErrorStyle.Render(fmt.Sprintf("Error after %s: %v", format.FormatExecutionDuration(msg.Duration), msg.Err)))
}

// Update scrolls the log. Scrolling up stops following new entries until
// the bottom is reached again.
func (l *LogsModel) Update(msg tea.KeyMsg) {
	l.viewport, _ = l.viewport.Update(msg)
	l.following = l.viewport.AtBottom()
}

// View renders the panel at its configured height.
func (l LogsModel) View() string {
	return l.renderToHeight(l.height)
}

// renderToHeight renders the panel with an outer height of h.
func (l LogsModel) renderToHeight(h int) string {
	vp := l.viewport
	vp.Height = max(h-3, 1)
	body := lipgloss.JoinVertical(lipgloss.Left, panelTitleStyle.Render("Events"), vp.View())
	return panelStyle.Width(max(l.width-2, 0)).Height(max(h-2, 0)).Render(body)
}
