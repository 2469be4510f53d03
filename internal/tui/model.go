package tui

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/picalc/internal/config"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/metrics"
	"github.com/agbru/picalc/internal/montecarlo"
	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/sysmon"
)

// Layout constants for the dashboard.
const (
	headerHeight          = 1
	minBodyHeight         = 6
	LogsPanelWidthPercent = 60
	MetricsPanelHeight    = 7
	WorkersPanelMaxHeight = 10
	tickInterval          = 500 * time.Millisecond
	busyCoreThreshold     = 50.0
)

// ExecutionState holds the run-related fields of a dashboard session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	methods    []montecarlo.Method
	generation uint64
	done       bool
	exitCode   int
}

// LayoutManager holds terminal dimensions and derives panel sizes.
type LayoutManager struct {
	width       int
	height      int
	footerLines int
	workerCount int
}

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-max(l.footerLines, 1), minBodyHeight)
}

func (l LayoutManager) logsWidth() int {
	return l.width * LogsPanelWidthPercent / 100
}

func (l LayoutManager) rightWidth() int {
	return l.width - l.logsWidth()
}

// workersHeight fits one line per worker plus borders and title, capped at
// WorkersPanelMaxHeight and at half the body.
func (l LayoutManager) workersHeight() int {
	return min(l.workerCount+3, WorkersPanelMaxHeight, l.bodyHeight()/2)
}

func (l LayoutManager) logsHeight() int {
	return l.bodyHeight() - l.workersHeight()
}

func (l LayoutManager) metricsHeight() int {
	return min(MetricsPanelHeight, l.bodyHeight()/2)
}

func (l LayoutManager) chartHeight() int {
	return l.bodyHeight() - l.metricsHeight()
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header  HeaderModel
	logs    LogsModel
	metrics MetricsModel
	workers WorkersModel
	chart   ChartModel
	footer  FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	config    config.AppConfig
	ref       *programRef
	paused    bool
}

// NewModel creates the dashboard for running methods with cfg. The worker
// count of cfg must already be resolved.
func NewModel(parentCtx context.Context, methods []montecarlo.Method, cfg config.AppConfig, version string) Model {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name()
	}

	ctx, cancel := context.WithCancel(parentCtx)

	logs := NewLogsModel(names)
	logs.AddExecutionConfig(cfg)

	km := DefaultKeyMap()
	return Model{
		header:  NewHeaderModel(version, cfg.Samples, cfg.Workers),
		logs:    logs,
		metrics: NewMetricsModel(cfg.Samples),
		workers: NewWorkersModel(cfg.Workers),
		chart:   NewChartModel(),
		footer:  NewFooterModel(km),
		keymap:  km,
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			methods:  methods,
			exitCode: apperrors.ExitSuccess,
		},
		LayoutManager: LayoutManager{footerLines: 1, workerCount: cfg.Workers},
		parentCtx:     parentCtx,
		config:        cfg,
		ref:           &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return m.startCmds()
}

func (m Model) startCmds() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startCalculationCmd(m.ref, m.ctx, m.methods, m.config, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if !m.paused {
			m.logs.AddProgressEntry(msg)
			m.chart.AddDataPoint(msg.Value, msg.AverageProgress, msg.ETA)
			m.metrics.UpdateProgress(msg.AverageProgress)
		}
		return m, nil

	case WorkerProgressMsg:
		if msg.Generation == m.generation && !m.paused {
			m.workers.Update(msg.Worker, msg.Fraction)
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case ComparisonResultsMsg:
		m.logs.AddResults(msg.Results)
		return m, nil

	case FinalResultMsg:
		m.logs.AddFinalResult(msg)
		m.metrics.UpdateResult(msg.Result.Result)
		m.chart.AddRunError(msg.Result.Result.Estimate.AbsError(math.Pi))
		return m, nil

	case ErrorMsg:
		m.logs.AddError(msg)
		m.footer.SetError(true)
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.chart.UpdateSysStats(msg.CPUPercent, msg.MemPercent)
		m.metrics.UpdateBusyCores(msg.BusyCores)
		return m, nil

	case CalculationCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		m.chart.SetDone(m.header.Elapsed())
		m.footer.SetDone(true)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleHelp()
		m.layoutPanels()
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		return m.rerun()

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.logs.Update(msg)
		return m, nil
	}

	return m, nil
}

// rerun cancels the current run and starts a new generation.
func (m Model) rerun() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}

	m.generation++
	m.ctx, m.cancel = context.WithCancel(m.parentCtx)

	m.header.Reset()
	m.logs.Reset()
	m.chart.Reset()
	m.workers.Reset()
	m.metrics = NewMetricsModel(m.config.Samples)
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.footer.SetDone(false)
	m.footer.SetError(false)
	m.footer.SetPaused(false)
	m.done = false
	m.paused = false
	m.exitCode = apperrors.ExitSuccess

	return m, m.startCmds()
}

// View renders the whole dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	right := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	workers := m.workers.View()
	logs := m.logs.renderToHeight(lipgloss.Height(right) - lipgloss.Height(workers))
	left := lipgloss.JoinVertical(lipgloss.Left, logs, workers)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.footerLines = m.footer.Height()
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.logs.SetSize(m.logsWidth(), m.logsHeight())
	m.workers.SetSize(m.logsWidth(), m.workersHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// Run starts the dashboard, blocks until the user quits, and returns the
// exit code of the last run.
func Run(ctx context.Context, methods []montecarlo.Method, cfg config.AppConfig, version string) int {
	// Styles follow the theme chosen by the app.
	initTUIStyles()

	model := NewModel(ctx, methods, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil && ctx.Err() == nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startCalculationCmd runs the methods through the orchestrator and reports
// everything to the program.
func startCalculationCmd(ref *programRef, ctx context.Context, methods []montecarlo.Method, cfg config.AppConfig, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref}
		presenter := &TUIResultPresenter{ref: ref}

		results := orchestration.ExecuteEstimations(ctx, instrumentMethods(methods, ref, gen), cfg.Samples, cfg.Workers, reporter, io.Discard)
		opts := orchestration.PresentationOptions{
			Samples:   cfg.Samples,
			Workers:   cfg.Workers,
			Verbose:   cfg.Verbose,
			Details:   cfg.Details,
			Tolerance: cfg.Tolerance,
		}
		code := orchestration.AnalyzeComparisonResults(results, opts, presenter, presenter, io.Discard)
		return CalculationCompleteMsg{ExitCode: code, Generation: gen}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg{Snapshot: metrics.NewMemoryCollector().Snapshot()}
	}
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
			BusyCores:  s.BusyCores(busyCoreThreshold),
		}
	}
}

// watchContextCmd reports the end of the run context of generation gen.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
