package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
)

// WorkersModel shows one progress bar per parallel worker.
type WorkersModel struct {
	fractions []float64
	bar       progress.Model
	width     int
	height    int
}

// NewWorkersModel creates a panel for n workers.
func NewWorkersModel(n int) WorkersModel {
	opts := []progress.Option{progress.WithoutPercentage()}
	if workerBarColor != "" {
		opts = append(opts, progress.WithSolidFill(workerBarColor))
	}
	return WorkersModel{
		fractions: make([]float64, max(n, 0)),
		bar:       progress.New(opts...),
	}
}

// SetSize updates dimensions.
func (w *WorkersModel) SetSize(width, height int) {
	w.width, w.height = width, height
	// "  W00 " prefix and " 100%" suffix plus borders.
	w.bar.Width = max(width-16, 4)
}

// Update records a worker's fraction. Unknown indices grow the panel.
func (w *WorkersModel) Update(worker int, fraction float64) {
	if worker < 0 {
		return
	}
	for worker >= len(w.fractions) {
		w.fractions = append(w.fractions, 0)
	}
	w.fractions[worker] = min(max(fraction, 0), 1)
}

// Reset zeroes every bar.
func (w *WorkersModel) Reset() {
	clear(w.fractions)
}

// Fractions returns a copy of the per-worker fractions.
func (w WorkersModel) Fractions() []float64 {
	return append([]float64(nil), w.fractions...)
}

// View renders as many bars as fit; the rest are summarized.
func (w WorkersModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(fmt.Sprintf("Workers (%d)", len(w.fractions))))

	rows := max(w.height-3, 1)
	shown := len(w.fractions)
	if shown > rows {
		shown = rows - 1
	}
	for i := 0; i < shown; i++ {
		fmt.Fprintf(&b, "\n  %s %s %3.0f%%",
			metricLabelStyle.Render(fmt.Sprintf("W%02d", i)), w.bar.ViewAs(w.fractions[i]), w.fractions[i]*100)
	}
	if rest := len(w.fractions) - shown; rest > 0 {
		done := 0
		for _, f := range w.fractions[shown:] {
			if f >= 1 {
				done++
			}
		}
		fmt.Fprintf(&b, "\n  %s", metricLabelStyle.Render(fmt.Sprintf("… %d more (%d done)", rest, done)))
	}

	return panelStyle.
		Width(max(w.width-2, 0)).
		Height(max(w.height-2, 0)).
		Render(b.String())
}
