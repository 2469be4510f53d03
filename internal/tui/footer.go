package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the status badge and the key help.
type FooterModel struct {
	help   help.Model
	keymap KeyMap
	done   bool
	paused bool
	failed bool
	width  int
}

// NewFooterModel creates a footer for keymap.
func NewFooterModel(keymap KeyMap) FooterModel {
	return FooterModel{help: help.New(), keymap: keymap}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = max(w-14, 0)
}

// SetDone marks the run as finished.
func (f *FooterModel) SetDone(done bool) { f.done = done }

// SetPaused toggles the paused badge.
func (f *FooterModel) SetPaused(paused bool) { f.paused = paused }

// SetError marks the run as failed.
func (f *FooterModel) SetError(failed bool) { f.failed = failed }

// ToggleHelp switches between short and full help.
func (f *FooterModel) ToggleHelp() { f.help.ShowAll = !f.help.ShowAll }

// ShowingFullHelp reports whether the full help is shown.
func (f FooterModel) ShowingFullHelp() bool { return f.help.ShowAll }

// Height returns the number of rows the footer occupies.
func (f FooterModel) Height() int {
	if f.help.ShowAll {
		return lipgloss.Height(f.help.View(f.keymap))
	}
	return 1
}

func (f FooterModel) status() string {
	switch {
	case f.failed:
		return statusErrorStyle.Render("● ERROR")
	case f.done:
		return statusDoneStyle.Render("● DONE")
	case f.paused:
		return statusPausedStyle.Render("● PAUSED")
	default:
		return statusRunningStyle.Render("● RUNNING")
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	row := lipgloss.JoinHorizontal(lipgloss.Top, f.status(), "  ", f.help.View(f.keymap))
	return footerStyle.Width(f.width).Render(row)
}
