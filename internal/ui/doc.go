// Package ui holds the color themes shared by the CLI and the TUI dashboard.
// CLI output reads ANSI escape codes through the Color* functions; the TUI
// reads lipgloss colors through CurrentTUITheme.
package ui
