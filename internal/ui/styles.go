// Package ui carries fsh's ambient output styling, adapted from the
// teacher's Catppuccin palette (internal/ui/styles.go) down to the
// handful of styles the shell actually needs: prompt segments, error
// text, and the autotune debug viewer's chrome.
package ui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha (dark theme), trimmed to the colors fsh uses.
var mocha = struct {
	Red, Green, Blue, Mauve, Text, Surface, Base lipgloss.Color
}{
	Red: "#f38ba8", Green: "#a6e3a1", Blue: "#89b4fa", Mauve: "#cba6f7",
	Text: "#cdd6f4", Surface: "#45475a", Base: "#1e1e2e",
}

var (
	ErrorStyle   = lipgloss.NewStyle().Foreground(mocha.Red)
	SuccessStyle = lipgloss.NewStyle().Foreground(mocha.Green)
	MutedStyle   = lipgloss.NewStyle().Foreground(mocha.Surface)
	CommandStyle = lipgloss.NewStyle().Foreground(mocha.Mauve).Bold(true)
)
