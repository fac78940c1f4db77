package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"routernav/internal/events"
)

var (
	startStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8be9fd"))
	completeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50fa7b")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272a4"))
)

// EventLine renders a route event for the terminal. An empty link is shown
// as "(history)" since back, forward and refresh carry none.
func EventLine(kind events.Kind, payload any) string {
	if s, ok := payload.(string); ok && s == "" {
		payload = "(history)"
	}
	text := fmt.Sprintf("%-13s %v", kind, payload)
	switch kind {
	case events.RouteStart:
		return startStyle.Render(text)
	case events.RouteComplete:
		return completeStyle.Render(text)
	case events.RouteError:
		return errorStyle.Render(text)
	}
	return text
}

// Muted renders secondary text such as phase traces.
func Muted(s string) string { return mutedStyle.Render(s) }
