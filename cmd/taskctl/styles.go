package main

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWhite).
	Background(colorBlue).
	Padding(0, 1)

var titleStyle = lipgloss.NewStyle().Bold(true)

var dimStyle = lipgloss.NewStyle().Foreground(colorGray)

var unreadStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)

// statusStyle colors the well-known statuses; unknown statuses render dim.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "completed":
		return lipgloss.NewStyle().Foreground(colorGreen)
	case "in-progress":
		return lipgloss.NewStyle().Foreground(colorYellow)
	default:
		return dimStyle
	}
}

// priorityStyle colors priorities from low to high.
func priorityStyle(priority string) lipgloss.Style {
	switch priority {
	case "high":
		return lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	case "medium":
		return lipgloss.NewStyle().Foreground(colorYellow)
	default:
		return dimStyle
	}
}
