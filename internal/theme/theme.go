// Package theme holds the terminal styles used by the command output.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/content-hub/internal/model"
	"github.com/nhle/content-hub/internal/stage"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for section headers.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// PanelStyle wraps the detail view of a single concept.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// HelpStyle is used for hints and secondary text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// stageStyle returns a badge style in the catalog color of status.
func stageStyle(status model.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	st, ok := stage.Get(status)
	if !ok {
		return base.Foreground(ColorGray)
	}
	return base.Foreground(lipgloss.Color(st.Color))
}

// StageBadge renders the label of status as a colored badge.
func StageBadge(status model.Status) string {
	label := string(status)
	if st, ok := stage.Get(status); ok {
		label = st.Label
	}
	return stageStyle(status).Render(label)
}

// CheckpointMark renders a tick box.
func CheckpointMark(done bool) string {
	if done {
		return lipgloss.NewStyle().Foreground(ColorGreen).Render("[x]")
	}
	return lipgloss.NewStyle().Foreground(ColorGray).Render("[ ]")
}

// HealthStyle colors a health score: red below 34, yellow below 67.
func HealthStyle(score int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch {
	case score < 34:
		return base.Foreground(ColorRed)
	case score < 67:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGreen)
	}
}

// ProgressBar renders pct (0..100) as a bar width cells wide.
func ProgressBar(pct, width int) string {
	if width <= 0 {
		return ""
	}
	pct = max(0, min(100, pct))
	filled := pct * width / 100
	bar := lipgloss.NewStyle().Foreground(ColorBlue).Render(strings.Repeat("█", filled))
	return bar + lipgloss.NewStyle().Foreground(ColorBorder).Render(strings.Repeat("░", width-filled))
}
