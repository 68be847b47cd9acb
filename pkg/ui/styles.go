package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ColorBgBorder is the divider color.
var ColorBgBorder = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}

// BarFill is the number of filled cells for a percentage score in a bar of
// width cells. Only the bar geometry bounds the result.
func BarFill(percent float64, width int) int {
	if width <= 0 {
		return 0
	}
	filled := int(math.Round(percent / 100 * float64(width)))
	if filled < 0 {
		return 0
	}
	if filled > width {
		return width
	}
	return filled
}

// RenderBar renders a horizontal bar for a 0..100 score.
func RenderBar(percent float64, width int, color lipgloss.TerminalColor, t Theme) string {
	if width <= 0 {
		return ""
	}
	filled := BarFill(percent, width)
	return t.Renderer.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		t.MutedText.Render(strings.Repeat("░", width-filled))
}

// RenderMiniBar renders a bar for a 0..100 score, colored by value.
func RenderMiniBar(percent float64, width int, t Theme) string {
	var c lipgloss.AdaptiveColor
	switch {
	case percent >= 75:
		c = t.Success
	case percent >= 50:
		c = t.Info
	case percent >= 25:
		c = t.Warning
	default:
		c = t.Danger
	}
	return RenderBar(percent, width, c, t)
}

// RenderRankBadge renders a rank badge like "#1" with color based on position.
func RenderRankBadge(rank, total int, t Theme) string {
	if total == 0 || rank <= 0 {
		return t.MutedText.Render("#?")
	}
	color := t.Muted
	switch pct := float64(rank) / float64(total); {
	case rank == 1:
		color = t.Success
	case pct <= 0.5:
		color = t.Info
	}
	return t.Renderer.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("#%d", rank))
}

// RenderDivider renders a horizontal divider line
func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(ColorBgBorder).
		Render(strings.Repeat("─", width))
}
