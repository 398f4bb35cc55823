// ABOUTME: Compact share bar used by metric blocks and the pager
// ABOUTME: Fills a fixed width in proportion to part over total

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var emptyBarColor = lipgloss.Color("#374151")

// Share returns part/total as a percentage; zero total yields zero
func Share(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// ShareBar renders a minimal bar for tight spaces
func ShareBar(percent float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 10
	}
	percent = min(max(percent, 0), 100)

	filled := int(percent / 100.0 * float64(width))
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▓", filled)) +
		lipgloss.NewStyle().Foreground(emptyBarColor).Render(strings.Repeat("░", width-filled))
}

// PageDots renders one dot per page with the current one highlighted
func PageDots(index, pages int, color lipgloss.Color) string {
	if pages <= 1 {
		return ""
	}
	var sb strings.Builder
	active := lipgloss.NewStyle().Foreground(color)
	idle := lipgloss.NewStyle().Foreground(emptyBarColor)
	for i := range pages {
		if i == index {
			sb.WriteString(active.Render("●"))
		} else {
			sb.WriteString(idle.Render("○"))
		}
	}
	return sb.String()
}
