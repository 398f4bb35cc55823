// ABOUTME: Compact metric block widget for the directory summary row
// ABOUTME: Draws a titled box with a value line and an optional share bar

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/employee-console/internal/tui/icons"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       22,
		BorderColor: lipgloss.Color("#6B7280"),
		TitleColor:  lipgloss.Color("#7C3AED"),
		ValueColor:  lipgloss.Color("#F9FAFB"),
	}
}

func (c MetricBlockConfig) inner() int {
	if c.Width <= 0 {
		c.Width = 22
	}
	return c.Width - 4
}

// boxLine pads styled content to the inner width of the block
func boxLine(content string, inner int) string {
	pad := max(0, inner-lipgloss.Width(content))
	return "│  " + content + strings.Repeat(" ", pad) + "│"
}

func (c MetricBlockConfig) frame(icon icons.Icon, title string, body []string) string {
	inner := c.inner()
	titleStr := truncate(fmt.Sprintf("%s %s", icon.String(), title), inner-1)
	titleStyle := lipgloss.NewStyle().Foreground(c.TitleColor)
	top := "┌─ " + titleStyle.Render(titleStr) + " " +
		strings.Repeat("─", max(0, inner-lipgloss.Width(titleStr)-1)) + "┐"
	bottom := "└" + strings.Repeat("─", inner+2) + "┘"

	border := lipgloss.NewStyle().Foreground(c.BorderColor)
	lines := []string{border.Render(top)}
	for _, b := range body {
		lines = append(lines, border.Render(boxLine(b, inner)))
	}
	lines = append(lines, border.Render(bottom))
	return strings.Join(lines, "\n")
}

// CountBlock renders a count with a label beneath it
func CountBlock(icon icons.Icon, title string, count int, label string, config MetricBlockConfig) string {
	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	return config.frame(icon, title, []string{
		valueStyle.Render(fmt.Sprintf("%d", count)),
		subtitleStyle.Render(truncate(label, config.inner())),
	})
}

// ShareBlock renders part of total as a count, a percentage and a bar
func ShareBlock(icon icons.Icon, title string, part, total int, color lipgloss.Color, config MetricBlockConfig) string {
	pct := Share(part, total)
	valueStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	value := fmt.Sprintf("%s %s",
		valueStyle.Render(fmt.Sprintf("%d", part)),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render(fmt.Sprintf("(%.0f%%)", pct)))
	return config.frame(icon, title, []string{
		value,
		ShareBar(pct, config.inner(), color),
	})
}

// truncate shortens s to maxLen runes with an ellipsis if needed
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(0, maxLen)])
	}
	return string(r[:maxLen-3]) + "..."
}
