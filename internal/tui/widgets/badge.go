// ABOUTME: Status badge widgets for employee status and notification kinds
// ABOUTME: Provides colored inline badges and icon-prefixed status text

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/employee-console/internal/client"
	"github.com/markalston/employee-console/internal/notify"
	"github.com/markalston/employee-console/internal/tui/icons"
)

// StatusLevel is the color family of a badge
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
)

func (l StatusLevel) colors() (bg, fg lipgloss.Color) {
	switch l {
	case StatusOK:
		return BadgeOKBg, lipgloss.Color("#FFFFFF")
	case StatusWarning:
		return BadgeWarnBg, lipgloss.Color("#000000")
	case StatusCritical:
		return BadgeCritBg, lipgloss.Color("#FFFFFF")
	case StatusInfo:
		return BadgeInfoBg, lipgloss.Color("#FFFFFF")
	default:
		return BadgeNeutralBg, lipgloss.Color("#FFFFFF")
	}
}

// Badge renders text on a colored background
func Badge(text string, level StatusLevel) string {
	bg, fg := level.colors()
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// EmployeeStatusLevel maps an employment status to a badge color
func EmployeeStatusLevel(s client.Status) StatusLevel {
	switch s {
	case client.StatusActive:
		return StatusOK
	case client.StatusInactive:
		return StatusWarning
	default:
		return StatusNeutral
	}
}

// EmployeeStatusBadge renders the status column of the directory
func EmployeeStatusBadge(s client.Status) string {
	text := string(s)
	if text == "" {
		text = "--"
	}
	return Badge(text, EmployeeStatusLevel(s))
}

// KindLevel maps a notification kind to a badge color
func KindLevel(k notify.Kind) StatusLevel {
	switch k {
	case notify.Success:
		return StatusOK
	case notify.Error:
		return StatusCritical
	case notify.Info:
		return StatusInfo
	default:
		return StatusNeutral
	}
}

// LevelColor is the accent color of a level
func LevelColor(level StatusLevel) lipgloss.Color {
	bg, _ := level.colors()
	return bg
}

// StatusIcon returns the colored icon of a level
func StatusIcon(level StatusLevel) string {
	bg, _ := level.colors()
	glyph := "•"
	switch level {
	case StatusOK:
		glyph = icons.CheckOK.String()
	case StatusWarning:
		glyph = icons.Warning.String()
	case StatusCritical:
		glyph = icons.Critical.String()
	case StatusInfo:
		glyph = icons.Info.String()
	}
	return lipgloss.NewStyle().Foreground(bg).Render(glyph)
}

// StatusText renders text in the level's color, prefixed with its icon
func StatusText(text string, level StatusLevel) string {
	bg, _ := level.colors()
	return fmt.Sprintf("%s %s", StatusIcon(level), lipgloss.NewStyle().Foreground(bg).Render(text))
}
