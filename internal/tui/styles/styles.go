// ABOUTME: Shared lipgloss styles and the huh form theme for the console
// ABOUTME: Every screen pulls colors from this palette so the frame stays consistent

package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Core palette
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	Surface   = lipgloss.Color("#374151") // Elevated surface background
	Info      = lipgloss.Color("#3B82F6") // Blue

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	// Label is the left column of key/value views
	Label = lipgloss.NewStyle().
		Foreground(Muted).
		Width(16)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	// Toast is the box drawn around each notification
	Toast = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
)

// FormTheme returns the huh theme shared by the login, signup and employee forms
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	cyan := lipgloss.Color("#06B6D4")
	cyanLight := lipgloss.Color("#22D3EE")
	gray := lipgloss.Color("#9CA3AF")
	grayLight := lipgloss.Color("#E5E7EB")
	red := lipgloss.Color("#F87171")
	slate := lipgloss.Color("#334155")

	t.Group.Title = lipgloss.NewStyle().
		Foreground(cyan).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(cyan)
	t.Focused.Title = lipgloss.NewStyle().Foreground(cyanLight).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(red).SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(red)

	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(cyan).SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().Foreground(grayLight)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(cyan).Bold(true)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(cyan)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(cyan)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(grayLight)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(Info).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(gray).
		Background(slate).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(gray)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(gray).SetString("  ")
	t.Blurred.Option = lipgloss.NewStyle().Foreground(gray)

	return t
}
