// ABOUTME: Sign-in method menu shown on the login screen
// ABOUTME: Lets the user pick email, Google, or account creation

package menu

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/employee-console/internal/tui/styles"
)

// Method is a way to get into the console
type Method int

const (
	MethodEmail Method = iota
	MethodGoogle
	MethodSignup
)

// MethodSelectedMsg is sent when the user confirms a method
type MethodSelectedMsg struct {
	Method Method
}

// CancelledMsg is sent when the user backs out of the menu
type CancelledMsg struct{}

type option struct {
	label   string
	value   Method
	enabled bool
}

// Menu is the sign-in method chooser
type Menu struct {
	options  []option
	selected Method
	form     *huh.Form
	err      string
}

// New creates the menu; Google is offered only when a client ID is configured
func New(googleConfigured bool) *Menu {
	m := &Menu{
		options: []option{
			{label: "Sign in with email", value: MethodEmail, enabled: true},
			{label: "Sign in with Google", value: MethodGoogle, enabled: googleConfigured},
			{label: "Create an account", value: MethodSignup, enabled: true},
		},
		selected: MethodEmail,
	}
	m.form = m.newForm()
	return m
}

func (m *Menu) newForm() *huh.Form {
	var opts []huh.Option[Method]
	for _, opt := range m.options {
		label := opt.label
		if !opt.enabled {
			label = fmt.Sprintf("%s (not configured)", label)
		}
		opts = append(opts, huh.NewOption(label, opt.value))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Method]().
				Title("Employee Management").
				Description("Choose how to sign in").
				Options(opts...).
				Value(&m.selected),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Enabled reports whether a method can be chosen
func (m *Menu) Enabled(method Method) bool {
	for _, opt := range m.options {
		if opt.value == method {
			return opt.enabled
		}
	}
	return false
}

func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && (key.String() == "q" || key.String() == "esc") {
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		chosen := m.selected
		m.form = m.newForm()
		if !m.Enabled(chosen) {
			m.err = "Google sign-in is not configured (set EMS_GOOGLE_CLIENT_ID)"
			return m, m.form.Init()
		}
		m.err = ""
		return m, func() tea.Msg { return MethodSelectedMsg{Method: chosen} }
	}
	return m, cmd
}

func (m *Menu) View() string {
	v := m.form.View()
	if m.err != "" {
		v += "\n" + styles.StatusCritical.Render(m.err)
	}
	return v
}

// String returns the flag-style name of a Method
func (m Method) String() string {
	switch m {
	case MethodEmail:
		return "email"
	case MethodGoogle:
		return "google"
	case MethodSignup:
		return "signup"
	default:
		return "unknown"
	}
}
