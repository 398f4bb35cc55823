// ABOUTME: Employee profile pane with edit, delete and copy-email actions
// ABOUTME: Renders a detail query state; actions are reported to the app as messages

package detail

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/markalston/employee-console/internal/client"
	"github.com/markalston/employee-console/internal/query"
	"github.com/markalston/employee-console/internal/tui/icons"
	"github.com/markalston/employee-console/internal/tui/styles"
	"github.com/markalston/employee-console/internal/tui/widgets"
)

// EditMsg asks the app to open the edit form for the shown employee
type EditMsg struct {
	Employee client.Employee
}

// DeleteMsg asks the app to open the delete dialog
type DeleteMsg struct {
	Employee client.Employee
}

// BackMsg returns to the directory
type BackMsg struct{}

// CopiedMsg reports the outcome of copying the email address
type CopiedMsg struct {
	Email string
	Err   error
}

// Detail shows one employee
type Detail struct {
	id      string
	width   int
	state   query.State
	spinner spinner.Model

	copy func(string) error
	now  func() time.Time
}

// Option customizes a Detail
type Option func(*Detail)

// WithClipboard replaces the system clipboard writer
func WithClipboard(fn func(string) error) Option {
	return func(d *Detail) { d.copy = fn }
}

// WithNow sets the time source used for relative dates
func WithNow(fn func() time.Time) Option {
	return func(d *Detail) { d.now = fn }
}

// New creates a detail pane for id
func New(id string, width int, opts ...Option) *Detail {
	d := &Detail{
		id:      id,
		width:   width,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary))),
		copy:    clipboard.WriteAll,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ID returns the employee id being shown
func (d *Detail) ID() string { return d.id }

// SetWidth updates the pane width
func (d *Detail) SetWidth(width int) { d.width = width }

// SetState replaces the rendered query state
func (d *Detail) SetState(st query.State) { d.state = st }

// Employee returns the loaded record, if any
func (d *Detail) Employee() (client.Employee, bool) {
	e, ok := query.Typed[*client.Employee](d.state)
	if !ok || e == nil {
		return client.Employee{}, false
	}
	return *e, true
}

// Tick starts the loading spinner
func (d *Detail) Tick() tea.Cmd { return d.spinner.Tick }

// Update handles keys and spinner ticks routed to the pane
func (d *Detail) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "b", "esc", "backspace":
			return func() tea.Msg { return BackMsg{} }
		}
		e, ok := d.Employee()
		if !ok {
			return nil
		}
		switch msg.String() {
		case "e":
			return func() tea.Msg { return EditMsg{Employee: e} }
		case "d", "delete":
			return func() tea.Msg { return DeleteMsg{Employee: e} }
		case "c":
			copyFn := d.copy
			return func() tea.Msg { return CopiedMsg{Email: e.Email, Err: copyFn(e.Email)} }
		}
	}
	return nil
}

func (d *Detail) View() string {
	e, ok := d.Employee()
	switch {
	case !ok && d.state.Status == query.StatusError:
		return widgets.StatusText("Could not load employee: "+client.MessageOr(d.state.Err, "request failed"), widgets.StatusCritical)
	case !ok:
		return d.spinner.View() + " Loading employee..."
	}

	var sb strings.Builder
	heading := styles.Title.Render(icons.User.String() + " " + e.FullName)
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, heading, "  ", widgets.EmployeeStatusBadge(e.Status)))
	sb.WriteString("\n")
	if d.state.IsFetching {
		sb.WriteString(d.spinner.View() + " refreshing\n")
	}
	sb.WriteString("\n")

	rows := []struct {
		icon  icons.Icon
		label string
		value string
	}{
		{icons.Info, "Employee ID", e.EmployeeID},
		{icons.Mail, "Email", e.Email},
		{icons.Phone, "Phone", e.PhoneNumber},
		{icons.Briefcase, "Role", e.Designation},
		{icons.Department, "Department", e.Department},
		{icons.Calendar, "Joined", d.joined(e.DateOfJoining)},
	}
	for _, r := range rows {
		sb.WriteString(styles.Label.Render(r.icon.String() + " " + r.label))
		sb.WriteString(styles.ValueStyle.Render(orDash(r.value)))
		sb.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(max(d.width, 40)).Render(sb.String())
}

// joined renders a YYYY-MM-DD date with its distance from now
func (d *Detail) joined(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return date + " (" + humanize.RelTime(t, d.now(), "ago", "from now") + ")"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "--"
	}
	return s
}
