// ABOUTME: Add/edit employee wizard as a bubbletea model
// ABOUTME: Two huh form steps with a progress panel; fields validate as they are entered

package wizard

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/employee-console/internal/client"
	"github.com/markalston/employee-console/internal/employees"
	"github.com/markalston/employee-console/internal/tui/icons"
	"github.com/markalston/employee-console/internal/tui/styles"
)

// CompleteMsg is sent when the last step is confirmed
type CompleteMsg struct {
	// ID is empty when adding
	ID    string
	Input client.EmployeeInput
}

// CancelledMsg is sent when the wizard is abandoned with esc
type CancelledMsg struct{}

// Wizard collects an EmployeeInput across two steps
type Wizard struct {
	id    string
	form  *huh.Form
	step  int
	width int

	// huh binds to strings
	fullName    string
	email       string
	phone       string
	designation string
	department  string
	joined      string
	status      string
}

var stepNames = []string{"Contact", "Employment"}

var departments = []string{"Engineering", "Design", "Marketing", "Sales", "Support", "HR"}

var designations = []string{
	"Frontend Developer",
	"Backend Developer",
	"Fullstack Developer",
	"UI/UX Designer",
	"Product Manager",
	"QA Engineer",
	"Support Engineer",
}

// New creates a wizard; a nil employee means add, otherwise edit
func New(existing *client.Employee) *Wizard {
	w := &Wizard{step: 1, status: string(client.StatusActive)}
	if existing != nil {
		w.id = existing.EmployeeID
		w.fullName = existing.FullName
		w.email = existing.Email
		w.phone = existing.PhoneNumber
		w.designation = existing.Designation
		w.department = existing.Department
		w.joined = existing.DateOfJoining
		if existing.Status != "" {
			w.status = string(existing.Status)
		}
	}
	w.form = w.contactForm()
	return w
}

// Resume reopens the wizard with values from a failed submission
func Resume(id string, in client.EmployeeInput) *Wizard {
	return New(&client.Employee{
		EmployeeID:    id,
		FullName:      in.FullName,
		Email:         in.Email,
		PhoneNumber:   in.PhoneNumber,
		Designation:   in.Designation,
		Department:    in.Department,
		DateOfJoining: in.DateOfJoining,
		Status:        in.Status,
	})
}

// Editing reports whether the wizard updates an existing employee
func (w *Wizard) Editing() bool { return w.id != "" }

// Title is the screen heading
func (w *Wizard) Title() string {
	if w.Editing() {
		return "Edit Employee"
	}
	return "Add Employee"
}

func (w *Wizard) collect() client.EmployeeInput {
	return client.EmployeeInput{
		FullName:      w.fullName,
		Email:         w.email,
		PhoneNumber:   w.phone,
		Designation:   w.designation,
		Department:    w.department,
		DateOfJoining: w.joined,
		Status:        client.Status(w.status),
	}
}

// check validates the candidate value v for one field in the context of the
// rest of the form and reports only that field's message
func (w *Wizard) check(field string, set func(*client.EmployeeInput, string)) func(string) error {
	return func(v string) error {
		in := w.collect()
		set(&in, v)
		fe, ok := employees.AsFieldErrors(employees.Validate(in))
		if !ok {
			return nil
		}
		if msg, bad := fe[field]; bad {
			return errors.New(msg)
		}
		return nil
	}
}

// choices turns names into options, keeping current selectable when it
// is not one of the presets
func choices(names []string, current string) []huh.Option[string] {
	if current != "" && !slices.Contains(names, current) {
		names = append(slices.Clone(names), current)
	}
	opts := make([]huh.Option[string], 0, len(names))
	for _, n := range names {
		opts = append(opts, huh.NewOption(n, n))
	}
	return opts
}

func (w *Wizard) contactForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Full name").
				Placeholder("Jane Doe").
				Value(&w.fullName).
				Validate(w.check("fullName", func(in *client.EmployeeInput, v string) { in.FullName = v })),
			huh.NewInput().
				Title("Email").
				Placeholder("jane@company.com").
				Value(&w.email).
				Validate(w.check("email", func(in *client.EmployeeInput, v string) { in.Email = v })),
			huh.NewInput().
				Title("Phone number").
				Description("10-15 digits").
				Placeholder("5551234567").
				CharLimit(15).
				Value(&w.phone).
				Validate(w.check("phoneNumber", func(in *client.EmployeeInput, v string) { in.PhoneNumber = v })),
		).Title("Step 1: Contact").
			Description("Who is this employee and how do we reach them?"),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) employmentForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Department").
				Options(choices(departments, w.department)...).
				Value(&w.department).
				Validate(w.check("department", func(in *client.EmployeeInput, v string) { in.Department = v })),
			huh.NewSelect[string]().
				Title("Role").
				Options(choices(designations, w.designation)...).
				Value(&w.designation).
				Validate(w.check("designation", func(in *client.EmployeeInput, v string) { in.Designation = v })),
			huh.NewInput().
				Title("Joining date").
				Placeholder("YYYY-MM-DD").
				CharLimit(10).
				Value(&w.joined).
				Validate(w.check("dateOfJoining", func(in *client.EmployeeInput, v string) { in.DateOfJoining = v })),
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption(string(client.StatusActive), string(client.StatusActive)),
					huh.NewOption(string(client.StatusInactive), string(client.StatusInactive)),
				).
				Value(&w.status),
		).Title("Step 2: Employment").
			Description("Where do they work and since when?"),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return w, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advanceStep()
	}
	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	if w.step == 1 {
		w.step = 2
		w.form = w.employmentForm()
		return w, w.form.Init()
	}

	id, in := w.id, employees.Normalize(w.collect())
	return w, func() tea.Msg { return CompleteMsg{ID: id, Input: in} }
}

// SetWidth sets the wizard width for the progress panel
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

func (w *Wizard) View() string {
	return w.renderProgress() + "\n\n" + w.form.View()
}

func (w *Wizard) renderProgress() string {
	width := max(w.width-1, 60)

	border := lipgloss.NewStyle().Foreground(styles.Muted)
	title := icons.Edit.String() + " " + w.Title()

	var steps []string
	for i, name := range stepNames {
		n := i + 1
		indicator, style := "○", lipgloss.NewStyle().Foreground(styles.Muted)
		switch {
		case n < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
		case n == w.step:
			style = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
			indicator = style.Render("●")
		default:
			indicator = style.Render(indicator)
		}
		steps = append(steps, fmt.Sprintf("%s %s", indicator, style.Render(name)))
	}
	stepsLine := strings.Join(steps, "    ")

	barWidth := width - 5
	filled := w.step * barWidth / len(stepNames)
	bar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", barWidth-filled))

	top := "┌─ " + lipgloss.NewStyle().Foreground(styles.Primary).Render(title) + " " +
		strings.Repeat("─", max(0, width-5-lipgloss.Width(title))) + "┐"
	middle := "│ " + stepsLine + strings.Repeat(" ", max(0, width-4-lipgloss.Width(stepsLine))) + " │"
	progress := "│  " + bar + " │"
	bottom := "└" + strings.Repeat("─", width-2) + "┘"

	return border.Render(strings.Join([]string{top, middle, progress, bottom}, "\n"))
}

// Input returns the values entered so far, normalized
func (w *Wizard) Input() client.EmployeeInput {
	return employees.Normalize(w.collect())
}

// Step returns the 1-based step number
func (w *Wizard) Step() int { return w.step }
