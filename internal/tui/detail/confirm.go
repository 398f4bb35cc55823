// ABOUTME: Delete confirmation dialog offering archive or permanent removal
// ABOUTME: Defaults to the soft (archive) option every time it opens

package detail

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/employee-console/internal/client"
	"github.com/markalston/employee-console/internal/mutation"
	"github.com/markalston/employee-console/internal/tui/styles"
)

// DeleteConfirmedMsg carries the chosen deletion
type DeleteConfirmedMsg struct {
	ID   string
	Mode mutation.DeleteMode
}

// DeleteCancelledMsg closes the dialog without deleting
type DeleteCancelledMsg struct{}

// Confirm is the delete dialog
type Confirm struct {
	employee client.Employee
	mode     mutation.DeleteMode
	sure     bool
	form     *huh.Form
}

// NewConfirm opens the dialog for e with soft delete selected
func NewConfirm(e client.Employee) *Confirm {
	c := &Confirm{employee: e, mode: mutation.DeleteSoft}
	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[mutation.DeleteMode]().
				Title("Delete Employee").
				Description(fmt.Sprintf("Are you sure you want to delete %s?", e.FullName)).
				Options(
					huh.NewOption("Soft Delete (keep in database)", mutation.DeleteSoft),
					huh.NewOption("Hard Delete (remove permanently)", mutation.DeleteHard),
				).
				Value(&c.mode),
			huh.NewConfirm().
				Title("Confirm").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&c.sure),
		),
	).WithTheme(styles.FormTheme())
	return c
}

// Mode returns the currently selected deletion mode
func (c *Confirm) Mode() mutation.DeleteMode { return c.mode }

func (c *Confirm) Init() tea.Cmd {
	return c.form.Init()
}

func (c *Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return c, cancelled
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	switch c.form.State {
	case huh.StateCompleted:
		return c, c.result()
	case huh.StateAborted:
		return c, cancelled
	}
	return c, cmd
}

func (c *Confirm) result() tea.Cmd {
	if !c.sure {
		return cancelled
	}
	id, mode := c.employee.EmployeeID, c.mode
	return func() tea.Msg { return DeleteConfirmedMsg{ID: id, Mode: mode} }
}

func cancelled() tea.Msg { return DeleteCancelledMsg{} }

func (c *Confirm) View() string {
	return c.form.View()
}
