// ABOUTME: Employee directory screen: summary blocks, search box, paged table
// ABOUTME: Renders whatever query state the app hands it and reports user intent as messages

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/employee-console/internal/client"
	"github.com/markalston/employee-console/internal/employees"
	"github.com/markalston/employee-console/internal/query"
	"github.com/markalston/employee-console/internal/tui/icons"
	"github.com/markalston/employee-console/internal/tui/styles"
	"github.com/markalston/employee-console/internal/tui/widgets"
)

// SearchChangedMsg is sent on every edit of the search box
type SearchChangedMsg struct {
	Term string
}

// OpenMsg asks the app to show one employee
type OpenMsg struct {
	ID string
}

// rows taken by everything except the table body
const chromeHeight = 12

// Dashboard is the directory list view
type Dashboard struct {
	width  int
	height int

	table   table.Model
	search  textinput.Model
	spinner spinner.Model

	state     query.State
	items     []client.Employee
	page      employees.PageView
	pageIndex int
	pageSize  int
}

// New creates an empty directory view
func New(width, height int) *Dashboard {
	ti := textinput.New()
	ti.Prompt = icons.Search.String() + " "
	ti.Placeholder = "Search by name or email (press /)"
	ti.CharLimit = 64

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Primary).
		Bold(false)

	d := &Dashboard{
		search:   ti,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary))),
		table:    table.New(table.WithFocused(true), table.WithStyles(s)),
		pageSize: employees.DefaultPageSize,
	}
	d.SetSize(width, height)
	return d
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.search.Width = max(20, width-8)
	d.table.SetColumns(columns(width))
	d.table.SetWidth(max(0, width))
	d.table.SetHeight(max(3, height-chromeHeight))
}

func columns(width int) []table.Column {
	// name, email, role, department, status in 4:5:4:3:2 shares
	usable := max(width-10, 40)
	unit := usable / 18
	return []table.Column{
		{Title: "Name", Width: unit * 4},
		{Title: "Email", Width: unit * 5},
		{Title: "Role", Width: unit * 4},
		{Title: "Department", Width: unit * 3},
		{Title: "Status", Width: usable - unit*16},
	}
}

// SetState replaces the rendered query state
func (d *Dashboard) SetState(st query.State) {
	d.state = st
	if items, ok := query.Typed[[]client.Employee](st); ok {
		d.items = items
	} else if !st.HasData() {
		d.items = nil
	}
	d.repage()
}

// ResetPage goes back to the first page, used when the search term changes
func (d *Dashboard) ResetPage() {
	d.pageIndex = 0
	d.repage()
}

func (d *Dashboard) repage() {
	d.page = employees.Page(d.items, d.pageIndex, d.pageSize)
	d.pageIndex = d.page.Index

	rows := make([]table.Row, 0, len(d.page.Items))
	for _, e := range d.page.Items {
		rows = append(rows, table.Row{e.FullName, e.Email, e.Designation, e.Department, statusCell(e.Status)})
	}
	d.table.SetRows(rows)
	if d.table.Cursor() >= len(rows) {
		d.table.SetCursor(max(0, len(rows)-1))
	}
}

func statusCell(s client.Status) string {
	switch s {
	case client.StatusActive:
		return "● Active"
	case client.StatusInactive:
		return "○ Inactive"
	default:
		return string(s)
	}
}

// Selected returns the employee under the cursor
func (d *Dashboard) Selected() (client.Employee, bool) {
	i := d.table.Cursor()
	if i < 0 || i >= len(d.page.Items) {
		return client.Employee{}, false
	}
	return d.page.Items[i], true
}

// Searching reports whether keystrokes go to the search box
func (d *Dashboard) Searching() bool { return d.search.Focused() }

// Term returns the text currently in the search box
func (d *Dashboard) Term() string { return d.search.Value() }

// Page returns the visible page
func (d *Dashboard) Page() employees.PageView { return d.page }

// Tick starts the loading spinner
func (d *Dashboard) Tick() tea.Cmd { return d.spinner.Tick }

// Update handles keys and spinner ticks routed to the list
func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		if d.search.Focused() {
			return d.updateSearch(msg)
		}
		return d.updateTable(msg)
	}
	return nil
}

func (d *Dashboard) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "enter", "down", "tab":
		d.search.Blur()
		d.table.Focus()
		return nil
	}

	before := d.search.Value()
	var cmd tea.Cmd
	d.search, cmd = d.search.Update(msg)
	if term := d.search.Value(); term != before {
		return tea.Batch(cmd, func() tea.Msg { return SearchChangedMsg{Term: term} })
	}
	return cmd
}

func (d *Dashboard) updateTable(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "/":
		d.table.Blur()
		return d.search.Focus()
	case "enter":
		if e, ok := d.Selected(); ok {
			id := e.EmployeeID
			return func() tea.Msg { return OpenMsg{ID: id} }
		}
		return nil
	case "right", "l", "n":
		if d.page.HasNext() {
			d.pageIndex++
			d.repage()
			d.table.SetCursor(0)
		}
		return nil
	case "left", "h", "p":
		if d.page.HasPrev() {
			d.pageIndex--
			d.repage()
			d.table.SetCursor(0)
		}
		return nil
	case "s":
		d.pageSize = employees.NextPageSize(d.pageSize)
		d.pageIndex = 0
		d.repage()
		return nil
	}

	var cmd tea.Cmd
	d.table, cmd = d.table.Update(msg)
	return cmd
}

// View renders the dashboard
func (d *Dashboard) View() string {
	var sb strings.Builder

	sb.WriteString(d.renderSummary())
	sb.WriteString("\n\n")
	sb.WriteString(d.search.View())
	sb.WriteString("\n\n")

	switch {
	case d.state.Status == query.StatusError && !d.state.HasData():
		sb.WriteString(widgets.StatusText("Could not load employees: "+errText(d.state.Err), widgets.StatusCritical))
		sb.WriteString("\n" + styles.Help.Render("Press r to retry"))
	case !d.state.HasData():
		sb.WriteString(d.spinner.View() + " Loading employees...")
	case len(d.items) == 0:
		sb.WriteString(styles.Subtitle.Render(emptyText(d.Term())))
	default:
		sb.WriteString(d.table.View())
		sb.WriteString("\n")
		sb.WriteString(d.renderPager())
	}

	return lipgloss.NewStyle().Width(d.width).Render(sb.String())
}

func (d *Dashboard) renderSummary() string {
	active := 0
	for _, e := range d.items {
		if e.Status == client.StatusActive {
			active++
		}
	}
	total := len(d.items)

	cfg := widgets.DefaultMetricBlockConfig()
	label := "in directory"
	if d.Term() != "" {
		label = "matching search"
	}
	blocks := []string{
		widgets.CountBlock(icons.Users, "Employees", total, label, cfg),
		widgets.ShareBlock(icons.CheckOK, "Active", active, total, widgets.BadgeOKBg, cfg),
		widgets.ShareBlock(icons.Archive, "Inactive", total-active, total, widgets.BadgeWarnBg, cfg),
	}
	if d.width < 3*cfg.Width+2 {
		blocks = blocks[:1]
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, spaced(blocks)...)

	if d.state.IsFetching && d.state.HasData() {
		row = lipgloss.JoinHorizontal(lipgloss.Center, row, "  "+d.spinner.View()+" refreshing")
	}
	return row
}

func spaced(blocks []string) []string {
	out := make([]string, 0, 2*len(blocks))
	for i, b := range blocks {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, b)
	}
	return out
}

func (d *Dashboard) renderPager() string {
	p := d.page
	info := fmt.Sprintf("Page %d of %d · %d per page · %d total", p.Index+1, max(p.Pages, 1), p.Size, p.Total)
	line := lipgloss.NewStyle().Foreground(styles.Muted).Render(info)
	if dots := widgets.PageDots(p.Index, p.Pages, styles.Primary); dots != "" {
		line += "  " + dots
	}
	return line
}

func emptyText(term string) string {
	if term == "" {
		return "No employees yet. Press a to add one."
	}
	return fmt.Sprintf("No employees match %q", term)
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return client.MessageOr(err, err.Error())
}
