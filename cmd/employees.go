// ABOUTME: Employee directory commands: list, get, create, update and delete
// ABOUTME: Require a stored session; output is a table or JSON

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/markalston/employee-console/internal/client"
	"github.com/markalston/employee-console/internal/employees"
	"github.com/markalston/employee-console/internal/mutation"
	"github.com/markalston/employee-console/internal/nav"
	"github.com/markalston/employee-console/internal/notify"
)

var errNotLoggedIn = errors.New(`not logged in (run "ems login")`)

type listOptions struct {
	search   string
	page     int
	pageSize int
}

// employeePatch holds the fields given on the command line; nil means unset
type employeePatch struct {
	fullName    *string
	email       *string
	phone       *string
	designation *string
	department  *string
	joined      *string
	status      *string
}

var (
	listOpts   listOptions
	deleteMode string
)

var employeesCmd = &cobra.Command{
	Use:     "employees",
	Aliases: []string{"emp"},
	Short:   "Manage employee records",
}

var employeesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees, optionally filtered by name or email",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context) int { return runEmployeesList(ctx, os.Stdout, listOpts) })
	},
}

var employeesGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show one employee",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context) int { return runEmployeesGet(ctx, os.Stdout, args[0]) })
	},
}

var employeesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add an employee",
	Example: `  ems employees create --full-name "Jane Doe" --email jane@company.com \
    --phone 5551234567 --designation "QA Engineer" --department Engineering --joined 2024-03-01`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		patch := patchFromFlags(cmd.Flags())
		runWithExit(func(ctx context.Context) int { return runEmployeesCreate(ctx, os.Stdout, patch) })
	},
}

var employeesUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change an employee; unset flags keep their current values",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		patch := patchFromFlags(cmd.Flags())
		runWithExit(func(ctx context.Context) int { return runEmployeesUpdate(ctx, os.Stdout, args[0], patch) })
	},
}

var employeesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Archive (soft) or permanently remove (hard) an employee",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithExit(func(ctx context.Context) int { return runEmployeesDelete(ctx, os.Stdout, args[0], deleteMode) })
	},
}

func init() {
	rootCmd.AddCommand(employeesCmd)
	employeesCmd.AddCommand(employeesListCmd, employeesGetCmd, employeesCreateCmd, employeesUpdateCmd, employeesDeleteCmd)

	employeesListCmd.Flags().StringVar(&listOpts.search, "search", "", "Filter by name or email")
	employeesListCmd.Flags().IntVar(&listOpts.page, "page", 1, "Page number, starting at 1")
	employeesListCmd.Flags().IntVar(&listOpts.pageSize, "page-size", employees.DefaultPageSize, "Rows per page (5, 10 or 20)")

	for _, c := range []*cobra.Command{employeesCreateCmd, employeesUpdateCmd} {
		c.Flags().String("full-name", "", "Full name")
		c.Flags().String("email", "", "Email address")
		c.Flags().String("phone", "", "Phone number, 10-15 digits")
		c.Flags().String("designation", "", "Role")
		c.Flags().String("department", "", "Department")
		c.Flags().String("joined", "", "Joining date (YYYY-MM-DD)")
		c.Flags().String("status", "", "Active or Inactive")
	}

	employeesDeleteCmd.Flags().StringVar(&deleteMode, "mode", "", "soft or hard")
	employeesDeleteCmd.MarkFlagRequired("mode")
}

func runWithExit(run func(ctx context.Context) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if code := run(ctx); code != exitOK {
		cancel()
		exit(code)
	}
}

func patchFromFlags(flags *pflag.FlagSet) employeePatch {
	get := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	return employeePatch{
		fullName:    get("full-name"),
		email:       get("email"),
		phone:       get("phone"),
		designation: get("designation"),
		department:  get("department"),
		joined:      get("joined"),
		status:      get("status"),
	}
}

// apply overlays the set fields onto in
func (p employeePatch) apply(in client.EmployeeInput) client.EmployeeInput {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&in.FullName, p.fullName)
	set(&in.Email, p.email)
	set(&in.PhoneNumber, p.phone)
	set(&in.Designation, p.designation)
	set(&in.Department, p.department)
	set(&in.DateOfJoining, p.joined)
	if p.status != nil {
		in.Status = client.Status(*p.status)
	}
	return in
}

// authedServices wires the services and checks for a stored session
func authedServices(ctx context.Context, w io.Writer) (*services, int) {
	cfg, err := loadConfig()
	if err != nil {
		printError(w, err)
		return nil, exitError
	}
	svc := wire(ctx, cfg, nav.NewHistory(nav.Employees), notify.NewWriterSink(w), notify.LogSink{})
	if !svc.session.IsAuthenticated() {
		printError(w, errNotLoggedIn)
		return nil, exitUsage
	}
	return svc, exitOK
}

// exitFor maps a failed request to an exit code. A 401 has already cleared
// the stored session and been reported.
func exitFor(err error) int {
	if errors.Is(err, client.ErrUnauthorized) {
		return exitUsage
	}
	if _, ok := employees.AsFieldErrors(err); ok {
		return exitUsage
	}
	return exitError
}

// runEmployeesList prints one page of the directory and returns exit code
func runEmployeesList(ctx context.Context, w io.Writer, opts listOptions) int {
	if !slices.Contains(employees.PageSizes, opts.pageSize) {
		printError(w, fmt.Errorf("--page-size must be one of %v", employees.PageSizes))
		return exitUsage
	}
	svc, code := authedServices(ctx, w)
	if svc == nil {
		return code
	}

	all, err := svc.directory.List(ctx, strings.TrimSpace(opts.search))
	if err != nil {
		printError(w, fmt.Errorf("listing employees: %s", client.MessageOr(err, err.Error())))
		return exitFor(err)
	}
	page := employees.Page(all, opts.page-1, opts.pageSize)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatPageJSON(page))
	} else {
		fmt.Fprint(w, formatPageHuman(page, opts.search))
	}
	return exitOK
}

// runEmployeesGet prints one employee and returns exit code
func runEmployeesGet(ctx context.Context, w io.Writer, id string) int {
	svc, code := authedServices(ctx, w)
	if svc == nil {
		return code
	}

	e, err := svc.directory.Get(ctx, id)
	if err != nil {
		printError(w, errors.New(client.MessageOr(err, "Failed to load employee")))
		return exitFor(err)
	}
	printEmployee(w, e)
	return exitOK
}

// runEmployeesCreate adds an employee and returns exit code
func runEmployeesCreate(ctx context.Context, w io.Writer, patch employeePatch) int {
	in := patch.apply(client.EmployeeInput{Status: client.StatusActive})
	if err := employees.Validate(in); err != nil {
		printFieldErrors(w, err)
		return exitUsage
	}
	svc, code := authedServices(ctx, w)
	if svc == nil {
		return code
	}

	e, err := svc.directory.Create(ctx, in)
	if err != nil {
		return exitFor(err)
	}
	printEmployee(w, e)
	return exitOK
}

// runEmployeesUpdate changes the given fields and returns exit code
func runEmployeesUpdate(ctx context.Context, w io.Writer, id string, patch employeePatch) int {
	svc, code := authedServices(ctx, w)
	if svc == nil {
		return code
	}

	current, err := svc.directory.Get(ctx, id)
	if err != nil {
		printError(w, errors.New(client.MessageOr(err, "Failed to load employee")))
		return exitFor(err)
	}
	in := patch.apply(client.InputFrom(*current))
	if err := employees.Validate(in); err != nil {
		printFieldErrors(w, err)
		return exitUsage
	}

	e, err := svc.directory.Update(ctx, id, in)
	if err != nil {
		return exitFor(err)
	}
	printEmployee(w, e)
	return exitOK
}

// runEmployeesDelete archives or removes an employee and returns exit code
func runEmployeesDelete(ctx context.Context, w io.Writer, id, mode string) int {
	m, err := mutation.ParseDeleteMode(strings.ToLower(strings.TrimSpace(mode)))
	if err != nil {
		printError(w, err)
		return exitUsage
	}
	svc, code := authedServices(ctx, w)
	if svc == nil {
		return code
	}

	if err := svc.directory.Remove(ctx, id, m); err != nil {
		return exitFor(err)
	}
	return exitOK
}

func printFieldErrors(w io.Writer, err error) {
	fe, ok := employees.AsFieldErrors(err)
	if !ok {
		printError(w, err)
		return
	}
	fmt.Fprintln(w, "Error: invalid employee")
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	for _, field := range fields {
		fmt.Fprintf(w, "  %s: %s\n", field, fe[field])
	}
}

func printEmployee(w io.Writer, e *client.Employee) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(e, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprintln(w, formatEmployeeHuman(e))
}

// formatEmployeeHuman formats one employee for human readability
func formatEmployeeHuman(e *client.Employee) string {
	return fmt.Sprintf(`ID:           %s
Name:         %s
Email:        %s
Phone:        %s
Role:         %s
Department:   %s
Joined:       %s
Status:       %s`,
		e.EmployeeID, e.FullName, e.Email, e.PhoneNumber,
		e.Designation, e.Department, e.DateOfJoining, e.Status)
}

// formatPageHuman renders a page as an aligned table with a pager line
func formatPageHuman(p employees.PageView, search string) string {
	var sb strings.Builder
	if p.Total == 0 {
		if search != "" {
			return fmt.Sprintf("No employees match %q.\n", search)
		}
		return "No employees yet.\n"
	}

	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tSTATUS")
	for _, e := range p.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.EmployeeID, e.FullName, e.Email, e.Designation, e.Status)
	}
	tw.Flush()

	fmt.Fprintf(&sb, "\nPage %d of %d (%d employees)\n", p.Index+1, p.Pages, p.Total)
	return sb.String()
}

// formatPageJSON formats a page as JSON
func formatPageJSON(p employees.PageView) string {
	data, _ := json.MarshalIndent(map[string]any{
		"employees": p.Items,
		"page":      p.Index + 1,
		"pageSize":  p.Size,
		"pages":     p.Pages,
		"total":     p.Total,
	}, "", "  ")
	return string(data)
}
