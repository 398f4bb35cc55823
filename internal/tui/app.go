// ABOUTME: Root bubbletea model for the employee console
// ABOUTME: Maps routes to screens, owns cache subscriptions, and draws the frame and toasts

package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/markalston/employee-console/internal/client"
	"github.com/markalston/employee-console/internal/clock"
	"github.com/markalston/employee-console/internal/employees"
	"github.com/markalston/employee-console/internal/mutation"
	"github.com/markalston/employee-console/internal/nav"
	"github.com/markalston/employee-console/internal/notify"
	"github.com/markalston/employee-console/internal/query"
	"github.com/markalston/employee-console/internal/session"
	"github.com/markalston/employee-console/internal/tui/audit"
	"github.com/markalston/employee-console/internal/tui/authform"
	"github.com/markalston/employee-console/internal/tui/dashboard"
	"github.com/markalston/employee-console/internal/tui/detail"
	"github.com/markalston/employee-console/internal/tui/icons"
	"github.com/markalston/employee-console/internal/tui/menu"
	"github.com/markalston/employee-console/internal/tui/styles"
	"github.com/markalston/employee-console/internal/tui/widgets"
	"github.com/markalston/employee-console/internal/tui/wizard"
)

// Screen is what the body of the frame currently shows
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenSignup
	ScreenList
	ScreenDetail
	ScreenForm
	ScreenAudit
)

const (
	minTerminalWidth = 80
	panelPadding     = 4
	// header, blank, panel border and padding, blank, footer
	frameOverhead = 8
)

// Copy shown by the console itself; everything else comes from the session
// store and the mutation coordinator
const (
	MsgEmailCopied     = "Email copied to clipboard"
	MsgCopyFailed      = "Could not copy email"
	MsgLoadEmployee    = "Failed to load employee"
	MsgGoogleSignInErr = "Google Login failed"
)

// GoogleSignIn runs the browser flow and returns a Google ID token
type GoogleSignIn func(ctx context.Context) (string, error)

// Deps are the application services the console drives
type Deps struct {
	Session   *session.Store
	Directory *employees.Directory
	Mutations *mutation.Coordinator
	Notifier  notify.Notifier
	Toasts    *notify.Stack
	Clock     clock.Clock
	// Google is nil when federated login is not configured
	Google         GoogleSignIn
	SearchDebounce time.Duration
	AuditEnabled   bool
}

type authDoneMsg struct {
	signup bool
	input  string
	err    error
}

type savedMsg struct {
	id    string
	input client.EmployeeInput
	err   error
}

type deletedMsg struct {
	err error
}

type editLoadedMsg struct {
	id       string
	employee *client.Employee
	err      error
}

// App is the root model for the TUI
type App struct {
	ctx    context.Context
	deps   Deps
	router *Router

	screen Screen
	route  nav.Route
	width  int
	height int

	// Login screen: the method menu, then the email form once chosen
	menu      *menu.Menu
	loginForm *authform.Form
	signup    *authform.Form

	dashboard *dashboard.Dashboard
	listSub   *query.Subscription
	listTerm  string
	debouncer *query.Debouncer[string]

	settledMu sync.Mutex
	settled   string

	detail    *detail.Detail
	detailSub *query.Subscription
	confirm   *detail.Confirm

	wizard *wizard.Wizard
	audit  *audit.View
}

// New creates the console. The router must be the navigator the session
// store and mutation coordinator were built with.
func New(ctx context.Context, router *Router, deps Deps) *App {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard
	}
	if deps.SearchDebounce == 0 {
		deps.SearchDebounce = query.DefaultSearchDebounce
	}

	a := &App{
		ctx:    ctx,
		deps:   deps,
		router: router,
		screen: -1,
	}
	a.debouncer = query.NewDebouncer(deps.Clock, deps.SearchDebounce, func(term string) {
		a.settledMu.Lock()
		a.settled = term
		a.settledMu.Unlock()
		router.post(wakeMsg{reason: "search"})
	})
	if deps.Toasts != nil {
		deps.Toasts.OnChange(func() { router.post(wakeMsg{reason: "toast"}) })
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.router.listen(), a.syncRoute())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		if w, ok := msg.msg.(wakeMsg); ok {
			slog.Debug("TUI wake", "reason", w.reason)
		}
		return a, tea.Batch(a.refresh(), a.router.listen())

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, a.forward(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.handleKey(msg)

	case menu.MethodSelectedMsg:
		return a, a.chooseMethod(msg.Method)
	case menu.CancelledMsg:
		return a, tea.Quit

	case authform.LoginSubmittedMsg:
		return a, a.login(msg.Credentials)
	case authform.SignupSubmittedMsg:
		return a, a.register(msg.Registration)
	case authform.CancelledMsg:
		if a.screen == ScreenSignup {
			a.navigate(nav.Login)
			return a, a.syncRoute()
		}
		a.loginForm = nil
		a.menu = menu.New(a.deps.Google != nil)
		return a, a.menu.Init()
	case authDoneMsg:
		return a, a.authDone(msg)

	case dashboard.SearchChangedMsg:
		a.debouncer.Set(msg.Term)
		return a, nil
	case dashboard.OpenMsg:
		a.navigate(nav.EmployeeDetail(msg.ID))
		return a, a.syncRoute()

	case detail.BackMsg:
		a.navigate(nav.Employees)
		return a, a.syncRoute()
	case detail.EditMsg:
		a.navigate(nav.EditEmployee(msg.Employee.EmployeeID))
		return a, a.syncRoute()
	case detail.DeleteMsg:
		a.confirm = detail.NewConfirm(msg.Employee)
		return a, a.confirm.Init()
	case detail.CopiedMsg:
		if msg.Err != nil {
			slog.Warn("Copy to clipboard failed", "error", msg.Err)
			a.deps.Notifier.Notify(notify.Error, MsgCopyFailed)
		} else {
			a.deps.Notifier.Notify(notify.Success, MsgEmailCopied)
		}
		return a, nil
	case detail.DeleteCancelledMsg:
		a.confirm = nil
		return a, nil
	case detail.DeleteConfirmedMsg:
		return a, a.remove(msg.ID, msg.Mode)
	case deletedMsg:
		a.confirm = nil
		return a, a.syncRoute()

	case wizard.CompleteMsg:
		return a, a.save(msg.ID, msg.Input)
	case wizard.CancelledMsg:
		return a, a.leaveForm()
	case savedMsg:
		return a, a.saved(msg)
	case editLoadedMsg:
		return a, a.editLoaded(msg)
	}

	// huh forms and spinners need every other message
	return a, a.forward(msg)
}

// navigate changes the route from inside the event loop
func (a *App) navigate(to nav.Route) {
	a.router.Navigate(to)
}

// refresh re-reads everything that background goroutines may have changed
func (a *App) refresh() tea.Cmd {
	cmd := a.syncRoute()

	a.settledMu.Lock()
	term := a.settled
	a.settledMu.Unlock()
	if a.screen == ScreenList && term != a.listTerm {
		a.watchList(term)
		a.dashboard.ResetPage()
	}

	if a.listSub != nil && a.dashboard != nil {
		a.dashboard.SetState(a.listSub.Snapshot())
	}
	if a.detailSub != nil && a.detail != nil {
		a.detail.SetState(a.detailSub.Snapshot())
	}
	return cmd
}

// syncRoute applies the router's current route, enforcing the auth guard
func (a *App) syncRoute() tea.Cmd {
	r := a.router.Current()
	public := r == nav.Login || r == nav.Signup
	authed := a.deps.Session != nil && a.deps.Session.IsAuthenticated()
	switch {
	case !public && !authed:
		r = nav.Login
		a.router.Navigate(r)
	case public && authed:
		r = nav.Employees
		a.router.Navigate(r)
	case r == nav.Audit && !a.deps.AuditEnabled:
		r = nav.Employees
		a.router.Navigate(r)
	}

	if r == a.route && a.screen >= 0 {
		return nil
	}
	a.leave()
	a.route = r
	return a.enter(r)
}

func (a *App) leave() {
	if a.listSub != nil {
		a.listSub.Close()
		a.listSub = nil
	}
	if a.detailSub != nil {
		a.detailSub.Close()
		a.detailSub = nil
	}
	a.debouncer.Stop()
	a.menu, a.loginForm, a.signup = nil, nil, nil
	a.detail, a.confirm, a.wizard, a.audit = nil, nil, nil, nil
}

func (a *App) enter(r nav.Route) tea.Cmd {
	switch r {
	case nav.Login:
		a.screen = ScreenLogin
		a.menu = menu.New(a.deps.Google != nil)
		return a.menu.Init()
	case nav.Signup:
		a.screen = ScreenSignup
		a.signup = authform.NewSignup()
		return a.signup.Init()
	case nav.Employees:
		a.screen = ScreenList
		if a.dashboard == nil {
			a.dashboard = dashboard.New(a.paneWidth(), a.contentHeight())
		}
		a.watchList(a.dashboard.Term())
		return a.dashboard.Tick()
	case nav.AddEmployee:
		a.screen = ScreenForm
		a.wizard = wizard.New(nil)
		a.wizard.SetWidth(a.paneWidth())
		return a.wizard.Init()
	case nav.Audit:
		a.screen = ScreenAudit
		a.audit = audit.New(a.paneWidth(), a.contentHeight(), a.deps.Clock.Now)
		return nil
	}

	id, ok := r.EmployeeID()
	if !ok {
		a.navigate(nav.Employees)
		return a.syncRoute()
	}
	if r.IsEdit() {
		a.screen = ScreenForm
		dir := a.deps.Directory
		ctx := a.ctx
		return func() tea.Msg {
			e, err := dir.Get(ctx, id)
			return editLoadedMsg{id: id, employee: e, err: err}
		}
	}

	a.screen = ScreenDetail
	a.detail = detail.New(id, a.paneWidth())
	a.detailSub = a.deps.Directory.WatchDetail(id)
	a.relay(a.detailSub, "detail")
	a.detail.SetState(a.detailSub.Snapshot())
	return a.detail.Tick()
}

// watchList swaps the list subscription to term
func (a *App) watchList(term string) {
	if a.listSub != nil {
		a.listSub.Close()
	}
	a.listTerm = term
	a.settledMu.Lock()
	a.settled = term
	a.settledMu.Unlock()

	a.listSub = a.deps.Directory.WatchList(term)
	a.relay(a.listSub, "list")
	a.dashboard.SetState(a.listSub.Snapshot())
}

// relay wakes the app whenever sub changes, until it is closed
func (a *App) relay(sub *query.Subscription, reason string) {
	go func() {
		for range sub.Changes() {
			a.router.post(wakeMsg{reason: reason})
		}
	}()
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if a.dashboard != nil {
		cmds = append(cmds, a.dashboard.Update(nonKey(msg)))
	}
	if a.detail != nil {
		cmds = append(cmds, a.detail.Update(nonKey(msg)))
	}
	if m := a.activeForm(); m != nil {
		_, cmd := m.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// nonKey drops key presses so background forwarding never types into a view
func nonKey(msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.KeyMsg); ok {
		return nil
	}
	return msg
}

func (a *App) activeForm() tea.Model {
	switch {
	case a.confirm != nil:
		return a.confirm
	case a.wizard != nil:
		return a.wizard
	case a.signup != nil:
		return a.signup
	case a.loginForm != nil:
		return a.loginForm
	case a.menu != nil:
		return a.menu
	}
	return nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m := a.activeForm(); m != nil {
		if a.busy() {
			return nil
		}
		_, cmd := m.Update(msg)
		return cmd
	}

	switch a.screen {
	case ScreenList:
		if a.dashboard.Searching() {
			return a.dashboard.Update(msg)
		}
		switch msg.String() {
		case "q":
			return tea.Quit
		case "a":
			a.navigate(nav.AddEmployee)
			return a.syncRoute()
		case "r":
			return a.refetch(a.listSub)
		case "A":
			if a.deps.AuditEnabled {
				a.navigate(nav.Audit)
				return a.syncRoute()
			}
			return nil
		case "L":
			a.deps.Session.Logout()
			return a.syncRoute()
		}
		return a.dashboard.Update(msg)

	case ScreenDetail:
		switch msg.String() {
		case "q":
			return tea.Quit
		case "r":
			return a.refetch(a.detailSub)
		}
		return a.detail.Update(msg)

	case ScreenAudit:
		switch msg.String() {
		case "q":
			return tea.Quit
		case "b", "esc":
			a.navigate(nav.Employees)
			return a.syncRoute()
		}

	case ScreenForm:
		// still loading the employee to edit
		if msg.String() == "esc" {
			return a.leaveForm()
		}
	}
	return nil
}

// busy reports whether a submission from the visible form is in flight
func (a *App) busy() bool {
	switch {
	case a.confirm != nil:
		return a.deps.Directory.Submitting(employees.DeleteScope)
	case a.wizard != nil:
		return a.deps.Directory.Submitting(employees.FormScope)
	case a.loginForm != nil, a.signup != nil, a.menu != nil:
		p := a.deps.Session.Snapshot().Pending
		return p.Email || p.Federated
	}
	return false
}

func (a *App) refetch(sub *query.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		if err := sub.Refetch(ctx); err != nil {
			slog.Debug("Refetch failed", "key", sub.Key().String(), "error", err)
		}
		return nil
	}
}

func (a *App) chooseMethod(m menu.Method) tea.Cmd {
	switch m {
	case menu.MethodEmail:
		a.loginForm = authform.NewLogin("")
		return a.loginForm.Init()
	case menu.MethodSignup:
		a.navigate(nav.Signup)
		return a.syncRoute()
	case menu.MethodGoogle:
		if a.deps.Google == nil {
			return nil
		}
		google, store, notifier, ctx := a.deps.Google, a.deps.Session, a.deps.Notifier, a.ctx
		return func() tea.Msg {
			idToken, err := google(ctx)
			if err != nil {
				slog.Warn("Google sign-in did not complete", "error", err)
				notifier.Notify(notify.Error, MsgGoogleSignInErr)
				return authDoneMsg{err: err}
			}
			_, err = store.FederatedLogin(ctx, idToken)
			return authDoneMsg{err: err}
		}
	}
	return nil
}

func (a *App) login(creds session.Credentials) tea.Cmd {
	store, ctx := a.deps.Session, a.ctx
	return func() tea.Msg {
		_, err := store.Login(ctx, creds)
		return authDoneMsg{input: creds.Email, err: err}
	}
}

func (a *App) register(reg session.Registration) tea.Cmd {
	store, ctx := a.deps.Session, a.ctx
	return func() tea.Msg {
		_, err := store.Register(ctx, reg)
		return authDoneMsg{signup: true, input: reg.Email, err: err}
	}
}

// authDone reopens the form after a failure; success is handled by the
// session store navigating away
func (a *App) authDone(msg authDoneMsg) tea.Cmd {
	if msg.err == nil {
		return a.syncRoute()
	}
	switch {
	case msg.signup && a.screen == ScreenSignup:
		a.signup = authform.NewSignup()
		return a.signup.Init()
	case !msg.signup && a.screen == ScreenLogin && a.loginForm != nil:
		a.loginForm = authform.NewLogin(msg.input)
		return a.loginForm.Init()
	case a.screen == ScreenLogin:
		a.menu = menu.New(a.deps.Google != nil)
		return a.menu.Init()
	}
	return nil
}

func (a *App) save(id string, in client.EmployeeInput) tea.Cmd {
	dir, ctx := a.deps.Directory, a.ctx
	return func() tea.Msg {
		var err error
		if id == "" {
			_, err = dir.Create(ctx, in)
		} else {
			_, err = dir.Update(ctx, id, in)
		}
		return savedMsg{id: id, input: in, err: err}
	}
}

func (a *App) saved(msg savedMsg) tea.Cmd {
	if msg.err == nil || errors.Is(msg.err, mutation.ErrAlreadySubmitting) {
		return a.syncRoute()
	}
	if fe, ok := employees.AsFieldErrors(msg.err); ok {
		a.deps.Notifier.Notify(notify.Error, firstFieldError(fe))
	}
	if a.screen != ScreenForm {
		return nil
	}
	a.wizard = wizard.Resume(msg.id, msg.input)
	a.wizard.SetWidth(a.paneWidth())
	return a.wizard.Init()
}

func firstFieldError(fe employees.FieldErrors) string {
	for _, field := range []string{"fullName", "email", "phoneNumber", "department", "designation", "dateOfJoining", "status"} {
		if msg, ok := fe[field]; ok {
			return msg
		}
	}
	return fe.Error()
}

func (a *App) leaveForm() tea.Cmd {
	if id, ok := a.route.EmployeeID(); ok {
		a.navigate(nav.EmployeeDetail(id))
	} else {
		a.navigate(nav.Employees)
	}
	return a.syncRoute()
}

func (a *App) editLoaded(msg editLoadedMsg) tea.Cmd {
	if a.route != nav.EditEmployee(msg.id) {
		return nil
	}
	if msg.err != nil {
		a.deps.Notifier.Notify(notify.Error, client.MessageOr(msg.err, MsgLoadEmployee))
		a.navigate(nav.Employees)
		return a.syncRoute()
	}
	a.wizard = wizard.New(msg.employee)
	a.wizard.SetWidth(a.paneWidth())
	return a.wizard.Init()
}

func (a *App) remove(id string, mode mutation.DeleteMode) tea.Cmd {
	dir, ctx := a.deps.Directory, a.ctx
	return func() tea.Msg {
		return deletedMsg{err: dir.Remove(ctx, id, mode)}
	}
}

func (a *App) resize() {
	if a.dashboard != nil {
		a.dashboard.SetSize(a.paneWidth(), a.contentHeight())
	}
	if a.detail != nil {
		a.detail.SetWidth(a.paneWidth())
	}
	if a.wizard != nil {
		a.wizard.SetWidth(a.paneWidth())
	}
	if a.audit != nil {
		a.audit.SetSize(a.paneWidth(), a.contentHeight())
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenSignup:
		content = a.viewForm(a.signup, "Creating your account...")
	case ScreenList:
		content = styles.ActivePanel.Width(a.paneWidth()).Render(a.dashboard.View())
	case ScreenDetail:
		content = a.viewDetail()
	case ScreenForm:
		content = a.viewWizard()
	case ScreenAudit:
		if a.deps.Mutations != nil {
			a.audit.SetEntries(a.deps.Mutations.Audit().Entries())
		}
		content = styles.Panel.Width(a.paneWidth()).Render(a.audit.String())
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewLogin() string {
	if a.loginForm != nil {
		return a.viewForm(a.loginForm, "Signing in...")
	}
	if a.deps.Session != nil && a.deps.Session.Snapshot().Pending.Federated {
		return styles.Panel.Render(icons.Google.String() + " Waiting for Google sign-in in your browser...")
	}
	if a.menu == nil {
		return ""
	}
	return styles.Panel.Render(a.menu.View())
}

func (a *App) viewForm(f *authform.Form, busyText string) string {
	if f == nil {
		return ""
	}
	body := f.View()
	if a.busy() {
		body = styles.StatusWarning.Render(icons.Lock.String()+" "+busyText) + "\n\n" + body
	}
	return styles.Panel.Render(body)
}

func (a *App) viewDetail() string {
	if a.detail == nil {
		return ""
	}
	left := styles.ActivePanel.Width(a.paneWidth()).Render(a.detail.View())
	if a.confirm == nil {
		return left
	}
	dialog := a.confirm.View()
	if a.busy() {
		dialog = styles.StatusWarning.Render("Deleting...") + "\n\n" + dialog
	}
	return lipgloss.JoinVertical(lipgloss.Left, left, styles.ActivePanel.BorderForeground(styles.Danger).Render(dialog))
}

func (a *App) viewWizard() string {
	if a.wizard == nil {
		return styles.Panel.Render("Loading employee...")
	}
	body := a.wizard.View()
	if a.busy() {
		body = styles.StatusWarning.Render("Saving...") + "\n\n" + body
	}
	return body
}

// paneWidth is the width available inside the frame's panels
func (a *App) paneWidth() int {
	return max(a.frameWidth()-panelPadding-2, 40)
}

// contentHeight is the height available for a screen body
func (a *App) contentHeight() int {
	return max(a.height-frameOverhead, 10)
}

// frameWidth is one short of the terminal to avoid wrapping on some terminals
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	left := " " + icons.App.String() + " " + titleStyle.Render("Employee Management") + " "

	right := ""
	if a.deps.Session != nil {
		if u := a.deps.Session.Snapshot().User; u != nil {
			name := u.Name
			if name == "" {
				name = u.Email
			}
			right = " " + contextStyle.Render(icons.User.String()+" "+name) + " "
		}
	}

	fill := max(0, width-4-lipgloss.Width(left)-lipgloss.Width(right))
	return borderStyle.Render("╭─" + left + strings.Repeat("─", fill) + right + "─╮")
}

func (a *App) shortcuts() []string {
	if a.confirm != nil {
		return []string{"↑↓ Choose", "Enter Confirm", "Esc Cancel"}
	}
	switch a.screen {
	case ScreenLogin:
		if a.loginForm != nil {
			return []string{"Tab Next", "Enter Submit", "Esc Back"}
		}
		return []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenSignup:
		return []string{"Tab Next", "Enter Submit", "Esc Back"}
	case ScreenList:
		if a.dashboard != nil && a.dashboard.Searching() {
			return []string{"Type Search", "Esc Done"}
		}
		keys := []string{"/ Search", "Enter Open", "a Add", "←→ Page", "s Size", "r Refresh"}
		if a.deps.AuditEnabled {
			keys = append(keys, "A Activity")
		}
		return append(keys, "L Logout", "q Quit")
	case ScreenDetail:
		return []string{"e Edit", "d Delete", "c Copy email", "r Refresh", "b Back"}
	case ScreenForm:
		return []string{"Tab Next", "Enter Confirm", "Esc Cancel"}
	case ScreenAudit:
		return []string{"b Back", "q Quit"}
	}
	return nil
}

func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var parts []string
	for _, s := range a.shortcuts() {
		k, label, _ := strings.Cut(s, " ")
		parts = append(parts, keyStyle.Render(k)+" "+labelStyle.Render(label))
	}
	left := " " + strings.Join(parts, "  ") + " "

	right := ""
	if at := a.lastUpdate(); !at.IsZero() {
		right = " " + statusStyle.Render("Updated "+a.formatTimeSince(at)) + " "
	}

	// shortcuts give way to the status on narrow terminals
	for len(parts) > 0 && lipgloss.Width(left)+lipgloss.Width(right)+4 > width {
		parts = parts[:len(parts)-1]
		left = " " + strings.Join(parts, "  ") + " "
	}

	fill := max(0, width-4-lipgloss.Width(left)-lipgloss.Width(right))
	return borderStyle.Render("╰─" + left + strings.Repeat("─", fill) + right + "─╯")
}

// lastUpdate is when the data on screen was fetched
func (a *App) lastUpdate() time.Time {
	switch {
	case a.screen == ScreenList && a.listSub != nil:
		return a.listSub.Snapshot().FetchedAt
	case a.screen == ScreenDetail && a.detailSub != nil:
		return a.detailSub.Snapshot().FetchedAt
	}
	return time.Time{}
}

func (a *App) formatTimeSince(t time.Time) string {
	now := a.deps.Clock.Now()
	if now.Sub(t) < 5*time.Second {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func (a *App) renderToasts() string {
	if a.deps.Toasts == nil {
		return ""
	}
	items := a.deps.Toasts.Items()
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(items))
	for _, n := range items {
		lines = append(lines, styles.Toast.BorderForeground(widgets.LevelColor(widgets.KindLevel(n.Kind))).Render(notify.Render(n)))
	}
	return lipgloss.JoinVertical(lipgloss.Right, lines...)
}

func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	if toasts := a.renderToasts(); toasts != "" {
		sb.WriteString(lipgloss.PlaceHorizontal(a.frameWidth(), lipgloss.Right, toasts))
		sb.WriteString("\n")
	}
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until the user quits
func Run(ctx context.Context, router *Router, deps Deps) error {
	app := New(ctx, router, deps)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
