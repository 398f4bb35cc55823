// ABOUTME: Integration tests for the TUI app
// ABOUTME: Drives routes, guards and screen messages against an httptest backend

package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/employee-console/internal/client"
	"github.com/markalston/employee-console/internal/clock"
	"github.com/markalston/employee-console/internal/employees"
	"github.com/markalston/employee-console/internal/localstore"
	"github.com/markalston/employee-console/internal/mutation"
	"github.com/markalston/employee-console/internal/nav"
	"github.com/markalston/employee-console/internal/notify"
	"github.com/markalston/employee-console/internal/query"
	"github.com/markalston/employee-console/internal/session"
	"github.com/markalston/employee-console/internal/tui/dashboard"
	"github.com/markalston/employee-console/internal/tui/detail"
)

var ann = client.Employee{
	EmployeeID:    "42",
	FullName:      "Ann Lee",
	Email:         "ann@x.io",
	PhoneNumber:   "5551234567",
	Designation:   "QA Engineer",
	Department:    "Engineering",
	DateOfJoining: "2024-01-15",
	Status:        client.StatusActive,
}

func backend(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/users/login":
			w.Write([]byte(`{"token":"tok-1","data":{"id":"u1","name":"Ann","email_id":"ann@x.io"}}`))
		case r.URL.Path == "/employees":
			json.NewEncoder(w).Encode(map[string]any{"data": []client.Employee{ann}})
		case r.URL.Path == "/employees/42":
			json.NewEncoder(w).Encode(map[string]any{"data": ann})
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"not found"}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

type harness struct {
	app      *App
	router   *Router
	store    *session.Store
	recorder *notify.Recorder
	clock    *clock.FakeClock
}

func newHarness(t *testing.T, auditEnabled bool) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	c := client.New(backend(t).URL)
	router := NewRouter(nav.Login)
	recorder := &notify.Recorder{}
	relay := notify.NewRelay(recorder)

	store := session.New(c, localstore.NewMemoryStore(), relay, router)
	store.Attach(c)

	cache := query.New(ctx, clock.Real())
	coord := mutation.New(cache, relay, router, clock.Real())
	fake := clock.Fake(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))

	app := New(ctx, router, Deps{
		Session:        store,
		Directory:      employees.NewDirectory(c, cache, coord),
		Mutations:      coord,
		Notifier:       relay,
		Clock:          fake,
		SearchDebounce: 300 * time.Millisecond,
		AuditEnabled:   auditEnabled,
	})
	app.width, app.height = 120, 40
	return &harness{app: app, router: router, store: store, recorder: recorder, clock: fake}
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	if _, err := h.store.Login(context.Background(), session.Credentials{Email: "ann@x.io", Password: "pw"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	h.app.syncRoute()
}

func (h *harness) send(msg tea.Msg) {
	h.app.Update(msg)
}

func TestSignedOutStartsOnLogin(t *testing.T) {
	h := newHarness(t, false)
	h.router.Navigate(nav.Employees)
	h.app.syncRoute()

	if h.app.screen != ScreenLogin {
		t.Errorf("expected ScreenLogin, got %d", h.app.screen)
	}
	if h.router.Current() != nav.Login {
		t.Errorf("expected router on login, got %s", h.router.Current())
	}
	if h.app.menu == nil {
		t.Error("expected menu to be initialized")
	}
}

func TestLoginOpensDirectory(t *testing.T) {
	h := newHarness(t, false)
	h.app.syncRoute()
	h.login(t)

	if h.app.screen != ScreenList {
		t.Fatalf("expected ScreenList, got %d", h.app.screen)
	}
	if h.app.listSub == nil || h.app.dashboard == nil {
		t.Fatal("expected list subscription and dashboard")
	}
	if h.app.menu != nil {
		t.Error("expected login menu to be released")
	}
}

func TestSignedInCannotReturnToLogin(t *testing.T) {
	h := newHarness(t, false)
	h.login(t)

	h.router.Navigate(nav.Signup)
	h.app.syncRoute()

	if h.app.screen != ScreenList {
		t.Errorf("expected guard to keep ScreenList, got %d", h.app.screen)
	}
}

func TestAuditRouteNeedsFlag(t *testing.T) {
	h := newHarness(t, false)
	h.login(t)

	h.router.Navigate(nav.Audit)
	h.app.syncRoute()
	if h.app.screen != ScreenList {
		t.Errorf("expected audit to be unavailable, got screen %d", h.app.screen)
	}

	h = newHarness(t, true)
	h.login(t)
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("A")})
	if h.app.screen != ScreenAudit {
		t.Errorf("expected ScreenAudit, got %d", h.app.screen)
	}
	if !strings.Contains(h.app.View(), "Activity") {
		t.Error("expected activity title in view")
	}
}

func TestOpenAndLeaveDetail(t *testing.T) {
	h := newHarness(t, false)
	h.login(t)

	h.send(dashboard.OpenMsg{ID: "42"})
	if h.app.screen != ScreenDetail {
		t.Fatalf("expected ScreenDetail, got %d", h.app.screen)
	}
	if h.router.Current() != nav.EmployeeDetail("42") {
		t.Errorf("expected detail route, got %s", h.router.Current())
	}
	if h.app.detailSub == nil {
		t.Fatal("expected detail subscription")
	}

	h.send(detail.BackMsg{})
	if h.app.screen != ScreenList {
		t.Errorf("expected ScreenList after back, got %d", h.app.screen)
	}
	if h.app.detailSub != nil {
		t.Error("expected detail subscription to be closed")
	}
}

func TestDeleteDialogOpensAndCancels(t *testing.T) {
	h := newHarness(t, false)
	h.login(t)
	h.send(dashboard.OpenMsg{ID: "42"})

	h.send(detail.DeleteMsg{Employee: ann})
	if h.app.confirm == nil {
		t.Fatal("expected confirm dialog")
	}
	if h.app.confirm.Mode() != mutation.DeleteSoft {
		t.Error("expected soft delete to be the default")
	}
	if !strings.Contains(strings.Join(h.app.shortcuts(), " "), "Cancel") {
		t.Error("expected dialog shortcuts")
	}

	h.send(detail.DeleteCancelledMsg{})
	if h.app.confirm != nil {
		t.Error("expected dialog to close")
	}
}

func TestEditRouteShowsWizard(t *testing.T) {
	h := newHarness(t, false)
	h.login(t)
	h.send(dashboard.OpenMsg{ID: "42"})

	h.send(detail.EditMsg{Employee: ann})
	if h.app.screen != ScreenForm {
		t.Fatalf("expected ScreenForm, got %d", h.app.screen)
	}
	if !strings.Contains(h.app.View(), "Loading employee") {
		t.Error("expected loading text before the employee arrives")
	}

	h.send(editLoadedMsg{id: "42", employee: &ann})
	if h.app.wizard == nil || !h.app.wizard.Editing() {
		t.Fatal("expected wizard in edit mode")
	}
	if got := h.app.wizard.Input().FullName; got != "Ann Lee" {
		t.Errorf("expected prefilled name, got %q", got)
	}
}

func TestEditLoadFailureReturnsToList(t *testing.T) {
	h := newHarness(t, false)
	h.login(t)
	h.router.Navigate(nav.EditEmployee("99"))
	h.app.syncRoute()

	h.send(editLoadedMsg{id: "99", err: &client.APIError{StatusCode: 404, Message: "Employee not found"}})

	if h.app.screen != ScreenList {
		t.Errorf("expected ScreenList, got %d", h.app.screen)
	}
	if msgs := h.recorder.Messages(notify.Error); len(msgs) == 0 || msgs[len(msgs)-1] != "Employee not found" {
		t.Errorf("expected backend message to be shown, got %v", msgs)
	}
}

func TestWizardCancelReturnsToDetail(t *testing.T) {
	h := newHarness(t, false)
	h.login(t)
	h.router.Navigate(nav.EditEmployee("42"))
	h.app.syncRoute()

	h.app.leaveForm()
	if h.router.Current() != nav.EmployeeDetail("42") {
		t.Errorf("expected detail route, got %s", h.router.Current())
	}
}

func TestCopiedMsgNotifies(t *testing.T) {
	h := newHarness(t, false)

	h.send(detail.CopiedMsg{Email: "ann@x.io"})
	if last, ok := h.recorder.Last(); !ok || last.Message != MsgEmailCopied {
		t.Errorf("expected copy confirmation, got %+v", last)
	}
}

func TestSettledSearchResubscribes(t *testing.T) {
	h := newHarness(t, false)
	h.login(t)

	h.send(dashboard.SearchChangedMsg{Term: "an"})
	h.send(dashboard.SearchChangedMsg{Term: "ann"})
	h.send(eventMsg{msg: wakeMsg{reason: "test"}})
	if h.app.listTerm != "" {
		t.Fatalf("expected search to wait for debounce, got %q", h.app.listTerm)
	}

	h.clock.Advance(300 * time.Millisecond)
	h.send(eventMsg{msg: wakeMsg{reason: "test"}})
	if h.app.listTerm != "ann" {
		t.Errorf("expected settled term ann, got %q", h.app.listTerm)
	}
	if key := h.app.listSub.Key(); key != employees.ListKey("ann") {
		t.Errorf("expected list key for ann, got %s", key)
	}
}

func TestLogoutKeyReturnsToLogin(t *testing.T) {
	h := newHarness(t, false)
	h.login(t)

	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})

	if h.store.IsAuthenticated() {
		t.Error("expected session to be cleared")
	}
	if h.app.screen != ScreenLogin {
		t.Errorf("expected ScreenLogin, got %d", h.app.screen)
	}
	if h.app.listSub != nil {
		t.Error("expected list subscription to be closed")
	}
}

func TestCtrlCQuits(t *testing.T) {
	h := newHarness(t, false)

	_, cmd := h.app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestRouterDropsWhenFull(t *testing.T) {
	r := NewRouter(nav.Login)
	for range eventBuffer + 10 {
		r.Navigate(nav.Employees)
	}
	if r.Current() != nav.Employees {
		t.Errorf("expected employees, got %s", r.Current())
	}
	if len(r.events) != eventBuffer {
		t.Errorf("expected full buffer of %d, got %d", eventBuffer, len(r.events))
	}
}
