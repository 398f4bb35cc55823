// ABOUTME: Tests for the employees commands
// ABOUTME: Verifies session checks, validation, request bodies and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/markalston/employee-console/internal/client"
	"github.com/markalston/employee-console/internal/employees"
	"github.com/markalston/employee-console/internal/localstore"
)

func loggedIn(t *testing.T) *fakeBackend {
	t.Helper()
	b := newFakeBackend(t)
	dir := useBackend(t, b)
	storeSession(t, dir, time.Now().Add(time.Hour))
	return b
}

func strPtr(s string) *string { return &s }

func TestEmployeesRequireLogin(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b)

	var buf bytes.Buffer
	code := runEmployeesList(context.Background(), &buf, listOptions{page: 1, pageSize: 10})
	if code != exitUsage {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "not logged in") {
		t.Errorf("expected login hint, got %q", buf.String())
	}
	if b.seen("GET /employees") {
		t.Error("expected no request without a session")
	}
}

func TestEmployeesList(t *testing.T) {
	loggedIn(t)

	var buf bytes.Buffer
	if code := runEmployeesList(context.Background(), &buf, listOptions{page: 1, pageSize: 10}); code != exitOK {
		t.Fatalf("expected exit 0, got %d\n%s", code, buf.String())
	}
	out := buf.String()
	for _, expected := range []string{"NAME", "Ann Lee", "Bob Stone", "Page 1 of 1 (2 employees)"} {
		if !strings.Contains(out, expected) {
			t.Errorf("expected %q in output\n%s", expected, out)
		}
	}
}

func TestEmployeesListSearchAndJSON(t *testing.T) {
	loggedIn(t)
	jsonOutput = true
	defer func() { jsonOutput = false }()

	var buf bytes.Buffer
	if code := runEmployeesList(context.Background(), &buf, listOptions{search: "bob", page: 1, pageSize: 5}); code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}

	var parsed struct {
		Employees []client.Employee `json:"employees"`
		Total     int               `json:"total"`
		PageSize  int               `json:"pageSize"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if parsed.Total != 1 || len(parsed.Employees) != 1 || parsed.Employees[0].FullName != "Bob Stone" {
		t.Errorf("unexpected page %+v", parsed)
	}
	if parsed.PageSize != 5 {
		t.Errorf("expected page size 5, got %d", parsed.PageSize)
	}
}

func TestEmployeesListRejectsPageSize(t *testing.T) {
	loggedIn(t)

	var buf bytes.Buffer
	if code := runEmployeesList(context.Background(), &buf, listOptions{page: 1, pageSize: 7}); code != exitUsage {
		t.Errorf("expected exit 1, got %d", code)
	}
}

func TestEmployeesListEmptySearch(t *testing.T) {
	loggedIn(t)

	var buf bytes.Buffer
	if code := runEmployeesList(context.Background(), &buf, listOptions{search: "zed", page: 1, pageSize: 10}); code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(buf.String(), `No employees match "zed"`) {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestEmployeesGet(t *testing.T) {
	loggedIn(t)

	var buf bytes.Buffer
	if code := runEmployeesGet(context.Background(), &buf, "42"); code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(buf.String(), "QA Engineer") {
		t.Errorf("expected designation, got\n%s", buf.String())
	}

	buf.Reset()
	if code := runEmployeesGet(context.Background(), &buf, "99"); code != exitError {
		t.Errorf("expected exit 2 for missing employee, got %d", code)
	}
	if !strings.Contains(buf.String(), "Employee not found") {
		t.Errorf("expected backend message, got %q", buf.String())
	}
}

func TestEmployeesCreateValidates(t *testing.T) {
	b := loggedIn(t)

	var buf bytes.Buffer
	code := runEmployeesCreate(context.Background(), &buf, employeePatch{
		fullName: strPtr("Jane Doe"),
		email:    strPtr("not-an-email"),
	})
	if code != exitUsage {
		t.Errorf("expected exit 1, got %d", code)
	}
	for _, field := range []string{"email:", "phoneNumber:", "dateOfJoining:"} {
		if !strings.Contains(buf.String(), field) {
			t.Errorf("expected %q error\n%s", field, buf.String())
		}
	}
	if b.seen("POST /employees") {
		t.Error("expected invalid input to never reach the backend")
	}
}

func TestEmployeesCreate(t *testing.T) {
	b := loggedIn(t)

	var buf bytes.Buffer
	code := runEmployeesCreate(context.Background(), &buf, employeePatch{
		fullName:    strPtr("  Jane Doe "),
		email:       strPtr("jane@x.io"),
		phone:       strPtr("5551234567"),
		designation: strPtr("QA Engineer"),
		department:  strPtr("Engineering"),
		joined:      strPtr("2024-03-01"),
	})
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d\n%s", code, buf.String())
	}
	if !strings.Contains(buf.String(), employees.MsgCreated) {
		t.Errorf("expected success notification\n%s", buf.String())
	}

	var sent client.EmployeeInput
	if err := json.Unmarshal([]byte(b.body("POST /employees")), &sent); err != nil {
		t.Fatalf("create body is not JSON: %v", err)
	}
	if sent.FullName != "Jane Doe" {
		t.Errorf("expected trimmed name, got %q", sent.FullName)
	}
	if sent.Status != client.StatusActive {
		t.Errorf("expected default status Active, got %q", sent.Status)
	}
}

func TestEmployeesUpdateKeepsUnsetFields(t *testing.T) {
	b := loggedIn(t)

	var buf bytes.Buffer
	code := runEmployeesUpdate(context.Background(), &buf, "42", employeePatch{status: strPtr("Inactive")})
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d\n%s", code, buf.String())
	}

	var sent client.EmployeeInput
	if err := json.Unmarshal([]byte(b.body("PUT /employees/42")), &sent); err != nil {
		t.Fatalf("update body is not JSON: %v", err)
	}
	if sent.Status != client.StatusInactive {
		t.Errorf("expected status change, got %q", sent.Status)
	}
	if sent.FullName != "Ann Lee" || sent.Email != "ann@x.io" {
		t.Errorf("expected untouched fields to be kept, got %+v", sent)
	}
	if !strings.Contains(buf.String(), employees.MsgUpdated) {
		t.Errorf("expected success notification\n%s", buf.String())
	}
}

func TestEmployeesDelete(t *testing.T) {
	b := loggedIn(t)

	var buf bytes.Buffer
	if code := runEmployeesDelete(context.Background(), &buf, "42", "sideways"); code != exitUsage {
		t.Errorf("expected exit 1 for unknown mode, got %d", code)
	}

	if code := runEmployeesDelete(context.Background(), &buf, "42", "soft"); code != exitOK {
		t.Fatalf("expected exit 0, got %d\n%s", code, buf.String())
	}
	if !b.seen("PATCH /employees/42/soft-delete") {
		t.Error("expected soft delete request")
	}
	if !strings.Contains(buf.String(), employees.MsgArchived) {
		t.Errorf("expected archive notification\n%s", buf.String())
	}

	if code := runEmployeesDelete(context.Background(), &buf, "43", "HARD"); code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !b.seen("DELETE /employees/43") {
		t.Error("expected hard delete request")
	}
}

func TestEmployeesUnauthorizedClearsSession(t *testing.T) {
	b := loggedIn(t)
	b.mu.Lock()
	b.reject = true
	b.mu.Unlock()

	var buf bytes.Buffer
	if code := runEmployeesList(context.Background(), &buf, listOptions{page: 1, pageSize: 10}); code != exitUsage {
		t.Errorf("expected exit 1, got %d", code)
	}
	dir := localstore.DefaultConfigDir()
	if _, ok, _ := localstore.NewFileStore(dir).Get(localstore.KeyToken); ok {
		t.Error("expected the rejected session to be cleared")
	}
}

func TestFormatPageHuman(t *testing.T) {
	page := employees.Page([]client.Employee{
		{EmployeeID: "1", FullName: "Ann Lee", Email: "ann@x.io", Designation: "QA Engineer", Status: client.StatusActive},
		{EmployeeID: "2", FullName: "Bob Stone", Email: "bob@x.io", Designation: "Product Manager", Status: client.StatusInactive},
		{EmployeeID: "3", FullName: "Cy Park", Email: "cy@x.io", Designation: "UI/UX Designer", Status: client.StatusActive},
	}, 1, 2)

	out := formatPageHuman(page, "")
	if strings.Contains(out, "Ann Lee") || !strings.Contains(out, "Cy Park") {
		t.Errorf("expected only the second page\n%s", out)
	}
	if !strings.Contains(out, "Page 2 of 2 (3 employees)") {
		t.Errorf("expected pager line\n%s", out)
	}
}
