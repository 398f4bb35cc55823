// ABOUTME: Tests for the typed auth and employee endpoints
// ABOUTME: Verifies paths, methods, payloads, and envelope decoding

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var in LoginRequest
		json.NewDecoder(r.Body).Decode(&in)
		if in.EmailID != "a@x.io" || in.Password != "pw" {
			t.Errorf("unexpected payload %+v", in)
		}
		w.Write([]byte(`{"token":"tok","data":{"_id":"u1","name":"Ann","email_id":"a@x.io","role":"admin"}}`))
	}))
	defer server.Close()

	resp, err := New(server.URL).Login(context.Background(), LoginRequest{EmailID: "a@x.io", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token != "tok" {
		t.Errorf("expected token tok, got %s", resp.Token)
	}
	if resp.User == nil || resp.User.ID != "u1" || resp.User.Name != "Ann" || resp.User.Email != "a@x.io" {
		t.Errorf("unexpected user %+v", resp.User)
	}
	if resp.User.Extra["role"] != "admin" {
		t.Errorf("expected unknown fields preserved, got %v", resp.User.Extra)
	}
}

func TestLogin_MissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	if _, err := New(server.URL).Login(context.Background(), LoginRequest{}); err == nil {
		t.Error("expected error for response without token")
	}
}

func TestGoogleLogin_SendsIDToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/google-login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var in GoogleLoginRequest
		json.NewDecoder(r.Body).Decode(&in)
		if in.IDToken != "idt" {
			t.Errorf("expected idToken idt, got %q", in.IDToken)
		}
		w.Write([]byte(`{"token":"tok","data":{"name":"G"}}`))
	}))
	defer server.Close()

	resp, err := New(server.URL).GoogleLogin(context.Background(), "idt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.User.Name != "G" {
		t.Errorf("unexpected user %+v", resp.User)
	}
}

func TestRegister_Payload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/users/register" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var raw map[string]string
		json.NewDecoder(r.Body).Decode(&raw)
		if raw["full_name"] != "Jane Doe" || raw["email"] != "j@x.io" {
			t.Errorf("unexpected payload %v", raw)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"name":"Jane Doe","email_id":"j@x.io"}}`))
	}))
	defer server.Close()

	user, err := New(server.URL).Register(context.Background(), RegisterRequest{FullName: "Jane Doe", Email: "j@x.io", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "j@x.io" {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestListEmployees_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search"); got != "ann" {
			t.Errorf("expected search=ann, got %q", got)
		}
		w.Write([]byte(`{"data":[{"employeeId":"1","fullName":"Ann Lee","status":"Active"}]}`))
	}))
	defer server.Close()

	list, err := New(server.URL).ListEmployees(context.Background(), "ann")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].FullName != "Ann Lee" || list[0].Status != StatusActive {
		t.Errorf("unexpected list %+v", list)
	}
}

func TestListEmployees_NoSearchNoQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("expected no query, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"data":null}`))
	}))
	defer server.Close()

	list, err := New(server.URL).ListEmployees(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", list)
	}
}

func TestEmployeeMutations_Routes(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		w.Write([]byte(`{"data":{"employeeId":"42","fullName":"Jane Doe"}}`))
	}))
	defer server.Close()

	c := New(server.URL)
	ctx := context.Background()

	if _, err := c.GetEmployee(ctx, "42"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := c.CreateEmployee(ctx, EmployeeInput{FullName: "Jane Doe"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := c.UpdateEmployee(ctx, "42", EmployeeInput{FullName: "Jane Doe"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := c.SoftDeleteEmployee(ctx, "42"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if err := c.DeleteEmployee(ctx, "42"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []call{
		{http.MethodGet, "/employees/42"},
		{http.MethodPost, "/employees"},
		{http.MethodPut, "/employees/42"},
		{http.MethodPatch, "/employees/42/soft-delete"},
		{http.MethodDelete, "/employees/42"},
	}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(calls))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d: expected %v, got %v", i, want[i], calls[i])
		}
	}
}

func TestUserProfile_RoundTrip(t *testing.T) {
	in := `{"id":"u1","name":"Ann","email_id":"a@x.io","avatar":"a.png"}`
	var u UserProfile
	if err := json.Unmarshal([]byte(in), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again UserProfile
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("unmarshal again: %v", err)
	}
	if again.ID != "u1" || again.Name != "Ann" || again.Email != "a@x.io" || again.Extra["avatar"] != "a.png" {
		t.Errorf("round trip lost data: %+v", again)
	}
}

func TestUserProfile_NumericID(t *testing.T) {
	var u UserProfile
	if err := json.Unmarshal([]byte(`{"id":1234567,"name":"Ann","email_id":"a@x.io"}`), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.ID != "1234567" {
		t.Errorf("expected id 1234567, got %q", u.ID)
	}

	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again UserProfile
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("unmarshal again: %v", err)
	}
	if again.ID != "1234567" {
		t.Errorf("expected persisted id to round trip, got %q from %s", again.ID, out)
	}
}
