// ABOUTME: Tests for login, register, logout and whoami
// ABOUTME: Verifies persisted sessions, notification output and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/markalston/employee-console/internal/localstore"
)

func TestLoginStoresSession(t *testing.T) {
	b := newFakeBackend(t)
	dir := useBackend(t, b)

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, loginOptions{email: "ann@x.io", password: "right"})
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d\n%s", code, buf.String())
	}
	out := buf.String()
	if !strings.Contains(out, "Login successful") {
		t.Errorf("expected success notification, got %q", out)
	}
	if !strings.Contains(out, "Logged in as Ann <ann@x.io>") {
		t.Errorf("expected user line, got %q", out)
	}

	token, ok, err := localstore.NewFileStore(dir).Get(localstore.KeyToken)
	if err != nil || !ok || token == "" {
		t.Errorf("expected persisted token, got ok=%v err=%v", ok, err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	b := newFakeBackend(t)
	dir := useBackend(t, b)

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, loginOptions{email: "ann@x.io", password: "wrong"})
	if code != exitUsage {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Invalid credentials") {
		t.Errorf("expected backend message, got %q", buf.String())
	}
	if _, ok, _ := localstore.NewFileStore(dir).Get(localstore.KeyToken); ok {
		t.Error("expected no token after failed login")
	}
}

func TestLoginRequiresEmail(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b)

	var buf bytes.Buffer
	if code := runLogin(context.Background(), &buf, loginOptions{}); code != exitUsage {
		t.Errorf("expected exit 1, got %d", code)
	}
	if b.seen("POST /users/login") {
		t.Error("expected no request without an email")
	}
}

func TestLoginPromptsForPassword(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b)

	prompted := ""
	orig := promptPassword
	promptPassword = func(title string) (string, error) {
		prompted = title
		return "right", nil
	}
	defer func() { promptPassword = orig }()

	var buf bytes.Buffer
	if code := runLogin(context.Background(), &buf, loginOptions{email: "ann@x.io"}); code != exitOK {
		t.Fatalf("expected exit 0, got %d\n%s", code, buf.String())
	}
	if prompted != "Password" {
		t.Errorf("expected password prompt, got %q", prompted)
	}
}

func TestLoginGoogleNotConfigured(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b)

	var buf bytes.Buffer
	if code := runLogin(context.Background(), &buf, loginOptions{google: true}); code != exitUsage {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "EMS_GOOGLE_CLIENT_ID") {
		t.Errorf("expected configuration hint, got %q", buf.String())
	}
}

func TestRegister(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b)

	var buf bytes.Buffer
	code := runRegister(context.Background(), &buf, registerOptions{fullName: "Jane Doe", email: "jane@x.io", password: "secret1"})
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d\n%s", code, buf.String())
	}

	var sent map[string]string
	if err := json.Unmarshal([]byte(b.body("POST /auth/users/register")), &sent); err != nil {
		t.Fatalf("register body is not JSON: %v", err)
	}
	if sent["full_name"] != "Jane Doe" || sent["email"] != "jane@x.io" {
		t.Errorf("unexpected register body %v", sent)
	}
	if !strings.Contains(buf.String(), "ems login") {
		t.Error("expected hint to log in")
	}
}

func TestRegisterPromptFailure(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b)

	orig := promptPassword
	promptPassword = func(string) (string, error) { return "", errors.New("user aborted") }
	defer func() { promptPassword = orig }()

	var buf bytes.Buffer
	if code := runRegister(context.Background(), &buf, registerOptions{fullName: "Jane", email: "jane@x.io"}); code != exitUsage {
		t.Errorf("expected exit 1, got %d", code)
	}
	if b.seen("POST /auth/users/register") {
		t.Error("expected no request after aborted prompt")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	b := newFakeBackend(t)
	dir := useBackend(t, b)
	storeSession(t, dir, time.Now().Add(time.Hour))

	var buf bytes.Buffer
	if code := runLogout(context.Background(), &buf); code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(buf.String(), "Logged out successfully") {
		t.Errorf("expected logout notification, got %q", buf.String())
	}
	if _, ok, _ := localstore.NewFileStore(dir).Get(localstore.KeyToken); ok {
		t.Error("expected token to be removed")
	}

	// logging out twice is fine
	buf.Reset()
	if code := runLogout(context.Background(), &buf); code != exitOK {
		t.Errorf("expected exit 0 when already logged out, got %d", code)
	}
}

func TestWhoami(t *testing.T) {
	b := newFakeBackend(t)
	dir := useBackend(t, b)
	now := time.Now()
	storeSession(t, dir, now.Add(3*time.Hour))

	var buf bytes.Buffer
	if code := runWhoami(context.Background(), &buf, now); code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, expected := range []string{"Ann", "ann@x.io", b.server.URL, "from now"} {
		if !strings.Contains(buf.String(), expected) {
			t.Errorf("expected %q in output\n%s", expected, buf.String())
		}
	}
}

func TestWhoamiLoggedOut(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b)

	var buf bytes.Buffer
	if code := runWhoami(context.Background(), &buf, time.Now()); code != exitUsage {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Not logged in") {
		t.Errorf("expected not logged in, got %q", buf.String())
	}
}

func TestFormatWhoamiHuman_Expired(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	exp := now.Add(-2 * time.Hour)

	out := formatWhoamiHuman(whoamiStatus{Authenticated: true, Name: "Ann", ExpiresAt: &exp}, now)
	if !strings.Contains(out, "expired 2 hours ago") {
		t.Errorf("expected expiry in the past, got\n%s", out)
	}
	if !strings.Contains(out, "(unknown)") {
		t.Error("expected placeholder for missing email")
	}
}

func TestFormatWhoamiJSON(t *testing.T) {
	out := formatWhoamiJSON(whoamiStatus{Authenticated: true, Email: "ann@x.io"})

	var parsed map[string]any
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["authenticated"] != true || parsed["email"] != "ann@x.io" {
		t.Errorf("unexpected JSON %v", parsed)
	}
	if _, ok := parsed["expires_at"]; ok {
		t.Error("expected expires_at to be omitted")
	}
}
