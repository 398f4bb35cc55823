// ABOUTME: Tests for the gateway request pipeline
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type countingHandler struct{ calls atomic.Int32 }

func (h *countingHandler) HandleUnauthorized() { h.calls.Add(1) }

func TestDo_AttachesBearerWhenTokenPresent(t *testing.T) {
	var gotAuth, gotReqID, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get(RequestIDHeader)
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(server.URL)
	c.OnRequest(BearerAuth(staticToken("abc")))

	if err := c.Do(context.Background(), http.MethodGet, "/employees", nil, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if gotReqID == "" {
		t.Error("expected request id header")
	}
	if gotType != "application/json" {
		t.Errorf("expected JSON content type, got %q", gotType)
	}
}

func TestDo_OmitsBearerWhenTokenEmpty(t *testing.T) {
	var present bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(server.URL)
	c.OnRequest(BearerAuth(staticToken("")))

	if err := c.Do(context.Background(), http.MethodGet, "/employees", nil, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if present {
		t.Error("expected no Authorization header when logged out")
	}
}

func TestDo_UnauthorizedCallsHandlerOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Message: "jwt expired"})
	}))
	defer server.Close()

	h := &countingHandler{}
	c := New(server.URL)
	c.OnResponse(UnauthorizedRedirect(h))

	err := c.Do(context.Background(), http.MethodGet, "/employees", nil, nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if got := h.calls.Load(); got != 1 {
		t.Errorf("expected handler called once, got %d", got)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "jwt expired" {
		t.Errorf("expected APIError carrying backend message, got %#v", err)
	}
}

func TestDo_NonUnauthorizedSkipsHandler(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	h := &countingHandler{}
	c := New(server.URL)
	c.OnResponse(UnauthorizedRedirect(h))

	err := c.Do(context.Background(), http.MethodGet, "/employees", nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for 403")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("403 must not match ErrUnauthorized")
	}
	if h.calls.Load() != 0 {
		t.Error("handler must only run for 401")
	}
}

func TestDo_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		fallback string
		want     string
	}{
		{"message", http.StatusBadRequest, `{"message":"Email already exists"}`, "Email already exists", "Failed", "Email already exists"},
		{"error field", http.StatusInternalServerError, `{"error":"boom"}`, "boom", "Failed", "boom"},
		{"no body", http.StatusBadGateway, ``, "", "Failed", "Failed"},
		{"html body", http.StatusServiceUnavailable, `<html>`, "", "Failed", "Failed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			err := New(server.URL).Do(context.Background(), http.MethodGet, "/x", nil, nil, nil)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, apiErr.StatusCode)
			}
			if apiErr.Message != tc.wantMsg {
				t.Errorf("expected message %q, got %q", tc.wantMsg, apiErr.Message)
			}
			if got := MessageOr(err, tc.fallback); got != tc.want {
				t.Errorf("MessageOr = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDo_ConnectionError(t *testing.T) {
	c := New("http://localhost:99999")
	err := c.Do(context.Background(), http.MethodGet, "/employees", nil, nil, nil)
	if err == nil {
		t.Fatal("expected connection error, got nil")
	}
	if got := MessageOr(err, "Login failed"); got != "Login failed" {
		t.Errorf("transport errors must yield fallback, got %q", got)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(server.URL).Do(ctx, http.MethodGet, "/employees", nil, nil, nil)
	if err == nil || err.Error() != "request canceled" {
		t.Errorf("expected request canceled, got %v", err)
	}
}

func TestDo_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(server.URL, WithTimeout(20*time.Millisecond))
	err := c.Do(context.Background(), http.MethodGet, "/employees", nil, nil, nil)
	if err == nil || err.Error() != "request timed out" {
		t.Errorf("expected request timed out, got %v", err)
	}
}

func TestDo_QueryAndBody(t *testing.T) {
	var gotQuery, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		var m map[string]string
		json.NewDecoder(r.Body).Decode(&m)
		gotBody = m["k"]
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	err := New(server.URL).Do(context.Background(), http.MethodPost, "/x",
		map[string]string{"k": "v"}, url.Values{"search": {"ann lee"}}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "search=ann+lee" {
		t.Errorf("unexpected query %q", gotQuery)
	}
	if gotBody != "v" || !out.OK {
		t.Errorf("body round-trip failed: body=%q ok=%v", gotBody, out.OK)
	}
}

func TestDo_RequestInterceptorErrorAborts(t *testing.T) {
	var hit atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit.Store(true)
	}))
	defer server.Close()

	c := New(server.URL)
	c.OnRequest(func(*http.Request) error { return errors.New("no") })

	if err := c.Do(context.Background(), http.MethodGet, "/x", nil, nil, nil); err == nil {
		t.Fatal("expected interceptor error")
	}
	if hit.Load() {
		t.Error("request must not reach the backend")
	}
}
