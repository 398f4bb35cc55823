// ABOUTME: In-memory employee backend served over httptest
// ABOUTME: Shared by the directory tests to exercise the full client stack

package employees

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/markalston/employee-console/internal/client"
)

type fakeBackend struct {
	mu       sync.Mutex
	server   *httptest.Server
	nextID   int
	rows     map[string]client.Employee
	order    []string
	requests []string
	searches []string
	failNext int
}

func newFakeBackend(t *testing.T, seed ...client.Employee) *fakeBackend {
	t.Helper()
	b := &fakeBackend{rows: map[string]client.Employee{}, nextID: 100}
	for _, e := range seed {
		b.rows[e.EmployeeID] = e
		b.order = append(b.order, e.EmployeeID)
	}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) count(prefix string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (b *fakeBackend) searchTerms() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.searches...)
}

func (b *fakeBackend) failWith(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext = status
}

func writeData(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)

	if b.failNext != 0 {
		w.WriteHeader(b.failNext)
		w.Write([]byte(`{"message":"backend unavailable"}`))
		b.failNext = 0
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/employees")
	id, action, _ := strings.Cut(strings.TrimPrefix(rest, "/"), "/")

	switch {
	case r.Method == http.MethodGet && id == "":
		search := r.URL.Query().Get("search")
		b.searches = append(b.searches, search)
		out := []client.Employee{}
		for _, eid := range b.order {
			e, ok := b.rows[eid]
			if ok && strings.Contains(strings.ToLower(e.FullName), strings.ToLower(search)) {
				out = append(out, e)
			}
		}
		writeData(w, out)
	case r.Method == http.MethodGet:
		e, ok := b.rows[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Employee not found"}`))
			return
		}
		writeData(w, e)
	case r.Method == http.MethodPost:
		var in client.EmployeeInput
		json.NewDecoder(r.Body).Decode(&in)
		b.nextID++
		e := employeeFrom(strconv.Itoa(b.nextID), in)
		b.rows[e.EmployeeID] = e
		b.order = append(b.order, e.EmployeeID)
		w.WriteHeader(http.StatusCreated)
		writeData(w, e)
	case r.Method == http.MethodPut:
		var in client.EmployeeInput
		json.NewDecoder(r.Body).Decode(&in)
		e := employeeFrom(id, in)
		b.rows[id] = e
		writeData(w, e)
	case r.Method == http.MethodPatch && action == "soft-delete":
		e := b.rows[id]
		e.Status = client.StatusInactive
		b.rows[id] = e
		w.Write([]byte(`{}`))
	case r.Method == http.MethodDelete:
		delete(b.rows, id)
		w.Write([]byte(`{}`))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func employeeFrom(id string, in client.EmployeeInput) client.Employee {
	return client.Employee{
		EmployeeID:    id,
		FullName:      in.FullName,
		Email:         in.Email,
		PhoneNumber:   in.PhoneNumber,
		Designation:   in.Designation,
		Department:    in.Department,
		DateOfJoining: in.DateOfJoining,
		Status:        in.Status,
	}
}
