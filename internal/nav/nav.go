// ABOUTME: Route model shared by the session store, mutations, and the TUI
// ABOUTME: Navigator abstracts "go to this screen" so core logic stays UI-agnostic

package nav

import (
	"strings"
	"sync"
)

// Route is an application location such as "/employees/42/edit"
type Route string

const (
	Login        Route = "/login"
	Signup       Route = "/signup"
	Employees    Route = "/employees"
	AddEmployee  Route = "/employees/add"
	Audit        Route = "/audit"
	defaultRoute       = Employees
)

// EmployeeDetail returns the profile route for id
func EmployeeDetail(id string) Route {
	return Route("/employees/" + id)
}

// EditEmployee returns the edit route for id
func EditEmployee(id string) Route {
	return Route("/employees/" + id + "/edit")
}

// EmployeeID extracts the id from a detail or edit route
func (r Route) EmployeeID() (string, bool) {
	rest, ok := strings.CutPrefix(string(r), string(Employees)+"/")
	if !ok || rest == "" || rest == "add" {
		return "", false
	}
	id, _, _ := strings.Cut(rest, "/")
	return id, true
}

// IsEdit reports whether r is an edit route
func (r Route) IsEdit() bool {
	_, ok := r.EmployeeID()
	return ok && strings.HasSuffix(string(r), "/edit")
}

// Navigator moves the user between routes
type Navigator interface {
	Navigate(to Route)
	Current() Route
}

// History is a Navigator that records every navigation
type History struct {
	mu      sync.Mutex
	entries []Route
}

// NewHistory creates a History starting at start
func NewHistory(start Route) *History {
	return &History{entries: []Route{start}}
}

func (h *History) Navigate(to Route) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, to)
}

func (h *History) Current() Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return defaultRoute
	}
	return h.entries[len(h.entries)-1]
}

// Entries returns a copy of the navigation log, oldest first
func (h *History) Entries() []Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Route, len(h.entries))
	copy(out, h.entries)
	return out
}

// Count returns how many times to was navigated to, excluding the start route
func (h *History) Count(to Route) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.entries[1:] {
		if r == to {
			n++
		}
	}
	return n
}
