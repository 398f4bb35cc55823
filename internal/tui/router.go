// ABOUTME: Navigator implementation backing the TUI's screen switching
// ABOUTME: Safe to call from any goroutine; wakes the program through an event channel

package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/employee-console/internal/nav"
)

const eventBuffer = 64

// Router records the current route and forwards background events to the app
type Router struct {
	mu      sync.Mutex
	current nav.Route
	events  chan tea.Msg
}

// NewRouter creates a router starting at start
func NewRouter(start nav.Route) *Router {
	return &Router{current: start, events: make(chan tea.Msg, eventBuffer)}
}

// Navigate switches the route; the app picks it up on its next event
func (r *Router) Navigate(to nav.Route) {
	r.mu.Lock()
	r.current = to
	r.mu.Unlock()
	r.post(wakeMsg{reason: "route"})
}

// Current returns the route last navigated to
func (r *Router) Current() nav.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// post queues msg without blocking. Every event makes the app re-read
// all shared state, so a full buffer can drop msg.
func (r *Router) post(msg tea.Msg) {
	select {
	case r.events <- msg:
	default:
	}
}

// eventMsg wraps a message that arrived through the event channel
type eventMsg struct {
	msg tea.Msg
}

// listen waits for the next background event
func (r *Router) listen() tea.Cmd {
	return func() tea.Msg {
		return eventMsg{msg: <-r.events}
	}
}

// wakeMsg tells the app that shared state changed off the event loop
type wakeMsg struct {
	reason string
}
