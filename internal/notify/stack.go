// ABOUTME: Toast stack shown by the TUI
// ABOUTME: FIFO with a size cap; each toast dismisses itself after a TTL

package notify

import (
	"sync"
	"time"

	"github.com/markalston/employee-console/internal/clock"
)

const (
	DefaultToastTTL  = 4 * time.Second
	DefaultMaxToasts = 3
)

// Stack holds the visible toasts, oldest first
type Stack struct {
	clock clock.Clock
	ttl   time.Duration
	limit int

	mu       sync.Mutex
	items    []Notification
	timers   map[string]clock.Timer
	onChange func()
}

// NewStack creates a toast stack using clk for auto-dismiss
func NewStack(clk clock.Clock, ttl time.Duration, limit int) *Stack {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	if limit <= 0 {
		limit = DefaultMaxToasts
	}
	return &Stack{
		clock:  clk,
		ttl:    ttl,
		limit:  limit,
		timers: make(map[string]clock.Timer),
	}
}

// OnChange registers fn to run after every push or dismissal
func (s *Stack) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *Stack) Deliver(n Notification) {
	s.mu.Lock()
	s.items = append(s.items, n)
	for len(s.items) > s.limit {
		s.dropLocked(s.items[0].ID)
	}
	id := n.ID
	s.timers[id] = s.clock.AfterFunc(s.ttl, func() { s.Dismiss(id) })
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Dismiss removes the toast with id; unknown ids are ignored
func (s *Stack) Dismiss(id string) {
	s.mu.Lock()
	removed := s.dropLocked(id)
	fn := s.onChange
	s.mu.Unlock()

	if removed && fn != nil {
		fn()
	}
}

func (s *Stack) dropLocked(id string) bool {
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns the visible toasts, oldest first
func (s *Stack) Items() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification(nil), s.items...)
}
