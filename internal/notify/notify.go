// ABOUTME: Fire-and-forget user notifications fanned out to sinks
// ABOUTME: Callers emit success/error/info messages without acknowledgment

package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

// Notification is one emitted message
type Notification struct {
	ID      string
	Kind    Kind
	Message string
	At      time.Time
}

// Notifier accepts notifications
type Notifier interface {
	Notify(kind Kind, message string)
}

// Sink receives fully formed notifications from a Relay
type Sink interface {
	Deliver(n Notification)
}

// Relay stamps each notification and fans it out to every sink
type Relay struct {
	mu    sync.RWMutex
	sinks []Sink
	now   func() time.Time
}

// NewRelay creates a Relay delivering to sinks
func NewRelay(sinks ...Sink) *Relay {
	return &Relay{sinks: sinks, now: time.Now}
}

// Attach adds a sink, e.g. the TUI toast stack once the program starts
func (r *Relay) Attach(s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, s)
}

// Detach removes a previously attached sink
func (r *Relay) Detach(s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.sinks {
		if existing == s {
			r.sinks = append(r.sinks[:i:i], r.sinks[i+1:]...)
			return
		}
	}
}

func (r *Relay) Notify(kind Kind, message string) {
	n := Notification{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: message,
		At:      r.now(),
	}

	r.mu.RLock()
	sinks := append([]Sink(nil), r.sinks...)
	r.mu.RUnlock()

	for _, s := range sinks {
		s.Deliver(n)
	}
}

// Discard drops every notification
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Kind, string) {}
