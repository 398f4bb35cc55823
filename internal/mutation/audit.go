// ABOUTME: In-memory record of settled mutations
// ABOUTME: Bounded ring shown by the audit screen

package mutation

import (
	"sync"
	"time"
)

// DefaultTrailSize bounds the audit trail
const DefaultTrailSize = 200

// Entry is one settled mutation
type Entry struct {
	At       time.Time
	Duration time.Duration
	Label    string
	Resource string
	TargetID string
	Err      error
}

// OK reports whether the mutation succeeded
func (e Entry) OK() bool {
	return e.Err == nil
}

// Trail keeps the most recent entries, oldest first
type Trail struct {
	mu      sync.Mutex
	limit   int
	entries []Entry
}

// NewTrail creates a trail holding up to limit entries
func NewTrail(limit int) *Trail {
	if limit <= 0 {
		limit = DefaultTrailSize
	}
	return &Trail{limit: limit}
}

func (t *Trail) add(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, e)
	if over := len(t.entries) - t.limit; over > 0 {
		t.entries = append(t.entries[:0:0], t.entries[over:]...)
	}
}

// Entries returns a copy of the trail
func (t *Trail) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}
