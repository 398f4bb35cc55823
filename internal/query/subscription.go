// ABOUTME: Observer handle for a single cache key
// ABOUTME: Changes coalesce into one pending signal per subscriber

package query

import "context"

// Subscription keeps an entry alive and signals state changes
type Subscription struct {
	cache   *Cache
	key     Key
	changes chan struct{}
	closed  bool
}

// Key returns the observed key
func (s *Subscription) Key() Key {
	return s.key
}

// Snapshot returns the entry's current state
func (s *Subscription) Snapshot() State {
	st, _ := s.cache.State(s.key)
	return st
}

// Changes signals after every state change. Signals coalesce, so a
// receiver should re-read Snapshot rather than count signals. The
// channel is closed by Close.
func (s *Subscription) Changes() <-chan struct{} {
	return s.changes
}

// Refetch supersedes any in-flight request with a new one and waits for
// it to settle.
func (s *Subscription) Refetch(ctx context.Context) error {
	c := s.cache
	c.mu.Lock()
	e, ok := c.entries[s.key]
	if !ok || e.fetch == nil {
		c.mu.Unlock()
		return nil
	}
	e.generation = c.nextGenLocked()
	ch, _ := c.startLocked(e)
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

// Close stops observing the key. The entry becomes eligible for
// eviction once its CacheTime has passed.
func (s *Subscription) Close() {
	c := s.cache
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if e, ok := c.entries[s.key]; ok {
		delete(e.subs, s)
		e.lastUsed = c.clock.Now()
	}
	close(s.changes)
}
