// ABOUTME: Keyed query cache with single-flight fetches and generation tokens
// ABOUTME: Stale data stays visible while a refetch runs; late responses are dropped

package query

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/markalston/employee-console/internal/clock"
)

type entry struct {
	key  Key
	opts Options
	// fetch is the most recently registered fetcher for the key
	fetch Fetcher

	data       any
	hasData    bool
	status     Status
	err        error
	fetchedAt  time.Time
	invalid    bool
	generation uint64
	fetching   bool

	subs     map[*Subscription]struct{}
	lastUsed time.Time
}

func (e *entry) fresh(now time.Time) bool {
	return e.hasData && !e.invalid && now.Sub(e.fetchedAt) < e.opts.StaleTime
}

// Cache holds query entries. Entries are only mutated by the cache's own
// fetch, settle, and invalidate paths.
type Cache struct {
	clock clock.Clock
	ctx   context.Context
	group singleflight.Group

	mu      sync.Mutex
	entries map[Key]*entry
	seq     uint64
}

// New creates an empty cache. Background fetches run with ctx, which is
// independent of any single caller.
func New(ctx context.Context, clk clock.Clock) *Cache {
	return &Cache{
		clock:   clk,
		ctx:     ctx,
		entries: make(map[Key]*entry),
	}
}

// Subscribe registers interest in key. A missing or stale entry starts a
// background fetch; fresh data is served as is.
func (c *Cache) Subscribe(key Key, fetch Fetcher, opts Options) *Subscription {
	sub := &Subscription{
		cache:   c,
		key:     key,
		changes: make(chan struct{}, 1),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key, fetch, opts)
	e.subs[sub] = struct{}{}
	if !e.fresh(c.clock.Now()) && !e.fetching {
		c.startLocked(e)
	}
	return sub
}

// Fetch returns the value for key, waiting for a network round trip only
// when the cached value is missing or stale. Concurrent callers share one
// request. A result superseded by invalidation is not returned; the
// caller waits for the current generation instead.
func (c *Cache) Fetch(ctx context.Context, key Key, fetch Fetcher, opts Options) (any, error) {
	for {
		c.mu.Lock()
		e := c.entryLocked(key, fetch, opts)
		if e.fresh(c.clock.Now()) {
			data := e.data
			c.mu.Unlock()
			return data, nil
		}
		ch, gen := c.startLocked(e)
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			c.mu.Lock()
			current := e.generation == gen
			c.mu.Unlock()
			if current {
				return res.Val, res.Err
			}
		}
	}
}

// Get is Fetch with the result converted to T
func Get[T any](ctx context.Context, c *Cache, key Key, fetch Fetcher, opts Options) (T, error) {
	var zero T
	v, err := c.Fetch(ctx, key, fetch, opts)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query %s: unexpected result type %T", key, v)
	}
	return out, nil
}

// State returns the current state of key without subscribing
func (c *Cache) State(key Key) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return State{}, false
	}
	return c.stateLocked(e), true
}

// Invalidate marks key stale, supersedes any in-flight fetch, and refetches
// when the entry is observed.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.invalidateLocked(e)
	}
}

// InvalidateFamily invalidates every entry whose Resource is resource
func (c *Cache) InvalidateFamily(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if k.Resource == resource {
			c.invalidateLocked(e)
			n++
		}
	}
	slog.Debug("Invalidated query family", "resource", resource, "entries", n)
}

// Sweep evicts idle entries nobody observes that have been unused for at
// least their CacheTime. It returns the number of evicted entries.
func (c *Cache) Sweep() int {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if len(e.subs) == 0 && !e.fetching && now.Sub(e.lastUsed) >= e.opts.CacheTime {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// StartJanitor sweeps every interval until ctx is done
func (c *Cache) StartJanitor(ctx context.Context, interval time.Duration) {
	var schedule func()
	schedule = func() {
		c.clock.AfterFunc(interval, func() {
			if ctx.Err() != nil {
				return
			}
			if n := c.Sweep(); n > 0 {
				slog.Debug("Evicted unused queries", "count", n)
			}
			schedule()
		})
	}
	schedule()
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) entryLocked(key Key, fetch Fetcher, opts Options) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{
			key:        key,
			subs:       make(map[*Subscription]struct{}),
			generation: c.nextGenLocked(),
		}
		c.entries[key] = e
	}
	if fetch != nil {
		e.fetch = fetch
	}
	e.opts = opts
	e.lastUsed = c.clock.Now()
	return e
}

func (c *Cache) nextGenLocked() uint64 {
	c.seq++
	return c.seq
}

func (c *Cache) invalidateLocked(e *entry) {
	e.invalid = true
	e.generation = c.nextGenLocked()
	e.fetching = false
	if len(e.subs) > 0 {
		c.startLocked(e)
	} else {
		c.broadcastLocked(e)
	}
}

// startLocked joins or starts the flight for the entry's current
// generation. The flight settles the entry itself, exactly once.
func (c *Cache) startLocked(e *entry) (<-chan singleflight.Result, uint64) {
	key, gen, fetch := e.key, e.generation, e.fetch
	e.fetching = true

	ch := c.group.DoChan(key.String()+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		v, err := fetch(c.ctx)
		c.settle(key, gen, v, err)
		return v, err
	})
	c.broadcastLocked(e)
	return ch, gen
}

func (c *Cache) settle(key Key, gen uint64, v any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.generation != gen {
		slog.Debug("Discarding superseded query result", "key", key.String(), "generation", gen)
		return
	}

	e.fetching = false
	if err != nil {
		e.status = StatusError
		e.err = err
		slog.Debug("Query failed", "key", key.String(), "error", err)
	} else {
		e.data = v
		e.hasData = true
		e.status = StatusSuccess
		e.err = nil
		e.fetchedAt = c.clock.Now()
		e.invalid = false
	}
	c.broadcastLocked(e)
}

func (c *Cache) stateLocked(e *entry) State {
	status := e.status
	if e.fetching && !e.hasData {
		status = StatusLoading
	}
	return State{
		Data:       e.data,
		Status:     status,
		Err:        e.err,
		IsLoading:  e.fetching && !e.hasData,
		IsFetching: e.fetching,
		IsStale:    !e.fresh(c.clock.Now()),
		FetchedAt:  e.fetchedAt,
	}
}

func (c *Cache) broadcastLocked(e *entry) {
	for sub := range e.subs {
		select {
		case sub.changes <- struct{}{}:
		default:
		}
	}
}
