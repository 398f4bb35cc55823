// ABOUTME: Trailing-edge debouncer for keystroke-driven queries
// ABOUTME: Only the value that stays unchanged for the full delay is delivered

package query

import (
	"sync"
	"time"

	"github.com/markalston/employee-console/internal/clock"
)

// DefaultSearchDebounce is the settle delay for search input
const DefaultSearchDebounce = 500 * time.Millisecond

// Debouncer delays fn until Set has not been called for delay
type Debouncer[T any] struct {
	clock clock.Clock
	delay time.Duration
	fn    func(T)

	mu    sync.Mutex
	timer clock.Timer
	seq   uint64
}

// NewDebouncer creates a Debouncer delivering settled values to fn
func NewDebouncer[T any](clk clock.Clock, delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{clock: clk, delay: delay, fn: fn}
}

// Set cancels any pending delivery and schedules v
func (d *Debouncer[T]) Set(v T) {
	if d.delay <= 0 {
		d.Stop()
		d.fn(v)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := seq == d.seq
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			d.fn(v)
		}
	})
}

// Stop drops any pending delivery
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
