// ABOUTME: Tests for the trailing-edge debouncer
// ABOUTME: Keystrokes within the delay coalesce into one delivery

package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/markalston/employee-console/internal/clock"
)

func TestDebouncerCoalesces(t *testing.T) {
	clk := clock.Fake(time.Unix(0, 0))
	var got []string
	d := NewDebouncer(clk, DefaultSearchDebounce, func(v string) { got = append(got, v) })

	d.Set("a")
	clk.Advance(100 * time.Millisecond)
	d.Set("an")
	clk.Advance(100 * time.Millisecond)
	d.Set("ann")
	clk.Advance(499 * time.Millisecond)
	assert.Empty(t, got)

	clk.Advance(time.Millisecond)
	assert.Equal(t, []string{"ann"}, got)
	assert.Equal(t, 0, clk.PendingTimers())
}

func TestDebouncerStop(t *testing.T) {
	clk := clock.Fake(time.Unix(0, 0))
	calls := 0
	d := NewDebouncer(clk, time.Second, func(int) { calls++ })

	d.Set(1)
	d.Stop()
	clk.Advance(2 * time.Second)
	assert.Zero(t, calls)
}

func TestDebouncerZeroDelayDeliversImmediately(t *testing.T) {
	var got []int
	d := NewDebouncer(clock.Fake(time.Unix(0, 0)), 0, func(v int) { got = append(got, v) })
	d.Set(1)
	d.Set(2)
	assert.Equal(t, []int{1, 2}, got)
}
