// ABOUTME: Cache keys and observable query state
// ABOUTME: Keys compare by value and group into resource families

package query

import (
	"context"
	"time"
)

// Key identifies a cached resource, e.g. employees/detail/42
type Key struct {
	Resource string
	Scope    string
	Params   string
}

func (k Key) String() string {
	s := k.Resource
	if k.Scope != "" {
		s += "/" + k.Scope
	}
	if k.Params != "" {
		s += "/" + k.Params
	}
	return s
}

// Fetcher loads the value for a key
type Fetcher func(ctx context.Context) (any, error)

// Options control freshness and retention of an entry
type Options struct {
	// StaleTime is how long fetched data is served without refetching
	StaleTime time.Duration
	// CacheTime is how long an unobserved entry is retained
	CacheTime time.Duration
}

// Status is the settled state of an entry
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State is what a subscriber renders
type State struct {
	Data       any
	Status     Status
	Err        error
	IsLoading  bool
	IsFetching bool
	IsStale    bool
	FetchedAt  time.Time
}

// HasData reports whether a successful fetch has ever settled
func (s State) HasData() bool {
	return !s.FetchedAt.IsZero()
}

// Typed converts the state's data to T
func Typed[T any](s State) (T, bool) {
	v, ok := s.Data.(T)
	return v, ok
}
