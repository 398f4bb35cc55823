// ABOUTME: Runs create/update/delete requests and reconciles the query cache
// ABOUTME: Success invalidates, notifies, and navigates; failure only notifies

package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/markalston/employee-console/internal/client"
	"github.com/markalston/employee-console/internal/clock"
	"github.com/markalston/employee-console/internal/nav"
	"github.com/markalston/employee-console/internal/notify"
	"github.com/markalston/employee-console/internal/query"
)

var (
	// ErrAlreadySubmitting is returned when a scope is already running a mutation
	ErrAlreadySubmitting = errors.New("a submission is already in progress")
	// ErrDeleteModeRequired is returned for a delete without a DeleteMode
	ErrDeleteModeRequired = errors.New("delete mode must be soft or hard")
)

// Kind is the operation a request performs
type Kind int

const (
	KindCreate Kind = iota + 1
	KindUpdate
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// DeleteMode selects archival or permanent removal
type DeleteMode int

const (
	DeleteSoft DeleteMode = iota + 1
	DeleteHard
)

func (m DeleteMode) String() string {
	switch m {
	case DeleteSoft:
		return "soft"
	case DeleteHard:
		return "hard"
	default:
		return ""
	}
}

// ParseDeleteMode accepts "soft" or "hard"
func ParseDeleteMode(s string) (DeleteMode, error) {
	switch s {
	case "soft":
		return DeleteSoft, nil
	case "hard":
		return DeleteHard, nil
	default:
		return 0, fmt.Errorf("%w: got %q", ErrDeleteModeRequired, s)
	}
}

// Request describes one mutation
type Request struct {
	Kind     Kind
	Mode     DeleteMode
	Resource string
	TargetID string
	// Detail is the entity's cache entry, invalidated on update and delete
	// when it lives outside the Resource family
	Detail query.Key
	// Redirect is where to navigate after success; empty stays put
	Redirect nav.Route
	// Success and Failure are the user-facing messages
	Success string
	Failure string
	Run     func(ctx context.Context) (any, error)
}

// Label names the operation the way the audit trail shows it
func (r Request) Label() string {
	if r.Kind == KindDelete && r.Mode != 0 {
		return r.Mode.String() + " " + r.Kind.String()
	}
	return r.Kind.String()
}

// Result is the outcome of a successful mutation
type Result struct {
	Value any
}

// Invalidator is the cache surface mutations need
type Invalidator interface {
	Invalidate(key query.Key)
	InvalidateFamily(resource string)
}

// Coordinator runs mutations
type Coordinator struct {
	cache    Invalidator
	notifier notify.Notifier
	nav      nav.Navigator
	clock    clock.Clock
	audit    *Trail

	mu     sync.Mutex
	scopes map[string]*Scope
}

// New creates a Coordinator
func New(cache Invalidator, notifier notify.Notifier, navigator nav.Navigator, clk clock.Clock) *Coordinator {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Coordinator{
		cache:    cache,
		notifier: notifier,
		nav:      navigator,
		clock:    clk,
		audit:    NewTrail(DefaultTrailSize),
		scopes:   make(map[string]*Scope),
	}
}

// Audit returns the trail of settled mutations
func (c *Coordinator) Audit() *Trail {
	return c.audit
}

// Mutate runs req and reconciles cache, notifications, and navigation
func (c *Coordinator) Mutate(ctx context.Context, req Request) (Result, error) {
	if req.Kind == KindDelete && req.Mode != DeleteSoft && req.Mode != DeleteHard {
		return Result{}, ErrDeleteModeRequired
	}
	if req.Run == nil {
		return Result{}, fmt.Errorf("%s %s: no operation", req.Label(), req.Resource)
	}

	start := c.clock.Now()
	value, err := req.Run(ctx)
	c.audit.add(Entry{
		At:       start,
		Duration: c.clock.Now().Sub(start),
		Label:    req.Label(),
		Resource: req.Resource,
		TargetID: req.TargetID,
		Err:      err,
	})

	if err != nil {
		msg := client.MessageOr(err, req.Failure)
		slog.Warn("Mutation failed", "op", req.Label(), "resource", req.Resource, "id", req.TargetID, "error", err)
		// a 401 is reported by the session when it logs out
		if !errors.Is(err, client.ErrUnauthorized) {
			c.notifier.Notify(notify.Error, msg)
		}
		return Result{}, fmt.Errorf("%s %s: %w", req.Label(), req.Resource, err)
	}

	c.cache.InvalidateFamily(req.Resource)
	if req.Kind != KindCreate && req.Detail != (query.Key{}) && req.Detail.Resource != req.Resource {
		c.cache.Invalidate(req.Detail)
	}
	slog.Info("Mutation succeeded", "op", req.Label(), "resource", req.Resource, "id", req.TargetID)
	c.notifier.Notify(notify.Success, req.Success)
	if req.Redirect != "" && c.nav != nil {
		c.nav.Navigate(req.Redirect)
	}
	return Result{Value: value}, nil
}

// Scope returns the named submission scope, creating it on first use
func (c *Coordinator) Scope(name string) *Scope {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.scopes[name]
	if !ok {
		s = &Scope{name: name, coord: c}
		c.scopes[name] = s
	}
	return s
}

// Scope serializes submissions from one form or dialog
type Scope struct {
	name  string
	coord *Coordinator

	mu         sync.Mutex
	submitting bool
}

// Submitting reports whether a mutation from this scope is in flight
func (s *Scope) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Mutate runs req unless another submission from the scope is in flight
func (s *Scope) Mutate(ctx context.Context, req Request) (Result, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		slog.Debug("Rejected duplicate submission", "scope", s.name)
		return Result{}, ErrAlreadySubmitting
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()
	return s.coord.Mutate(ctx, req)
}
