// ABOUTME: Employee directory: cached reads and coordinated writes
// ABOUTME: Binds gateway endpoints to query keys and mutation copy

package employees

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/markalston/employee-console/internal/client"
	"github.com/markalston/employee-console/internal/mutation"
	"github.com/markalston/employee-console/internal/nav"
	"github.com/markalston/employee-console/internal/query"
)

// Resource is the cache family for everything employee-shaped
const Resource = "employees"

// Submission scopes
const (
	FormScope   = "employee-form"
	DeleteScope = "employee-delete"
)

// Mutation copy
const (
	MsgCreated       = "Employee Added Successfully"
	MsgCreateFailed  = "Failed to create employee"
	MsgUpdated       = "Employee updated successfully!"
	MsgUpdateFailed  = "Failed to update employee"
	MsgArchived      = "Employee archived successfully"
	MsgArchiveFailed = "Failed to archive employee"
	MsgDeleted       = "Employee deleted successfully"
	MsgDeleteFailed  = "Failed to delete employee"
)

// Default freshness for list and detail entries
var (
	ListOptions   = query.Options{StaleTime: time.Minute, CacheTime: 10 * time.Minute}
	DetailOptions = query.Options{StaleTime: 0, CacheTime: 10 * time.Minute}
)

// ListKey is the cache key of a search result
func ListKey(search string) query.Key {
	return query.Key{Resource: Resource, Scope: "list", Params: url.Values{"search": {search}}.Encode()}
}

// DetailKey is the cache key of one employee
func DetailKey(id string) query.Key {
	return query.Key{Resource: Resource, Scope: "detail", Params: id}
}

// API is the gateway surface the directory calls
type API interface {
	ListEmployees(ctx context.Context, search string) ([]client.Employee, error)
	GetEmployee(ctx context.Context, id string) (*client.Employee, error)
	CreateEmployee(ctx context.Context, in client.EmployeeInput) (*client.Employee, error)
	UpdateEmployee(ctx context.Context, id string, in client.EmployeeInput) (*client.Employee, error)
	SoftDeleteEmployee(ctx context.Context, id string) error
	DeleteEmployee(ctx context.Context, id string) error
}

// Directory is the employee feature's entry point for both UIs
type Directory struct {
	api   API
	cache *query.Cache
	coord *mutation.Coordinator

	listOpts   query.Options
	detailOpts query.Options
}

// Option customizes a Directory
type Option func(*Directory)

// WithListOptions overrides list freshness
func WithListOptions(o query.Options) Option {
	return func(d *Directory) { d.listOpts = o }
}

// NewDirectory creates a Directory
func NewDirectory(api API, cache *query.Cache, coord *mutation.Coordinator, opts ...Option) *Directory {
	d := &Directory{
		api:        api,
		cache:      cache,
		coord:      coord,
		listOpts:   ListOptions,
		detailOpts: DetailOptions,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Directory) listFetcher(search string) query.Fetcher {
	return func(ctx context.Context) (any, error) {
		return d.api.ListEmployees(ctx, search)
	}
}

func (d *Directory) detailFetcher(id string) query.Fetcher {
	return func(ctx context.Context) (any, error) {
		return d.api.GetEmployee(ctx, id)
	}
}

// List returns employees matching search, from cache when fresh
func (d *Directory) List(ctx context.Context, search string) ([]client.Employee, error) {
	return query.Get[[]client.Employee](ctx, d.cache, ListKey(search), d.listFetcher(search), d.listOpts)
}

// Get returns one employee
func (d *Directory) Get(ctx context.Context, id string) (*client.Employee, error) {
	return query.Get[*client.Employee](ctx, d.cache, DetailKey(id), d.detailFetcher(id), d.detailOpts)
}

// WatchList subscribes to a search result
func (d *Directory) WatchList(search string) *query.Subscription {
	return d.cache.Subscribe(ListKey(search), d.listFetcher(search), d.listOpts)
}

// WatchDetail subscribes to one employee
func (d *Directory) WatchDetail(id string) *query.Subscription {
	return d.cache.Subscribe(DetailKey(id), d.detailFetcher(id), d.detailOpts)
}

// Submitting reports whether the form or delete scope is busy
func (d *Directory) Submitting(scope string) bool {
	return d.coord.Scope(scope).Submitting()
}

// Create validates in and adds an employee
func (d *Directory) Create(ctx context.Context, in client.EmployeeInput) (*client.Employee, error) {
	in = Normalize(in)
	if err := Validate(in); err != nil {
		return nil, err
	}
	res, err := d.coord.Scope(FormScope).Mutate(ctx, mutation.Request{
		Kind:     mutation.KindCreate,
		Resource: Resource,
		Redirect: nav.Employees,
		Success:  MsgCreated,
		Failure:  MsgCreateFailed,
		Run: func(ctx context.Context) (any, error) {
			return d.api.CreateEmployee(ctx, in)
		},
	})
	if err != nil {
		return nil, err
	}
	e, _ := res.Value.(*client.Employee)
	return e, nil
}

// Update validates in and replaces the employee's fields
func (d *Directory) Update(ctx context.Context, id string, in client.EmployeeInput) (*client.Employee, error) {
	in = Normalize(in)
	if err := Validate(in); err != nil {
		return nil, err
	}
	res, err := d.coord.Scope(FormScope).Mutate(ctx, mutation.Request{
		Kind:     mutation.KindUpdate,
		Resource: Resource,
		TargetID: id,
		Detail:   DetailKey(id),
		Redirect: nav.Employees,
		Success:  MsgUpdated,
		Failure:  MsgUpdateFailed,
		Run: func(ctx context.Context) (any, error) {
			return d.api.UpdateEmployee(ctx, id, in)
		},
	})
	if err != nil {
		return nil, err
	}
	e, _ := res.Value.(*client.Employee)
	return e, nil
}

// Archive soft-deletes an employee
func (d *Directory) Archive(ctx context.Context, id string) error {
	return d.Remove(ctx, id, mutation.DeleteSoft)
}

// Delete permanently removes an employee
func (d *Directory) Delete(ctx context.Context, id string) error {
	return d.Remove(ctx, id, mutation.DeleteHard)
}

// Remove deletes an employee in the given mode
func (d *Directory) Remove(ctx context.Context, id string, mode mutation.DeleteMode) error {
	req := mutation.Request{
		Kind:     mutation.KindDelete,
		Mode:     mode,
		Resource: Resource,
		TargetID: id,
		Detail:   DetailKey(id),
		Redirect: nav.Employees,
	}
	switch mode {
	case mutation.DeleteSoft:
		req.Success, req.Failure = MsgArchived, MsgArchiveFailed
		req.Run = func(ctx context.Context) (any, error) {
			return nil, d.api.SoftDeleteEmployee(ctx, id)
		}
	case mutation.DeleteHard:
		req.Success, req.Failure = MsgDeleted, MsgDeleteFailed
		req.Run = func(ctx context.Context) (any, error) {
			return nil, d.api.DeleteEmployee(ctx, id)
		}
	default:
		return fmt.Errorf("remove employee %s: %w", id, mutation.ErrDeleteModeRequired)
	}
	_, err := d.coord.Scope(DeleteScope).Mutate(ctx, req)
	return err
}
