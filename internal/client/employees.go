// ABOUTME: Employee directory endpoints of the backend
// ABOUTME: List, detail, create, update, soft delete, and hard delete

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

func employeePath(id string) string {
	return "/employees/" + url.PathEscape(id)
}

// ListEmployees calls GET /employees, filtered by search when non-empty
func (c *Client) ListEmployees(ctx context.Context, search string) ([]Employee, error) {
	var query url.Values
	if search != "" {
		query = url.Values{"search": {search}}
	}
	var out envelope[[]Employee]
	if err := c.Do(ctx, http.MethodGet, "/employees", nil, query, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []Employee{}, nil
	}
	return out.Data, nil
}

// GetEmployee calls GET /employees/:id
func (c *Client) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	var out envelope[*Employee]
	if err := c.Do(ctx, http.MethodGet, employeePath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, fmt.Errorf("invalid response from backend: missing employee %s", id)
	}
	return out.Data, nil
}

// CreateEmployee calls POST /employees
func (c *Client) CreateEmployee(ctx context.Context, in EmployeeInput) (*Employee, error) {
	var out envelope[*Employee]
	if err := c.Do(ctx, http.MethodPost, "/employees", in, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// UpdateEmployee calls PUT /employees/:id
func (c *Client) UpdateEmployee(ctx context.Context, id string, in EmployeeInput) (*Employee, error) {
	var out envelope[*Employee]
	if err := c.Do(ctx, http.MethodPut, employeePath(id), in, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// SoftDeleteEmployee calls PATCH /employees/:id/soft-delete
func (c *Client) SoftDeleteEmployee(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodPatch, employeePath(id)+"/soft-delete", nil, nil, nil)
}

// DeleteEmployee calls DELETE /employees/:id
func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, employeePath(id), nil, nil, nil)
}
