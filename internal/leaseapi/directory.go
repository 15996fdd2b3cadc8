package leaseapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Login authenticates an admin against the upstream and returns its raw
// response: token plus user payload, in whichever envelope the upstream
// wraps them.
func (c *Client) Login(ctx context.Context, email, password string) (map[string]any, error) {
	body := map[string]any{"email": email, "password": password}
	v, err := c.do(ctx, http.MethodPost, "/login", nil, body)
	if err != nil {
		return nil, err
	}
	m, _ := v.(map[string]any)
	return m, nil
}

// Users fetches one page of admin users.
func (c *Client) Users(ctx context.Context, pageNum, perPage int) (*Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(pageNum))
	query.Set("per_page", strconv.Itoa(perPage))

	v, err := c.do(ctx, http.MethodGet, "/users", query, nil)
	if err != nil {
		return nil, err
	}
	return page(v, pageNum, perPage), nil
}

// User fetches one admin user.
func (c *Client) User(ctx context.Context, id int64) (map[string]any, error) {
	v, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	return record(v), nil
}

// CreateUser registers an admin user.
func (c *Client) CreateUser(ctx context.Context, payload map[string]any) (map[string]any, error) {
	v, err := c.do(ctx, http.MethodPost, "/users", nil, payload)
	if err != nil {
		return nil, err
	}
	return record(v), nil
}

// UpdateUser updates an admin user.
func (c *Client) UpdateUser(ctx context.Context, id int64, payload map[string]any) (map[string]any, error) {
	v, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, payload)
	if err != nil {
		return nil, err
	}
	return record(v), nil
}

// DeleteUser removes an admin user.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
	return err
}

// Roles fetches the role list.
func (c *Client) Roles(ctx context.Context) ([]map[string]any, error) {
	v, err := c.do(ctx, http.MethodGet, "/roles", nil, nil)
	if err != nil {
		return nil, err
	}
	return records(v), nil
}

// CreateRole registers a role.
func (c *Client) CreateRole(ctx context.Context, payload map[string]any) (map[string]any, error) {
	v, err := c.do(ctx, http.MethodPost, "/roles", nil, payload)
	if err != nil {
		return nil, err
	}
	return record(v), nil
}

// UpdateRole updates a role.
func (c *Client) UpdateRole(ctx context.Context, id int64, payload map[string]any) (map[string]any, error) {
	v, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/roles/%d", id), nil, payload)
	if err != nil {
		return nil, err
	}
	return record(v), nil
}

// Permissions fetches the permission catalog.
func (c *Client) Permissions(ctx context.Context) ([]map[string]any, error) {
	v, err := c.do(ctx, http.MethodGet, "/permissions", nil, nil)
	if err != nil {
		return nil, err
	}
	return records(v), nil
}
