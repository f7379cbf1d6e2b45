package client

import (
	"context"
	"net/http"
	"net/url"
)

// UserService manages back-office accounts. Every call is audited server-side.
type UserService struct {
	c *Client
}

// Create creates an account and returns it with its assigned numbers.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	var u User
	if err := s.c.do(ctx, http.MethodPost, "/api/v1/user", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Update applies a partial update to an account.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	var u User
	if err := s.c.do(ctx, http.MethodPatch, "/api/v1/user/"+url.PathEscape(id), req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.c.do(ctx, http.MethodDelete, "/api/v1/user/"+url.PathEscape(id), nil, nil)
}
