package api

import (
	"context"

	"github.com/abdul-hamid-achik/studyhub/packages/http"
)

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out struct {
		User Profile `json:"user"`
	}
	if _, err := c.http.Do(ctx, http.NewRequest("GET", PathProfile).SetResult(&out)); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if _, err := c.http.Do(ctx, http.NewRequest("GET", PathUsers).SetResult(&out)); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser registers a user record without credentials.
func (c *Client) CreateUser(ctx context.Context, in CreateUser) (*User, error) {
	var out User
	req := http.NewRequest("POST", PathUsers).SetBody(in).SetResult(&out)
	if _, err := c.http.Do(ctx, req); err != nil {
		return nil, err
	}
	return &out, nil
}
