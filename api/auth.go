package api

import (
	"context"
	"net/http"

	"food-delivery-client/models"
)

// LoginRequest is the passwordless login payload: the platform matches on
// email and role.
type LoginRequest struct {
	Email    string          `json:"email"`
	UserType models.UserType `json:"user_type"`
}

// AuthResponse is what both auth endpoints return on success.
type AuthResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Login authenticates an existing account.
func (c *Client) Login(ctx context.Context, email string, userType models.UserType) (*AuthResponse, error) {
	var resp AuthResponse
	req := LoginRequest{Email: email, UserType: userType}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account and logs it in.
func (c *Client) Register(ctx context.Context, req models.UserCreate) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
