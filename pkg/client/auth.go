package client

import "context"

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
	Class     int    `json:"class" validate:"gte=1"`
}

// AuthResponse is the flat payload login and register return: the account
// fields plus the issued bearer token. A response without an issued token
// is treated as a failed authentication by callers.
type AuthResponse struct {
	User
	IssuedToken string `json:"issuedToken"`
}

// Login authenticates with email and password. The issued token is NOT
// attached to the client automatically; the session manager owns the
// token lifecycle and decides when to call SetAuthToken.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	req := LoginRequest{
		Email:    email,
		Password: password,
	}

	var resp AuthResponse
	if err := c.doRequest(ctx, "POST", "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new student account
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doRequest(ctx, "POST", "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProfile retrieves the currently authenticated user's profile
func (c *Client) GetProfile(ctx context.Context) (*User, error) {
	var user User
	if err := c.doRequest(ctx, "GET", "/api/auth/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
