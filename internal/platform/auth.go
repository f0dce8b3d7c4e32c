package platform

import (
	"context"
	"net/http"
)

const (
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
	mePath       = "/api/auth/me"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a registration request. Company is optional.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Company  string `json:"company,omitempty"`
}

// TokenResponse is returned by both login and register.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Message     string `json:"message,omitempty"`
}

// User is the profile returned by /api/auth/me.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Company   string    `json:"company,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

// DisplayName prefers the full name and falls back to the email address.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	return c.exchange(ctx, loginPath, LoginRequest{Email: email, Password: password})
}

// Register creates an account and returns a bearer token for it.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	return c.exchange(ctx, registerPath, req)
}

func (c *Client) exchange(ctx context.Context, path string, body any) (*TokenResponse, error) {
	var resp TokenResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: path, body: body, auth: true}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, malformed(path, "response has no access_token")
	}
	return &resp, nil
}

// CurrentUser fetches the profile that owns token.
func (c *Client) CurrentUser(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, &APIError{Kind: AuthRejected, Path: mePath, Detail: "Not authenticated"}
	}

	var user User
	if err := c.do(ctx, call{method: http.MethodGet, path: mePath, token: token}, &user); err != nil {
		return nil, err
	}
	if user.ID == "" || user.Email == "" {
		return nil, malformed(mePath, "profile is missing id or email")
	}
	return &user, nil
}
