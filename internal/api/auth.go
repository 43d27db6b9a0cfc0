package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// LoginResponse is the body of a successful POST /auth/login/.
type LoginResponse struct {
	// UserID arrives as a number or a string depending on the server; it is kept as text.
	UserID json.Number `json:"user_id"`
	Key    string      `json:"key"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login/", body, &out); err != nil {
		return LoginResponse{}, err
	}
	if strings.TrimSpace(out.Key) == "" {
		return LoginResponse{}, fmt.Errorf("api: login response has no key")
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register/", req, nil)
}

// Logout invalidates the current token server side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout/", struct{}{}, nil)
}
