package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for the token blob. The response body is
// returned raw: current revisions send {jwt, role}, earlier ones a bare
// token string, and session.Decode handles both.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(credentials{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("encode credentials: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/login", bytes.NewReader(body), "")
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := decodeRaw(resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// Signup registers a new account. The server answers with a plain-text
// success message and no session; the user logs in afterwards.
func (c *Client) Signup(ctx context.Context, name, email, password string) (string, error) {
	body, err := json.Marshal(credentials{Name: name, Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("encode credentials: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/signup", bytes.NewReader(body), "")
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := decodeRaw(resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
