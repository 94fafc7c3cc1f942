package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/taskhub/taskhub/internal/model"
)

// client is a thin HTTP client over the taskhub API. It holds no
// business logic; the server decides everything.
type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func newClient(baseURL, token string) *client {
	return &client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is the server's {"message": ...} error body.
type apiError struct {
	Message string `json:"message"`
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e apiError
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Message != "" {
			return fmt.Errorf("%s", e.Message)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *client) login(ctx context.Context, email, password string) (string, model.Identity, error) {
	var out struct {
		Token string         `json:"token"`
		User  model.Identity `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return "", model.Identity{}, err
	}
	return out.Token, out.User, nil
}

func (c *client) me(ctx context.Context) (model.User, error) {
	var out struct {
		User model.User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out)
	return out.User, err
}

func (c *client) tasks(ctx context.Context, query url.Values) ([]model.Task, error) {
	path := "/api/tasks"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var out struct {
		Tasks []model.Task `json:"tasks"`
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Tasks, err
}

func (c *client) notifications(ctx context.Context) ([]model.Notification, error) {
	var out struct {
		Notifications []model.Notification `json:"notifications"`
	}
	err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &out)
	return out.Notifications, err
}

func (c *client) unreadCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := c.do(ctx, http.MethodGet, "/api/notifications/unread", nil, &out)
	return out.Count, err
}
