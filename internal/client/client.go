// Package client mirrors the single-page client: an API client carrying
// the session cookie, an in-memory session mirror, and a navigation
// route guard.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/isdelr/accounthub-be/internal/models"
)

// API defines the server operations the client depends on.
type API interface {
	Register(ctx context.Context, username, password, email string) (models.PublicUser, error)
	Login(ctx context.Context, username, password string) (models.PublicUser, error)
	GetMe(ctx context.Context) (models.PublicUser, error)
	GetUsers(ctx context.Context, search string) ([]models.PublicUser, error)
	UpdateUser(ctx context.Context, id int64, email, newPassword string) (models.PublicUser, error)
	DeleteUser(ctx context.Context, id int64) error
	Logout(ctx context.Context) error
}

// APIClient talks to the accounthub HTTP API. The session cookie set by
// the server lives in the client's cookie jar; it is never inspected.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient creates an APIClient for the given base URL, e.g.
// "http://localhost:3000/api".
func NewAPIClient(baseURL string) (*APIClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar},
	}, nil
}

// messageEnvelope is the {message, user} success shape of the mutating
// endpoints.
type messageEnvelope struct {
	Message string            `json:"message"`
	User    models.PublicUser `json:"user"`
}

// Register creates a new account. It does not log in.
func (c *APIClient) Register(ctx context.Context, username, password, email string) (models.PublicUser, error) {
	body := map[string]string{"username": username, "password": password, "email": email}
	var out messageEnvelope
	if err := c.do(ctx, http.MethodPost, "/register", body, &out); err != nil {
		return models.PublicUser{}, err
	}
	return out.User, nil
}

// Login verifies credentials; on success the session cookie is stored in
// the jar and the returned user reflects the server's snapshot.
func (c *APIClient) Login(ctx context.Context, username, password string) (models.PublicUser, error) {
	body := map[string]string{"username": username, "password": password}
	var out messageEnvelope
	if err := c.do(ctx, http.MethodPost, "/login", body, &out); err != nil {
		return models.PublicUser{}, err
	}
	return out.User, nil
}

// GetMe returns the current session's user snapshot.
func (c *APIClient) GetMe(ctx context.Context) (models.PublicUser, error) {
	var out models.PublicUser
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return models.PublicUser{}, err
	}
	return out, nil
}

// GetUsers lists users, optionally filtered by a search term.
func (c *APIClient) GetUsers(ctx context.Context, search string) ([]models.PublicUser, error) {
	path := "/users"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var out []models.PublicUser
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateUser applies a partial update to the given account. Empty fields
// are omitted from the request.
func (c *APIClient) UpdateUser(ctx context.Context, id int64, email, newPassword string) (models.PublicUser, error) {
	body := map[string]string{}
	if email != "" {
		body["email"] = email
	}
	if newPassword != "" {
		body["newPassword"] = newPassword
	}
	var out messageEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), body, &out); err != nil {
		return models.PublicUser{}, err
	}
	return out.User, nil
}

// DeleteUser removes the given account.
func (c *APIClient) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

// Logout destroys the current session.
func (c *APIClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

// do performs a JSON round trip and maps error responses onto the
// package sentinels.
func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return err
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return fmt.Errorf("%w: %s", sentinelFor(resp.StatusCode), errBody.Error)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrInvalidRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrServer
	}
}
