// Package authclient is the Go client for the empleados auth API. It wraps
// the HTTP endpoints, persists the bearer token and a cached copy of the
// user's public fields locally, and attaches the token to every subsequent
// request.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// User is the public employee record the API returns. It never carries the
// clave.
type User struct {
	ID        int    `json:"id"`
	Paterno   string `json:"paterno"`
	Materno   string `json:"materno,omitempty"`
	Nombres   string `json:"nombres"`
	Direccion string `json:"direccion,omitempty"`
	Telefono  string `json:"telefono,omitempty"`
}

// RegisterData is the registration payload; Paterno, Nombres and Clave are
// required by the server.
type RegisterData struct {
	Paterno   string `json:"paterno"`
	Materno   string `json:"materno,omitempty"`
	Nombres   string `json:"nombres"`
	Direccion string `json:"direccion,omitempty"`
	Telefono  string `json:"telefono,omitempty"`
	Clave     string `json:"clave"`
}

// AuthResponse is the login/registration success envelope.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// HealthStatus mirrors /api/health.
type HealthStatus struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("estado HTTP %d", e.Status)
}

// Client calls the auth API with a fixed base URL and a session Store.
type Client struct {
	baseURL string
	http    *http.Client
	store   *Store
}

// New builds a client for baseURL (e.g. "http://localhost:3001/api").
func New(baseURL string, store *Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		store:   store,
	}
}

// do performs one JSON request. The stored token, when present, is attached
// as a bearer credential; non-2xx responses become *APIError with the
// server's message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.store.load().Token; tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&envelope) == nil {
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login authenticates with an employee id and clave. On success the token and
// the returned user are persisted for later calls.
func (c *Client) Login(ctx context.Context, empleadoID int, clave string) (*AuthResponse, error) {
	payload := map[string]any{"empleadoId": empleadoID, "clave": clave}
	resp := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/auth/login", payload, resp); err != nil {
		return nil, err
	}
	if resp.Token != "" {
		if err := c.store.save(&session{Token: resp.Token, User: resp.User}); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Register creates a new employee and, like Login, persists the issued token
// and cached user.
func (c *Client) Register(ctx context.Context, data RegisterData) (*AuthResponse, error) {
	resp := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/auth/register", data, resp); err != nil {
		return nil, err
	}
	if resp.Token != "" {
		if err := c.store.save(&session{Token: resp.Token, User: resp.User}); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Profile fetches the authenticated identity's public fields.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Empleados lists the employee roster (requires a token).
func (c *Client) Empleados(ctx context.Context) ([]User, error) {
	var resp struct {
		Empleados []User `json:"empleados"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/empleados", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Empleados, nil
}

// Health probes the server.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	resp := &HealthStatus{}
	if err := c.do(ctx, http.MethodGet, "/health", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Logout discards the stored token and cached user.
func (c *Client) Logout() error { return c.store.clear() }

// IsAuthenticated reports whether a token is present locally. It says nothing
// about server-side validity — an expired token surfaces as an error on the
// next call.
func (c *Client) IsAuthenticated() bool { return c.store.load().Token != "" }

// CurrentUser returns the locally cached user, if any.
func (c *Client) CurrentUser() (*User, bool) {
	sess := c.store.load()
	return sess.User, sess.User != nil
}
