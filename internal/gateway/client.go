// Package gateway is the typed client for the three remote operations the
// backend exposes: authenticate, list tasks, create task. It owns attaching
// the bearer credential and JSON encoding/decoding. Errors propagate to the
// caller untouched: no retries, no suppression — the poll scheduler decides
// what a failed refresh means.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"tasklab/internal/logging"
	"tasklab/internal/task"
)

// ErrNoCredential is returned when an authenticated call is attempted
// before login.
var ErrNoCredential = errors.New("gateway: no credential held")

// AuthError is an authentication rejection delivered in a 200 body as
// {error:true, cause}. The backend does not signal application errors via
// HTTP status, so callers must test for this type rather than the status.
type AuthError struct {
	Cause string
}

func (e *AuthError) Error() string {
	return "authentication rejected: " + e.Cause
}

// CredentialSource supplies the bearer token for authenticated calls.
type CredentialSource interface {
	HasCredential() bool
	Credential() string
}

// Client talks to one backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialSource
	bodyLimit  int64
	logger     logging.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBodyLimit caps response body size in bytes.
func WithBodyLimit(limit int64) Option {
	return func(c *Client) { c.bodyLimit = limit }
}

// WithLogger attaches a logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New returns a client for the backend at baseURL.
func New(baseURL string, creds CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		creds:      creds,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger)
	return c
}

type tokenResponse struct {
	Token string `json:"token"`
	Error bool   `json:"error"`
	Cause string `json:"cause"`
}

// Authenticate exchanges username/password for a bearer token. The call is
// unauthenticated; no bearer header is attached.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	payload := map[string]string{"username": username, "password": password}

	body, err := c.post(ctx, "/api/tokens", payload, false)
	if err != nil {
		return "", err
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("authenticate: decode response: %w", err)
	}
	if resp.Error {
		c.logger.Info("authenticate rejected for %q: %s", username, resp.Cause)
		return "", &AuthError{Cause: resp.Cause}
	}
	if resp.Token == "" {
		return "", errors.New("authenticate: response carried neither token nor error")
	}

	c.logger.Info("authenticated as %q", username)
	return resp.Token, nil
}

// ListTasks fetches the full task collection. Requires a credential.
func (c *Client) ListTasks(ctx context.Context) ([]task.Record, error) {
	body, err := c.get(ctx, "/api/tasks")
	if err != nil {
		return nil, err
	}

	var resp struct {
		Tasks []task.Record `json:"tasks"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("list tasks: decode response: %w", err)
	}
	return resp.Tasks, nil
}

type createResponse struct {
	ID    any    `json:"id"`
	Error bool   `json:"error"`
	Cause string `json:"cause"`
}

// CreateTask submits a script for execution and returns the new task's id.
// The three fields go to the backend verbatim: lang is not validated against
// any known set and no size limit applies — enforcement is the backend's job.
func (c *Client) CreateTask(ctx context.Context, lang, name, code string) (string, error) {
	payload := map[string]string{"lang": lang, "name": name, "code": code}

	body, err := c.post(ctx, "/api/tasks", payload, true)
	if err != nil {
		return "", err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var resp createResponse
	if err := dec.Decode(&resp); err != nil {
		return "", fmt.Errorf("create task: decode response: %w", err)
	}
	if resp.Error {
		return "", fmt.Errorf("create task rejected: %s", resp.Cause)
	}
	if resp.ID == nil {
		return "", errors.New("create task: response carried no id")
	}

	id := task.FormatValue(resp.ID)
	c.logger.Info("created task %s (lang=%s)", id, lang)
	return id, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, true)
}

func (c *Client) post(ctx context.Context, path string, payload any, authenticated bool) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, authenticated)
}

func (c *Client) do(req *http.Request, authenticated bool) ([]byte, error) {
	if authenticated {
		if c.creds == nil || !c.creds.HasCredential() {
			return nil, ErrNoCredential
		}
		req.Header.Set("Authorization", "Bearer "+c.creds.Credential())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: unexpected status %s", req.Method, req.URL.Path, resp.Status)
	}

	body, err := readLimited(resp.Body, c.bodyLimit)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	return body, nil
}
