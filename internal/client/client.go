// Package client is the Go counterpart of the mobile app's REST wrapper: it
// speaks the HTTP Issue API and satisfies store.IssueStore, so the issue
// service can run against a remote server exactly as it runs against the
// on-device store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"floorwatch.app/tracker/internal/model"
	"floorwatch.app/tracker/internal/store"
)

// TransportError marks connection-level failures (unreachable host, closed
// connection, timeout) as opposed to errors the server decoded and returned.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response the server produced deliberately.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to one tracker server. The zero timeout means requests wait
// until the server answers definitively.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Create(ctx context.Context, draft model.IssueDraft) (*model.Issue, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	var issue model.Issue
	if err := c.do(ctx, http.MethodPost, "/api/issues", draft, http.StatusCreated, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *Client) ListByFactory(ctx context.Context, factoryID string) ([]model.Issue, error) {
	var issues []model.Issue
	if err := c.do(ctx, http.MethodGet, "/api/issues/factory/"+factoryID, nil, http.StatusOK, &issues); err != nil {
		return nil, err
	}
	if issues == nil {
		issues = []model.Issue{}
	}
	return issues, nil
}

func (c *Client) UpdateStatus(ctx context.Context, issueID, _ string, status model.Status) (*model.Issue, error) {
	body := map[string]string{"status": string(status)}

	var issue model.Issue
	err := c.do(ctx, http.MethodPatch, "/api/issues/"+issueID+"/status", body, http.StatusOK, &issue)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &issue, nil
}

// Login checks credentials against the server's auth stub.
func (c *Client) Login(ctx context.Context, username, password string) (*model.User, error) {
	body := map[string]string{"username": username, "password": password}

	var resp struct {
		Success bool        `json:"success"`
		User    *model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Factories fetches the server's factory catalog.
func (c *Client) Factories(ctx context.Context) ([]model.Factory, error) {
	var factories []model.Factory
	if err := c.do(ctx, http.MethodGet, "/api/factories", nil, http.StatusOK, &factories); err != nil {
		return nil, err
	}
	return factories, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
		payload.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
}
