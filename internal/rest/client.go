// Package rest is the transport layer: it maps dialog submissions and list
// refreshes to single REST calls and reports every result back verbatim.
// It never retries and keeps no cache of its own.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storeadmin/internal/logging"
	"storeadmin/internal/resource"
)

// Client performs the REST calls of the admin console.
//
// token is re-read on every request so an external logout is picked up
// immediately; when it returns "" no Authorization header is sent.
type Client struct {
	baseURL string
	hc      *http.Client
	token   func() string
	log     logging.Logger
}

func NewClient(baseURL string, timeout time.Duration, token func() string, log logging.Logger) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		token:   token,
		log:     log,
	}
}

// LoginResponse is the success body of POST /api/login. User is optional.
type LoginResponse struct {
	AccessToken string         `json:"accessToken"`
	User        map[string]any `json:"user"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/login", map[string]any{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	return &resp, nil
}

// List fetches a collection. The decoded body is returned as-is: shape
// normalization (bare array vs. envelope) is the cache's concern.
func (c *Client) List(ctx context.Context, path string) (any, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	return payload, nil
}

// Create POSTs a new entity and returns the decoded response object.
func (c *Client) Create(ctx context.Context, path string, entity resource.Record) (resource.Record, error) {
	return c.writeCall(ctx, http.MethodPost, path, entity)
}

// Update PUTs a changed entity to its id-scoped endpoint and returns the
// decoded response object.
func (c *Client) Update(ctx context.Context, path string, entity resource.Record) (resource.Record, error) {
	return c.writeCall(ctx, http.MethodPut, path, entity)
}

func (c *Client) writeCall(ctx context.Context, method, path string, entity resource.Record) (resource.Record, error) {
	body, err := c.do(ctx, method, path, entity)
	if err != nil {
		return nil, err
	}

	var resp resource.Record
	if len(body) > 0 {
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", method, err)
		}
	}
	return resp, nil
}

// do performs one HTTP round trip. Failures are converted to values here:
// connectivity problems wrap ErrUnavailable, non-2xx statuses become
// *APIError carrying the raw body.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := c.token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if c.log != nil {
			c.log.Warn(ctx, "request failed", "method", method, "path", path, "error", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
