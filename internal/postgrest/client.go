package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client speaks the PostgREST-style data API of a hosted Postgres instance.
// Every request carries the project's public API key; the store's row-level
// policies decide what that key may touch, so no per-user auth happens here.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New creates a data API client for the given base URL and key.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is the error document the data API returns for failed requests.
// Code carries the Postgres SQLSTATE when the failure originated in the
// database.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("store request failed with status %d", e.StatusCode)
}

// IsUniqueViolation reports whether the store rejected a duplicate key
// (SQLSTATE 23505).
func (e *APIError) IsUniqueViolation() bool {
	return e.Code == "23505"
}

// Insert adds rows to a table. The store is asked for a minimal reply, so
// the caller learns only success or failure.
func (c *Client) Insert(ctx context.Context, table string, payload any) error {
	return c.do(ctx, http.MethodPost, table, nil, payload, "return=minimal", nil)
}

// Select retrieves rows matching the query into dest, a pointer to a slice
// of row structs. Filters, ordering and limits travel as PostgREST query
// parameters.
func (c *Client) Select(ctx context.Context, table string, query url.Values, dest any) error {
	return c.do(ctx, http.MethodGet, table, query, nil, "", dest)
}

// Update patches rows matching the query and decodes the returned
// representation into dest, so callers can tell how many rows matched.
func (c *Client) Update(ctx context.Context, table string, query url.Values, patch any, dest any) error {
	return c.do(ctx, http.MethodPatch, table, query, patch, "return=representation", dest)
}

// Ping verifies the store answers at all. The root endpoint serves the API
// schema, so any 2xx means reachable and authenticated.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "", nil, nil, "", nil)
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, body any, prefer string, dest any) error {
	endpoint := c.baseURL + "/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("store request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read store response: %w", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return parseAPIError(resp.StatusCode, respBody)
	}

	if dest != nil {
		if err := json.Unmarshal(respBody, dest); err != nil {
			return fmt.Errorf("failed to decode store response: %w", err)
		}
	}
	return nil
}

// parseAPIError decodes the store's error document, falling back to the raw
// body when the store answered with something other than JSON.
func parseAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	if len(body) > 0 {
		if err := json.Unmarshal(body, apiErr); err != nil {
			apiErr.Message = strings.TrimSpace(string(body))
		}
	}
	return apiErr
}
