// Copyright 2026 The Julesmcp Authors
// SPDX-License-Identifier: MIT

// Package jules is a client for the Google Jules API. It issues exactly one
// upstream request per call, with no retry or caching; transient failures
// surface immediately as typed errors so the caller decides what to do.
package jules

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://jules.googleapis.com/v1alpha"

	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 10 * 1024 * 1024 // 10 MiB

	minPageSize = 1
	maxPageSize = 100

	// Per-list defaults applied when PageSize is unset.
	DefaultSourcePageSize   = 30
	DefaultSessionPageSize  = 30
	DefaultActivityPageSize = 50
)

// Client talks to the Jules API. It is safe for concurrent use; all fields
// are set at construction and never mutated.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests and self-hosted
// proxies. Trailing slashes are trimmed.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		for len(u) > 0 && u[len(u)-1] == '/' {
			u = u[:len(u)-1]
		}
		c.baseURL = u
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout on the default HTTP client,
// regardless of option order. It has no effect when WithHTTPClient supplies
// a custom client; that client keeps its own timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a Client. It returns an error if apiKey is empty; a missing
// key is a configuration error that must be caught before any tool runs.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("jules: API key must not be empty (set JULES_API_KEY)")
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// ListOptions carries pagination parameters for list calls. PageToken is an
// opaque cursor passed through verbatim; PageSize 0 means the per-call
// default, and out-of-range values are clamped to [1,100] rather than
// rejected. Filter is an upstream filter expression, passed through
// verbatim; only source listings document support for it.
type ListOptions struct {
	PageSize  int
	PageToken string
	Filter    string
}

func (o ListOptions) query(defaultSize int) url.Values {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(clampPageSize(o.PageSize, defaultSize)))
	if o.PageToken != "" {
		q.Set("pageToken", o.PageToken)
	}
	if o.Filter != "" {
		q.Set("filter", o.Filter)
	}
	return q
}

// clampPageSize applies the default for the zero value and clamps everything
// else to the API's [1,100] window.
func clampPageSize(n, def int) int {
	if n == 0 {
		n = def
	}
	if n < minPageSize {
		return minPageSize
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}

// ListSources returns one page of sources the API can work with.
func (c *Client) ListSources(ctx context.Context, opts ListOptions) (*ListSourcesResponse, error) {
	var out ListSourcesResponse
	if err := c.do(ctx, http.MethodGet, "sources", opts.query(DefaultSourcePageSize), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSource fetches a single source by resource name.
func (c *Client) GetSource(ctx context.Context, name string) (*Source, error) {
	name, err := ValidateSourceName(name)
	if err != nil {
		return nil, err
	}
	var out Source
	if err := c.do(ctx, http.MethodGet, name, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSessions returns one page of sessions. Filtering (e.g. active-only)
// is the caller's concern; the page and its nextPageToken pass through
// unchanged.
func (c *Client) ListSessions(ctx context.Context, opts ListOptions) (*ListSessionsResponse, error) {
	var out ListSessionsResponse
	if err := c.do(ctx, http.MethodGet, "sessions", opts.query(DefaultSessionPageSize), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession fetches a single session by resource name.
func (c *Client) GetSession(ctx context.Context, name string) (*Session, error) {
	name, err := ValidateSessionName(name)
	if err != nil {
		return nil, err
	}
	var out Session
	if err := c.do(ctx, http.MethodGet, name, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSession starts a new coding session. Prompt and the source resource
// name are required; everything else is optional.
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	if req.Prompt == "" {
		return nil, invalidArgf("prompt must not be empty")
	}
	if _, err := ValidateSourceName(req.SourceContext.Source); err != nil {
		return nil, err
	}
	var out Session
	if err := c.do(ctx, http.MethodPost, "sessions", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// prInstruction is appended to CreatePullRequest prompts so the session
// produces a merge/pull request when the work completes.
const prInstruction = "\n\nPlease create a pull request with these changes."

// CreatePullRequest starts a session that will end in a pull request. It is
// CreateSession with an explicit PR instruction appended to the prompt; the
// session never waits for plan approval.
func (c *Client) CreatePullRequest(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	if req.Prompt == "" {
		return nil, invalidArgf("prompt must not be empty")
	}
	req.Prompt += prInstruction
	req.RequirePlanApproval = false
	return c.CreateSession(ctx, req)
}

// SendMessage sends a follow-up message to a session. No local check is
// made on session state; upstream rejects invalid transitions.
func (c *Client) SendMessage(ctx context.Context, sessionName, message string) (*Ack, error) {
	sessionName, err := ValidateSessionName(sessionName)
	if err != nil {
		return nil, err
	}
	if message == "" {
		return nil, invalidArgf("message must not be empty")
	}
	// Success returns an empty body.
	if err := c.do(ctx, http.MethodPost, sessionName+":sendMessage", nil, sendMessageRequest{Prompt: message}, nil); err != nil {
		return nil, err
	}
	return &Ack{Success: true, Session: sessionName}, nil
}

// ApprovePlan approves the proposed plan for a session. As with SendMessage,
// state preconditions live upstream.
func (c *Client) ApprovePlan(ctx context.Context, sessionName string) (*Ack, error) {
	sessionName, err := ValidateSessionName(sessionName)
	if err != nil {
		return nil, err
	}
	if err := c.do(ctx, http.MethodPost, sessionName+":approvePlan", nil, struct{}{}, nil); err != nil {
		return nil, err
	}
	return &Ack{Success: true, Session: sessionName}, nil
}

// ListActivities returns one page of a session's activity history.
func (c *Client) ListActivities(ctx context.Context, sessionName string, opts ListOptions) (*ListActivitiesResponse, error) {
	sessionName, err := ValidateSessionName(sessionName)
	if err != nil {
		return nil, err
	}
	var out ListActivitiesResponse
	if err := c.do(ctx, http.MethodGet, sessionName+"/activities", opts.query(DefaultActivityPageSize), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetActivity fetches a single activity by resource name.
func (c *Client) GetActivity(ctx context.Context, name string) (*Activity, error) {
	name, err := ValidateActivityName(name)
	if err != nil {
		return nil, err
	}
	var out Activity
	if err := c.do(ctx, http.MethodGet, name, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do issues a single authenticated request and decodes the JSON response
// into out (out may be nil for empty-body verbs). Non-2xx responses become
// *Error with the upstream payload attached; failures before a response
// arrives become KindTransport.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("jules: marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("jules: creating request: %w", err)
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportErr(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportErr(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("jules: decoding response: %w", err)
		}
	}
	return nil
}
