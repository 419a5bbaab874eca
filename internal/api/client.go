// Package api talks to the HexDeck HTTP endpoints that exist outside the
// realtime connection: room create/join/leave and the session and join code
// existence checks.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/hexdeck-client/internal/logger"
	"github.com/palemoky/hexdeck-client/internal/protocol"
)

// Endpoints
const (
	PathCreateRoom    = "/api/room/create"
	PathJoinRoom      = "/api/room/join"
	PathLeaveRoom     = "/api/room/leave"
	PathCheckSession  = "/api/check/session"
	PathCheckJoinCode = "/api/check/joinCode"
	PathStats         = "/api/stats"
)

// DefaultTimeout bounds create, join and the existence checks.
const DefaultTimeout = 5 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

// Observer receives one call per finished request.
type Observer interface {
	ObserveRequest(endpoint, outcome string)
}

// Client is an HTTP client for one HexDeck server.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	clientID string
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the deadline for create, join and the existence checks.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithObserver reports request outcomes, e.g. to metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient creates a client for the server at baseURL (scheme and host).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		timeout:  DefaultTimeout,
		clientID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientID identifies this process in request headers.
func (c *Client) ClientID() string {
	return c.clientID
}

// Timeout returns the deadline applied to create, join and the checks.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

func (c *Client) observe(endpoint, outcome string) {
	if c.observer != nil {
		c.observer.ObserveRequest(endpoint, outcome)
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Id", c.clientID)
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

// postJSON sends body to path and decodes a 2xx response into out.
// Every failure comes back as a *RequestError.
func (c *Client) postJSON(ctx context.Context, op, path string, body, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		c.observe(path, string(CategoryRequestFailed))
		return &RequestError{Category: CategoryRequestFailed, Op: op, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		reqErr := c.transportError(ctx, op, err)
		c.observe(path, string(reqErr.Category))
		return reqErr
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		reqErr := c.transportError(ctx, op, err)
		c.observe(path, string(reqErr.Category))
		return reqErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := serverError(op, resp.StatusCode, data)
		c.observe(path, string(reqErr.Category))
		return reqErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			c.observe(path, string(CategoryRequestFailed))
			return &RequestError{Category: CategoryRequestFailed, Op: op, HTTPStatus: resp.StatusCode, Err: fmt.Errorf("decode reply: %w", err)}
		}
	}
	c.observe(path, "ok")
	return nil
}

func (c *Client) transportError(ctx context.Context, op string, err error) *RequestError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &RequestError{Category: CategoryTimeout, Op: op, Err: err}
	}
	return &RequestError{Category: CategoryRequestFailed, Op: op, Err: err}
}

// serverError maps a non-2xx reply to a category.
func serverError(op string, status int, body []byte) *RequestError {
	reqErr := &RequestError{Category: CategoryRequestFailed, Op: op, HTTPStatus: status}

	var reply ErrorReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return reqErr
	}
	reqErr.ServerCode = reply.StatusCode
	reqErr.Message = reply.Message

	switch {
	case reply.StatusCode == protocol.StatusInvalidJoinCode:
		reqErr.Category = CategoryNoRoomFound
	case reply.Message != "":
		reqErr.Category = CategoryServerMessage
	}
	return reqErr
}

// exists issues a GET and reports whether the server answered 200.
func (c *Client) exists(ctx context.Context, path string, query url.Values) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		logger.LogError("build %s request: %v", path, err)
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.LogWarn("%s failed: %v", path, err)
		c.observe(path, string(CategoryRequestFailed))
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	ok := resp.StatusCode == http.StatusOK
	if ok {
		c.observe(path, "ok")
	} else {
		c.observe(path, "not_found")
	}
	return ok
}
