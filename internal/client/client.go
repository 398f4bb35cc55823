// ABOUTME: HTTP gateway for the employee management backend
// ABOUTME: Attaches auth through interceptors and maps failures to typed errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every request issued by the gateway
const DefaultTimeout = 30 * time.Second

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// Client is the API client for the employee management backend
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu       sync.RWMutex
	onReq    []RequestInterceptor
	onResp   []ResponseInterceptor
	newReqID func() string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request upper bound
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		newReqID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root all paths are resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OnRequest registers interceptors that run on every outbound request
func (c *Client) OnRequest(fns ...RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReq = append(c.onReq, fns...)
}

// OnResponse registers interceptors that run on every response received
func (c *Client) OnResponse(fns ...ResponseInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onResp = append(c.onResp, fns...)
}

func (c *Client) interceptors() ([]RequestInterceptor, []ResponseInterceptor) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]RequestInterceptor(nil), c.onReq...), append([]ResponseInterceptor(nil), c.onResp...)
}

// Do issues method against path, encoding body as JSON when non-nil and
// decoding a 2xx response into out when non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body any, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	reqID := c.newReqID()
	req.Header.Set(RequestIDHeader, reqID)

	onReq, onResp := c.interceptors()
	for _, fn := range onReq {
		if err := fn(req); err != nil {
			return fmt.Errorf("request interceptor: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("Request failed", "request_id", reqID, "method", method, "path", path, "error", err)
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	slog.Debug("Request completed",
		"request_id", reqID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	for _, fn := range onResp {
		fn(resp)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled")
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var envelope ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		apiErr.Message = envelope.Message
		if apiErr.Message == "" {
			apiErr.Message = envelope.Error
		}
	}
	return apiErr
}
