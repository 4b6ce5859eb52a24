// Package api is the HTTP client for the Aviorie backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"aviorie-web/internal/logger"

	"go.uber.org/zap"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTransport wraps the client's transport, e.g. with metrics.
func WithTransport(wrap func(http.RoundTripper) http.RoundTripper) Option {
	return func(c *Client) { c.httpClient.Transport = wrap(c.httpClient.Transport) }
}

// New builds a client for baseURL. The base URL is fixed for the client's
// lifetime. No timeout is set; callers bound calls with their context.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Token is sent as a bearer credential when not empty.
	Token string
	Body  any
}

// Do sends req and decodes a 2xx JSON answer into out (which may be nil).
// It never retries.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	log := logger.FromCtx(ctx).With(
		zap.String("method", req.Method),
		zap.String("path", req.Path),
	)

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", req.Method, req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	if reqID := logger.RequestIDFrom(ctx); reqID != "" {
		httpReq.Header.Set(logger.RequestIDHeader, reqID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Warn("backend request failed", zap.Error(err))
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("failed to read backend response", zap.Error(err))
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode, Detail: detail(raw)}
		log.Info("backend returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", apiErr.Detail),
		)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Warn("failed to decode backend response", zap.Error(err))
		return &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// detail extracts a string "detail" field from an error body. Validation
// errors carry a list there and yield "".
func detail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err != nil {
		return ""
	}
	return s
}
