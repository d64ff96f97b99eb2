// Package api is the HikeSafe REST client. Every response is unwrapped from
// its {"data": ...} envelope and checked against the model's validation
// tags before it reaches a caller.
package api

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
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/HikeSafe-Project/mobile/internal/common"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// Client talks to the HikeSafe API. It never retries.
type Client struct {
	baseURL    *url.URL
	tokens     TokenGetter
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// NewClient creates a client. tokens supplies the bearer token for
// authenticated calls.
func NewClient(cfg Config, tokens TokenGetter) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	return &Client{
		baseURL:   base,
		tokens:    tokens,
		userAgent: cfg.UserAgent,
		logger:    common.ComponentLogger("api"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Request sends a JSON request to path (relative to the base URL) and
// decodes the response body into out when out is non-nil. With
// requiresAuth the stored token is attached; a missing or expired token
// fails before anything is sent.
func (c *Client) Request(ctx context.Context, method, path string, body any, requiresAuth bool, out any) error {
	var payload io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, contentType, payload, requiresAuth, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, payload io.Reader, requiresAuth bool, out any) error {
	target, err := c.resolve(path)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if requiresAuth {
		if c.tokens == nil {
			return fmt.Errorf("%s %s: %w", method, path, common.ErrNoToken)
		}
		tok, tokErr := TokenSource(ctx, c.tokens).Token()
		if tokErr != nil {
			return fmt.Errorf("%s %s: %w", method, path, tokErr)
		}
		tok.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("API request failed",
			"method", method,
			"path", path,
			"error", err)
		return &common.NetworkError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &common.NetworkError{Method: method, Path: path, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"auth", requiresAuth,
		"duration", time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return &common.HTTPError{Method: method, Path: path, Status: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &common.SchemaError{Reason: decodeReason(err), Err: err}
	}
	return nil
}

func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

func decodeReason(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
	}
	return err.Error()
}

// serverMessage extracts the "message" field the API puts on error bodies.
func serverMessage(body string) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Message)
}
