// Package api is the HTTP client for the book club REST API.
//
// Every request carries the current session token (if any) as
// "Authorization: Token <token>". Responses are returned unmodified; non-2xx
// responses become *Error. There is no retry, timeout, or backoff: callers
// decide what a failure means for the user.
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

	"go.uber.org/zap"
)

// TokenSource yields the token to attach to the next request. An empty token means "anonymous".
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type ClientConfig struct {
	// BaseURL is the API root, e.g. "http://localhost:8000/api".
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Tokens is consulted on every request. If nil, requests are anonymous.
	Tokens TokenSource
	Logger *zap.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
}

func NewClient(config ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("api: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: BaseURL %q must be absolute", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		tokens:     config.Tokens,
		logger:     logger,
	}, nil
}

// BaseURL returns the normalized API root (no trailing slash).
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return strings.TrimSpace(c.tokens.Token())
}

// do sends a request to path (relative to the base URL, may carry a query string)
// and decodes a 2xx JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, requestBody, out any) error {
	requestURL := c.baseURL + path

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("api: encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		request.Header.Set("Authorization", "Token "+tok)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("api: read response body: %w", err)
	}

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", response.StatusCode),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &Error{
			StatusCode: response.StatusCode,
			Method:     method,
			Path:       path,
			Body:       strings.TrimSpace(string(responseBody)),
		}
	}

	if out == nil || len(bytes.TrimSpace(responseBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("api: decode %s %s response: %w", method, path, err)
	}
	return nil
}
