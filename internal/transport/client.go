// Package transport provides a thin HTTP client shared by the source
// adapters. Each request uses the client's timeout; there is no retry
// policy, so a failed request surfaces once per run.
package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/confradar/confradar/pkg/errors"
)

// DefaultTimeout is the per-request timeout for upstream calls.
const DefaultTimeout = 30 * time.Second

// userAgent identifies confradar to upstream servers.
const userAgent = "Mozilla/5.0 (compatible; confradar/1.0)"

// Client wraps http.Client with the shared defaults.
type Client struct {
	http *http.Client
}

// New creates a transport client with the default timeout.
func New() *Client {
	return NewWithTimeout(DefaultTimeout)
}

// NewWithTimeout creates a transport client with a custom timeout.
func NewWithTimeout(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request with the shared headers applied.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("create", url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return c.http.Do(req)
}

// PostJSON performs a POST request with a JSON-encoded body.
func (c *Client) PostJSON(ctx context.Context, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, errors.WrapIO("create", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return c.http.Do(req)
}

// DecodeResponse decodes a JSON response body into v, closing the body.
func DecodeResponse(resp *http.Response, v any) error {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &errors.APIError{
			Source:     resp.Request.URL.Host,
			StatusCode: resp.StatusCode,
			Endpoint:   resp.Request.URL.String(),
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.WrapParse("json", resp.Request.URL.String(), err)
	}
	return nil
}

// ReadBody reads at most limit bytes of the response body, closing it.
func ReadBody(resp *http.Response, limit int64) (string, error) {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &errors.APIError{
			Source:     resp.Request.URL.Host,
			StatusCode: resp.StatusCode,
			Endpoint:   resp.Request.URL.String(),
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", errors.WrapIO("read", resp.Request.URL.String(), err)
	}
	return string(data), nil
}
