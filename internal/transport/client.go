// Package transport provides the HTTP client layer for talking to the
// remote list provider: authentication, request plumbing, and the response
// classification policy shared by every endpoint.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/cartsync/cartsync/pkg/errors"
)

// DefaultHTTPTimeout bounds each remote call. There is no retry layer; a
// failed push leaves local and remote state diverged until the next
// reconciliation pass.
const DefaultHTTPTimeout = 30 * time.Second

// Client provides HTTP client functionality with authentication.
type Client struct {
	http *http.Client
	auth Authenticator
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http: &http.Client{Timeout: DefaultHTTPTimeout},
		auth: auth,
	}
}

// WithHTTPClient replaces the underlying HTTP client (test injection).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.http = hc
	}
	return c
}

// Do performs an HTTP request with authentication and common headers
// applied. Network-level failures come back as TransportError.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.auth.Apply(req)

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapTransport(req.URL.String(), err)
	}
	return resp, nil
}

// Get performs a GET request against the given URL.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapTransport(url, err)
	}
	return c.Do(req)
}

// Put performs a bodyless PUT request against the given URL. The provider's
// mutating endpoints carry all state in the path.
func (c *Client) Put(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return nil, errors.WrapTransport(url, err)
	}
	return c.Do(req)
}
