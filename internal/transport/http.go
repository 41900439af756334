// Package transport provides the default HTTP implementation of the
// types.Transport contract.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/mesh-intelligence/jpcorpreg/pkg/types"
)

// HTTP fetches remote resources over HTTP(S). It carries no retry or timeout
// policy of its own; configure the embedded client for timeouts and wrap
// calls for retries.
type HTTP struct {
	client *http.Client
}

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithClient replaces the underlying http.Client, e.g. to set timeouts.
func WithClient(c *http.Client) Option {
	return func(t *HTTP) { t.client = c }
}

// NewHTTP creates the default transport.
func NewHTTP(opts ...Option) *HTTP {
	t := &HTTP{client: &http.Client{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Get opens a streaming read of the given URL. A 404 maps to
// ErrResourceNotFound; connection failures and other statuses map to
// *types.TransportError. The caller owns the returned body and must close
// it on every path.
func (t *HTTP) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &types.TransportError{URL: url, Err: err}
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &types.TransportError{URL: url, Err: err}
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", url, types.ErrResourceNotFound)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, &types.TransportError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	return resp.Body, nil
}
