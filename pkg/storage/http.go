package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTP is the read-only http:// and https:// backend, used to fetch remote
// hero and overlay assets. Publishing over HTTP is not supported.
type HTTP struct {
	client *http.Client
}

// NewHTTP creates an HTTP backend using the default client.
func NewHTTP() *HTTP {
	return &HTTP{client: http.DefaultClient}
}

func (h *HTTP) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	if _, err := requireScheme(uri, "http", "https"); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", uri, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d", uri, resp.StatusCode)
	}

	return resp.Body, nil
}

func (h *HTTP) Put(ctx context.Context, uri string, data io.Reader) error {
	return fmt.Errorf("http backend is read-only")
}

func (h *HTTP) Delete(ctx context.Context, uri string) error {
	return fmt.Errorf("http backend is read-only")
}

func (h *HTTP) Exists(ctx context.Context, uri string) (bool, error) {
	if _, err := requireScheme(uri, "http", "https"); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, uri, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", uri, err)
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
