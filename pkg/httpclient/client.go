package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is the subset of http.Client the services depend on. Keeping it
// an interface makes outbound calls mockable in tests.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// StandardClient wraps the standard http.Client with a sane timeout.
type StandardClient struct {
	client *http.Client
}

// New creates an HTTP client for outbound API calls.
func New(timeout time.Duration) *StandardClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &StandardClient{client: &http.Client{Timeout: timeout}}
}

// Do executes an HTTP request.
func (c *StandardClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// PostJSON marshals body and POSTs it with the given bearer token. The
// caller owns the returned response body.
func PostJSON(ctx context.Context, c Client, url, bearer string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	return c.Do(req)
}
