// Package social fetches the latest post of a monitored account from the
// paid, official and public sources, in that order of preference.
package social

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethgrid/pester"
	"golang.org/x/oauth2"
)

// UserAgent is sent with every outbound fetch request
const UserAgent = "DiscordBot/1.0"

const maxBodySize = 5 << 20

// StatusError is returned for non-200 responses
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// HTTPClient is the retrying client shared by all adapters
type HTTPClient struct {
	client *pester.Client
}

// NewHTTPClient creates a client with a per-attempt timeout and retry budget.
// maxRetries counts retries after the first attempt.
func NewHTTPClient(timeout time.Duration, maxRetries int) *HTTPClient {
	return newRetryingClient(&http.Client{Timeout: timeout}, maxRetries)
}

// NewBearerHTTPClient creates a retrying client that sends an OAuth2 bearer token
func NewBearerHTTPClient(ctx context.Context, token string, timeout time.Duration, maxRetries int) *HTTPClient {
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	hc.Timeout = timeout
	return newRetryingClient(hc, maxRetries)
}

func newRetryingClient(hc *http.Client, maxRetries int) *HTTPClient {
	client := pester.NewExtendedClient(hc)
	client.MaxRetries = maxRetries + 1 // pester counts total attempts
	client.Backoff = pester.ExponentialJitterBackoff
	client.RetryOnHTTP429 = true
	client.KeepLog = false

	return &HTTPClient{client: client}
}

// Get performs a GET and returns the body of a 200 response
func (c *HTTPClient) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("GET %s: no response", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
