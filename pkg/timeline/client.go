package timeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Response is the raw result of a request which reached the server
type Response struct {
	StatusCode int
	Body       []byte
}

// Client performs GET requests against the timeline API. It sets no timeout
// and never retries, the caller's context is the only bound.
type Client struct {
	client    *http.Client
	userAgent string
}

// NewClient makes a client with the given user agent, nil httpClient means a default one
func NewClient(httpClient *http.Client, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{client: httpClient, userAgent: userAgent}
}

// Get fetches url. Any response, including non-200, is returned as Response,
// errors are for requests which didn't get a response at all.
func (c *Client) Get(ctx context.Context, url string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	addHeaders(req, c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response from %s: %w", url, err)
	}
	return Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// addHeaders sets headers expected by the API proxy
func addHeaders(req *http.Request, userAgent string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
}
