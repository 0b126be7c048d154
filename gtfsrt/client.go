// Package gtfsrt fetches and decodes GTFS-Realtime protobuf feeds.
package gtfsrt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// DefaultTimeout bounds each feed fetch so one hung upstream cannot stall a
// request indefinitely.
const DefaultTimeout = 10 * time.Second

// Client fetches GTFS-RT feeds over HTTP. The optional API key is attached
// as an x-api-key header on every request; some endpoints tolerate anonymous
// access, so an empty key is not an error.
type Client struct {
	httpClient *http.Client
	apiKey     string
}

// NewClient creates a feed client. A zero timeout uses DefaultTimeout.
func NewClient(timeout time.Duration, apiKey string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
	}
}

// FetchOne fetches and decodes a single feed.
func (c *Client) FetchOne(ctx context.Context, url string) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return DecodeFeed(body)
}

// FetchAll fetches every feed URL concurrently and waits for all of them to
// settle. One feed's failure never aborts the others; it is recorded on its
// FeedResult and that feed contributes nothing. Results are returned in the
// order the URLs were given.
func (c *Client) FetchAll(ctx context.Context, urls []string) []FeedResult {
	results := make([]FeedResult, len(urls))
	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			feed, err := c.FetchOne(ctx, url)
			results[i] = FeedResult{URL: url, Feed: feed, Err: err}
		}(i, url)
	}
	wg.Wait()
	return results
}
